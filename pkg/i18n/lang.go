package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// DefaultLanguage is used when nothing else yields a locale.
var DefaultLanguage = language.English

// maxAcceptLanguageLength bounds the header we are willing to parse.
const maxAcceptLanguageLength = 4096

// anyLanguage is what x/text parses the "*" range into.
var anyLanguage = language.Make("mul")

// ParseAcceptLanguage picks a locale from an Accept-Language header, honoring q-values.
//
// With supported tags the best match among them is returned (en-GB matches en); without,
// the most preferred tag of the header is returned as is. The "*" range is ignored. def is
// returned for an empty or malformed header and when nothing matches.
func ParseAcceptLanguage(header string, supported []language.Tag, def language.Tag) language.Tag {
	header = strings.TrimSpace(header)
	if header == "" {
		return def
	}
	if len(header) > maxAcceptLanguageLength {
		header = header[:maxAcceptLanguageLength]
		if i := strings.LastIndexByte(header, ','); i > 0 {
			header = header[:i]
		}
	}

	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return def
	}

	ranged := tags[:0]
	for _, t := range tags {
		if t != language.Und && t != anyLanguage {
			ranged = append(ranged, t)
		}
	}
	if len(ranged) == 0 {
		return def
	}
	if len(supported) == 0 {
		return ranged[0]
	}

	return match(supported, def, ranged...)
}

// ParseLocale parses a BCP 47 tag. Blank input and "und" are ErrInvalidLocale.
func ParseLocale(s string) (language.Tag, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return language.Und, ErrInvalidLocale
	}
	tag, err := language.Parse(s)
	if err != nil || tag == language.Und {
		return language.Und, ErrInvalidLocale
	}
	return tag, nil
}

// ParseLocales parses every entry of ss, failing on the first invalid one.
func ParseLocales(ss []string) ([]language.Tag, error) {
	if len(ss) == 0 {
		return nil, nil
	}
	tags := make([]language.Tag, 0, len(ss))
	for _, s := range ss {
		tag, err := ParseLocale(s)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// match returns the supported tag closest to the candidates, or def when the match
// confidence is No.
func match(supported []language.Tag, def language.Tag, candidates ...language.Tag) language.Tag {
	_, idx, conf := language.NewMatcher(supported).Match(candidates...)
	if conf == language.No {
		return def
	}
	return supported[idx]
}

// narrow limits tag to supported. Und in, Und out; no supported tags means no limit.
func narrow(tag language.Tag, supported []language.Tag) language.Tag {
	if tag == language.Und || len(supported) == 0 {
		return tag
	}
	return match(supported, language.Und, tag)
}
