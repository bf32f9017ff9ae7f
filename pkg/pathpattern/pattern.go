package pathpattern

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/dimfeld/httppath"
)

const (
	// Separator delimits path segments.
	Separator = "/"
	// SingleWildcard matches exactly one path segment.
	SingleWildcard = "*"
	// MultiWildcard matches zero or more path segments.
	MultiWildcard = "**"
)

// Tier is the matching strategy bucket a pattern is classified into.
type Tier uint8

const (
	// TierExact holds patterns without wildcards; matched by string equality.
	TierExact Tier = iota
	// TierSegment holds patterns with `*` but no `**`; matched by the segment tree.
	TierSegment
	// TierWildcard holds patterns containing `**`; matched by a linear scan.
	TierWildcard
)

func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierSegment:
		return "segment"
	case TierWildcard:
		return "wildcard"
	default:
		return fmt.Sprintf("tier(%d)", uint8(t))
	}
}

// MarshalText encodes the tier by name.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Pattern is a normalized, classified route pattern.
type Pattern struct {
	raw      string
	tier     Tier
	segments []string
}

// Compile normalizes and classifies pattern.
func Compile(pattern string) (Pattern, error) {
	normalized, err := Normalize(pattern)
	if err != nil {
		return Pattern{}, err
	}

	tier := TierExact
	switch {
	case strings.Contains(normalized, MultiWildcard):
		tier = TierWildcard
	case strings.Contains(normalized, SingleWildcard):
		tier = TierSegment
	}

	return Pattern{
		raw:      normalized,
		tier:     tier,
		segments: Split(normalized),
	}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(pattern string) Pattern {
	p, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return p
}

// Classify returns the tier and the normalized form of pattern.
func Classify(pattern string) (Tier, string, error) {
	p, err := Compile(pattern)
	if err != nil {
		return TierExact, "", err
	}
	return p.tier, p.raw, nil
}

// Normalize returns the canonical form of pattern.
func Normalize(pattern string) (string, error) {
	p := strings.TrimSpace(pattern)
	if p == "" {
		return "", fmt.Errorf("%w: pattern is blank", ErrInvalidPattern)
	}

	p = clean(p)
	for _, seg := range Split(p) {
		if strings.Contains(seg, SingleWildcard) && seg != SingleWildcard && seg != MultiWildcard {
			return "", fmt.Errorf("%w: segment %q of %q mixes wildcard and literal", ErrInvalidPattern, seg, pattern)
		}
	}
	return p, nil
}

// CleanPath decodes percent-encoding in a request path and normalizes it the same way
// patterns are normalized. A malformed escape leaves the path undecoded.
func CleanPath(path string) string {
	if decoded, err := url.PathUnescape(path); err == nil {
		path = decoded
	}
	return clean(path)
}

// Split returns the segments of a normalized path. The root path has no segments.
func Split(path string) []string {
	trimmed := strings.Trim(path, Separator)
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, Separator)
}

// Match reports whether path matches pattern. Both are normalized first.
func Match(pattern, path string) bool {
	p, err := Compile(pattern)
	if err != nil {
		return false
	}
	return p.Matches(CleanPath(path))
}

func (p Pattern) String() string { return p.raw }

// Tier returns the tier the pattern was classified into.
func (p Pattern) Tier() Tier { return p.tier }

// Segments returns a copy of the pattern segments.
func (p Pattern) Segments() []string {
	return append([]string(nil), p.segments...)
}

// Matches reports whether the already cleaned path matches the pattern.
func (p Pattern) Matches(path string) bool {
	return matchSegments(p.segments, Split(path))
}

// Specificity returns the number of literal segments before the first wildcard and the
// total number of segments.
func (p Pattern) Specificity() (literal, segments int) {
	for _, seg := range p.segments {
		if seg == SingleWildcard || seg == MultiWildcard {
			break
		}
		literal++
	}
	return literal, len(p.segments)
}

func matchSegments(pattern, path []string) bool {
	for len(pattern) > 0 {
		switch pattern[0] {
		case MultiWildcard:
			rest := pattern[1:]
			if len(rest) == 0 {
				return true
			}
			for i := 0; i <= len(path); i++ {
				if matchSegments(rest, path[i:]) {
					return true
				}
			}
			return false
		case SingleWildcard:
			if len(path) == 0 {
				return false
			}
		default:
			if len(path) == 0 || path[0] != pattern[0] {
				return false
			}
		}
		pattern, path = pattern[1:], path[1:]
	}
	return len(path) == 0
}

func clean(p string) string {
	p = httppath.Clean(p)
	if len(p) > 1 {
		p = strings.TrimSuffix(p, Separator)
	}
	return p
}
