package i18n

import (
	"context"
	"log/slog"

	"golang.org/x/text/language"

	"github.com/dmitrymomot/localemux/pkg/logger"
)

type localeContextKey struct{}

// SetLocale returns a copy of ctx carrying tag.
func SetLocale(ctx context.Context, tag language.Tag) context.Context {
	return context.WithValue(ctx, localeContextKey{}, tag)
}

// LocaleFromContext returns the locale stored in ctx. ok is false when none was set or
// the stored tag is language.Und.
func LocaleFromContext(ctx context.Context) (tag language.Tag, ok bool) {
	tag, ok = ctx.Value(localeContextKey{}).(language.Tag)
	if !ok || tag == language.Und {
		return language.Und, false
	}
	return tag, true
}

// GetLocale returns the locale stored in ctx, or DefaultLanguage.
func GetLocale(ctx context.Context) language.Tag {
	if tag, ok := LocaleFromContext(ctx); ok {
		return tag
	}
	return DefaultLanguage
}

// LoggerExtractor adds the request locale to log records written with a context.
func LoggerExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		tag, ok := LocaleFromContext(ctx)
		if !ok {
			return slog.Attr{}, false
		}
		return logger.Locale(tag), true
	}
}
