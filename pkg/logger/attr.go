package logger

import (
	"log/slog"
	"strconv"
	"time"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Pattern records a route pattern under the key "pattern".
func Pattern(p string) slog.Attr {
	return slog.String("pattern", p)
}

// Tier records a dispatch tier under the key "tier".
func Tier(t string) slog.Attr {
	return slog.String("tier", t)
}

// Plugin records a plugin name under the key "plugin".
func Plugin(name string) slog.Attr {
	return slog.String("plugin", name)
}

// RunID records a plugin run identifier under the key "run_id".
// If id is nil, it returns an empty Attr.
func RunID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("run_id", id)
}

// Locale records a locale tag under the key "locale".
// Accepts anything with a String method (language.Tag) or a plain string.
func Locale(tag any) slog.Attr {
	switch v := tag.(type) {
	case nil:
		return slog.Attr{}
	case string:
		return slog.String("locale", v)
	case interface{ String() string }:
		return slog.String("locale", v.String())
	default:
		return slog.Any("locale", v)
	}
}

// Path records a request path under the key "path".
func Path(p string) slog.Attr {
	return slog.String("path", p)
}

// File records a file path under the key "file".
func File(p string) slog.Attr {
	return slog.String("file", p)
}

// RequestID records the request identifier under the key "request_id".
// If id is nil, it returns an empty Attr.
func RequestID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("request_id", id)
}

// Duration records a duration under the key "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}
