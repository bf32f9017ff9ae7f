// Package pathpattern compiles route patterns used by the dispatch registry.
//
// A pattern is a slash separated list of segments. The segment `*` matches exactly one
// path segment and `**` matches zero or more segments. Every other segment is a literal.
// Segments that mix `*` with other characters are rejected.
//
// Patterns are normalized before use: surrounding whitespace is trimmed, duplicate
// separators are collapsed, `.` and `..` elements are resolved, a leading separator is
// enforced and a trailing separator is removed. Classify reports which matching tier a
// normalized pattern belongs to:
//
//	tier, pattern, err := pathpattern.Classify("/api//v1/*/")
//	// tier == pathpattern.TierSegment, pattern == "/api/v1/*"
//
// Request paths go through CleanPath, which additionally decodes percent-encoding, so
// patterns and paths are compared in the same canonical form.
package pathpattern
