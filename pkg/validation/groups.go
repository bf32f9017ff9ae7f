package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DefaultGroup is the group of fields without a `groups` tag.
const DefaultGroup = "default"

const groupsTag = "groups"

// groupFilter skips fields whose groups are all inactive. The namespace handed to the
// filter starts with the root type name followed by Go field names, with [index] suffixes
// for dive elements.
func groupFilter(root reflect.Type, active map[string]struct{}) validator.FilterFunc {
	return func(ns []byte) bool {
		groups, ok := fieldGroups(root, string(ns))
		if !ok {
			return false
		}
		for _, g := range groups {
			if _, ok := active[g]; ok {
				return false
			}
		}
		return true
	}
}

// fieldGroups returns the groups of the field at ns. ok is false when ns can't be
// resolved, in which case the field is validated.
func fieldGroups(root reflect.Type, ns string) (groups []string, ok bool) {
	parts := strings.Split(ns, ".")
	if len(parts) < 2 {
		return nil, false
	}

	t := root
	var tag string
	for _, name := range parts[1:] {
		if i := strings.IndexByte(name, '['); i >= 0 {
			name = name[:i]
		}
		t = elem(t)
		if t.Kind() != reflect.Struct {
			return nil, false
		}
		f, found := t.FieldByName(name)
		if !found {
			return nil, false
		}
		tag, t = f.Tag.Get(groupsTag), f.Type
	}

	return parseGroups(tag), true
}

func parseGroups(tag string) []string {
	if strings.TrimSpace(tag) == "" {
		return []string{DefaultGroup}
	}
	var groups []string
	for g := range strings.SplitSeq(tag, ",") {
		if g = strings.TrimSpace(g); g != "" {
			groups = append(groups, g)
		}
	}
	return groups
}

// elem unwraps pointers and containers down to the element type.
func elem(t reflect.Type) reflect.Type {
	for {
		switch t.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Array, reflect.Map:
			t = t.Elem()
		default:
			return t
		}
	}
}
