// Package validation validates request payloads with go-playground/validator and renders
// the violations in the request locale.
//
// Constraints are declared with `validate` struct tags. Fields can be assigned to groups
// with a `groups` tag; a field is checked only when one of its groups is active. Fields
// without the tag belong to DefaultGroup, which is the only active group when none is
// given:
//
//	type Employee struct {
//		Name string `json:"name" validate:"required"`
//		Age  int    `json:"age" validate:"min=18" groups:"adult"`
//	}
//
//	h, err := validation.New()
//	...
//	err = h.Validate(r.Context(), &e)             // checks Name only
//	err = h.Validate(r.Context(), &e, "adult")    // checks Age only
//
// Every violation is collected before returning a *ConstraintViolationError. Messages use
// the locale stored by i18n.Middleware, so a request with `Accept-Language: zh` gets
// "name为必填字段" where English clients get "name is a required field". WithLocale pins a
// single locale instead. English, Chinese, French and German are bundled; any other
// locale falls back to English.
package validation
