package validation

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/de"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/fr"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	de_translations "github.com/go-playground/validator/v10/translations/de"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	fr_translations "github.com/go-playground/validator/v10/translations/fr"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	"golang.org/x/text/language"

	"github.com/dmitrymomot/localemux/pkg/i18n"
)

type translation struct {
	locale   locales.Translator
	register func(*validator.Validate, ut.Translator) error
}

var bundled = []translation{
	{en.New(), en_translations.RegisterDefaultTranslations},
	{zh.New(), zh_translations.RegisterDefaultTranslations},
	{fr.New(), fr_translations.RegisterDefaultTranslations},
	{de.New(), de_translations.RegisterDefaultTranslations},
}

var timeType = reflect.TypeOf(time.Time{})

// Handler validates structs and translates violations.
type Handler struct {
	validate *validator.Validate
	uni      *ut.UniversalTranslator
	locale   *language.Tag
}

// Option configures a Handler.
type Option func(*Handler)

// WithLocale renders every message in tag instead of the request locale.
func WithLocale(tag language.Tag) Option {
	return func(h *Handler) { h.locale = &tag }
}

// New creates a Handler with the bundled translations. Field names in violations come
// from `json` tags when present.
func New(opts ...Option) (*Handler, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)

	fallback := bundled[0].locale
	supported := make([]locales.Translator, 0, len(bundled))
	for _, b := range bundled {
		supported = append(supported, b.locale)
	}
	uni := ut.New(fallback, supported...)

	for _, b := range bundled {
		trans, _ := uni.GetTranslator(b.locale.Locale())
		if err := b.register(v, trans); err != nil {
			return nil, fmt.Errorf("register %s translations: %w", b.locale.Locale(), err)
		}
	}

	h := &Handler{validate: v, uni: uni}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Validator exposes the underlying engine, e.g. to register custom rules.
func (h *Handler) Validator() *validator.Validate {
	return h.validate
}

// Validate checks target, a struct or pointer to struct, against the constraints of the
// active groups. It returns nil, ErrInvalidTarget or a *ConstraintViolationError.
func (h *Handler) Validate(ctx context.Context, target any, groups ...string) error {
	if !isStruct(target) {
		return fmt.Errorf("%w: %T", ErrInvalidTarget, target)
	}

	violations, err := h.check(ctx, target, groups)
	if err != nil {
		return err
	}
	if len(violations) > 0 {
		return &ConstraintViolationError{Violations: violations}
	}
	return nil
}

// ValidateParams validates every struct among params and reports all violations at
// once. Field names are prefixed with the parameter position ("arg0.name"). Values that
// are not structs are skipped.
func (h *Handler) ValidateParams(ctx context.Context, params []any, groups ...string) error {
	var all []Violation
	for i, p := range params {
		if !isStruct(p) {
			continue
		}
		violations, err := h.check(ctx, p, groups)
		if err != nil {
			return err
		}
		for _, v := range violations {
			v.Field = fmt.Sprintf("arg%d.%s", i, v.Field)
			all = append(all, v)
		}
	}
	if len(all) > 0 {
		return &ConstraintViolationError{Violations: all}
	}
	return nil
}

func (h *Handler) check(ctx context.Context, target any, groups []string) ([]Violation, error) {
	active := make(map[string]struct{}, max(len(groups), 1))
	for _, g := range groups {
		active[g] = struct{}{}
	}
	if len(active) == 0 {
		active[DefaultGroup] = struct{}{}
	}

	err := h.validate.StructFilteredCtx(ctx, target, groupFilter(reflect.TypeOf(target), active))
	if err == nil {
		return nil, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}

	trans := h.translator(ctx)
	violations := make([]Violation, 0, len(verrs))
	for _, fe := range verrs {
		violations = append(violations, Violation{
			Field:   fieldPath(fe.Namespace()),
			Rule:    fe.Tag(),
			Param:   fe.Param(),
			Message: fe.Translate(trans),
		})
	}
	return violations, nil
}

// translator picks the fixed locale, else the request locale; unknown locales fall back
// to English.
func (h *Handler) translator(ctx context.Context) ut.Translator {
	tag := i18n.GetLocale(ctx)
	if h.locale != nil {
		tag = *h.locale
	}
	base, _ := tag.Base()
	trans, _ := h.uni.FindTranslator(tag.String(), base.String())
	return trans
}

// fieldPath drops the root type name from a validator namespace.
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

func isStruct(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}
	return rv.Kind() == reflect.Struct && rv.Type() != timeType
}
