// Package validate owns the process-wide struct validator and turns its failures
// into perr violations with english messages keyed by json field names
package validate

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	perr "bookable/internal/platform/errors"
	"bookable/internal/platform/logger"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// FieldLevel aliases validator.FieldLevel
type FieldLevel = validator.FieldLevel

// Svc holds the validator and its translator
type Svc struct {
	Validator  *validator.Validate
	Translator ut.Translator
}

var (
	once sync.Once
	svc  *Svc
)

// Get returns the singleton, building it on first use
func Get() *Svc {
	once.Do(func() {
		loc := en.New()
		trans, _ := ut.New(loc, loc).GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonName)
		_ = en_translations.RegisterDefaultTranslations(v, trans)

		short(v, trans, "min", "{0} must be at least {1}")
		short(v, trans, "max", "{0} must be at most {1}")
		short(v, trans, "gte", "{0} must be at least {1}")
		short(v, trans, "lte", "{0} must be at most {1}")
		short(v, trans, "datetime", "{0} must use the layout {1}")
		short(v, trans, "latitude", "{0} must be a latitude between -90 and 90")
		short(v, trans, "longitude", "{0} must be a longitude between -180 and 180")

		svc = &Svc{Validator: v, Translator: trans}
	})
	return svc
}

// Register adds a custom tag with its message, {0} is the field and {1} the param
func Register(tag, msg string, fn validator.Func) error {
	s := Get()
	if err := s.Validator.RegisterValidation(tag, fn); err != nil {
		return err
	}
	short(s.Validator, s.Translator, tag, msg)
	return nil
}

// Struct validates v and returns a perr validation error listing every violation
func Struct(v any) error {
	err := Get().Validator.Struct(v)
	if err == nil {
		return nil
	}
	var inv *validator.InvalidValidationError
	if errors.As(err, &inv) {
		logger.Get().Error().Err(inv).Msg("validator internal error")
		return perr.Wrap(inv, perr.ErrorCodeUnknown, "validation error")
	}
	return perr.Invalid(Violations(err)...)
}

// Violations flattens validator errors into field, constraint and message rows
func Violations(err error) []perr.Violation {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []perr.Violation{{Message: err.Error()}}
	}
	tr := Get().Translator
	out := make([]perr.Violation, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, perr.Violation{
			Field:      fieldPath(fe),
			Constraint: fe.Tag(),
			Message:    fe.Translate(tr),
		})
	}
	return out
}

// fieldPath drops the root struct name so nested fields read origin.lat
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func jsonName(fld reflect.StructField) string {
	for _, key := range []string{"json", "form"} {
		tag := fld.Tag.Get(key)
		if tag == "" || tag == "-" {
			continue
		}
		if i := strings.Index(tag, ","); i >= 0 {
			tag = tag[:i]
		}
		if tag != "" {
			return tag
		}
	}
	return fld.Name
}

func short(v *validator.Validate, trans ut.Translator, tag, msg string) {
	_ = v.RegisterTranslation(tag, trans,
		func(t ut.Translator) error { return t.Add(tag, msg, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			out, _ := t.T(tag, fe.Field(), fe.Param())
			return out
		},
	)
}
