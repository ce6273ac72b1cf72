package models

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// FieldError is used to indicate an error with a specific input field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ValidationError reports every invalid field of an input before it is sent
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func (err *ValidationError) Error() string {
	if len(err.Fields) == 0 {
		return err.Err.Error()
	}
	parts := make([]string, 0, len(err.Fields))
	for _, f := range err.Fields {
		parts = append(parts, f.Field+": "+f.Error)
	}
	return err.Err.Error() + ": " + strings.Join(parts, "; ")
}

func (err *ValidationError) Unwrap() error {
	return err.Err
}

// ErrInvalidInput is the cause of every ValidationError
var ErrInvalidInput = errors.New("invalid input")

var (
	validate   *validator.Validate
	translator ut.Translator
)

const (
	roleTag  = "role"
	roleText = "{0} must be a known church role"
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	english := en.New()
	translator, _ = ut.New(english, english).GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(roleTag, func(fl validator.FieldLevel) bool {
		return Role(fl.Field().String()).IsValid()
	})
	_ = validate.RegisterTranslation(
		roleTag, translator,
		func(t ut.Translator) error { return t.Add(roleTag, roleText, false) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(roleTag, fe.Field())
			return s
		},
	)
}

// Validate checks an input or command against its validate tags
func Validate(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{
			Field: fe.Field(),
			Error: fe.Translate(translator),
		})
	}
	return &ValidationError{Err: ErrInvalidInput, Fields: fields}
}
