package core

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	// custom validation tags & texts
	identifierTag   = "identifier"
	identifierText  = "{0} must be an identifier of letters, digits, '-' or '_'"
	identifierRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
)

// NewTranslator returns the english translator used for validation messages.
func NewTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

// InitValidators instantiates the validator for use.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use query (or JSON) tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		tag := fld.Tag.Get("query")
		if tag == "" {
			tag = fld.Tag.Get("json")
		}
		name := strings.SplitN(tag, ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// register custom validators
	_ = validate.RegisterValidation(identifierTag, identifierValidation)
	RegisterCustomTranslation(validate, translator, identifierTag, identifierText)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
func RegisterCustomTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// TranslateValidationErrors converts validator errors into a ValidationError with readable messages.
func TranslateValidationErrors(errs validator.ValidationErrors, translator ut.Translator) error {
	flds := make([]FieldError, 0, len(errs))
	for _, fe := range errs {
		flds = append(flds, FieldError{Field: fe.Field(), Error: fe.Translate(translator)})
	}
	return NewValidationError(errs, flds...)
}

// Custom Global Validators

// identifierValidation only allows short ids made of alphanumeric characters, dashes and underscores.
func identifierValidation(fl validator.FieldLevel) bool {
	return identifierRegex.MatchString(fl.Field().String())
}
