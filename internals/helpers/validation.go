package helper

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"dormku_backend/internals/helpers/apperror"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
	translator   ut.Translator

	roomNumberTag   = "room_number"
	roomNumberText  = "{0} may only contain letters, digits, dashes and dots"
	roomNumberRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9.\-]*$`)
)

// Validator returns the shared validator with English translations and JSON field names.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		_en := en.New()
		uni := ut.New(_en, _en)
		translator, _ = uni.GetTranslator("en")
		_ = en_translations.RegisterDefaultTranslations(validate, translator)

		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		_ = validate.RegisterValidation(roomNumberTag, func(fl validator.FieldLevel) bool {
			return roomNumberRegex.MatchString(fl.Field().String())
		})
		registerTranslation(roomNumberTag, roomNumberText)
	})
	return validate
}

func registerTranslation(tag, text string) {
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// ValidateStruct runs struct validation and converts failures into a validation apperror.
func ValidateStruct(v *validator.Validate, s any) error {
	if v == nil {
		v = Validator()
	}
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return apperror.Validation("invalid input", nil)
	}
	return apperror.Validation("validation failed", TranslateValidation(ve))
}

func TranslateValidation(ve validator.ValidationErrors) map[string][]string {
	Validator()
	out := make(map[string][]string, len(ve))
	for _, fe := range ve {
		field := fe.Field()
		if field == "" {
			field = strings.ToLower(fe.StructField())
		}
		out[field] = append(out[field], fe.Translate(translator))
	}
	return out
}
