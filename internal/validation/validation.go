// Package validation wraps go-playground/validator with English messages.
package validation

import (
	"errors"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Validator checks struct tags and reports the first failure as a readable message.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// New returns a Validator whose errors read as English sentences.
func New() (*Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Validator{validate: validate, translator: trans}, nil
}

// Struct validates v. Only the first violation is returned so messages stay short.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return err
	}
	return errors.New(validationErrors[0].Translate(v.translator))
}
