package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/cetteup/le-launcher/pkg/game"
	"github.com/cetteup/le-launcher/pkg/locale"
)

var validations = map[string]validator.Func{
	"language": validateLanguage,
	"title":    validateTitle,
	"edition":  validateEdition,
}

func newValidator() *validator.Validate {
	v, err := buildValidator(validations)
	if err != nil {
		panic(err)
	}
	return v
}

func buildValidator(funcs map[string]validator.Func) (*validator.Validate, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	for tag, fn := range funcs {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return nil, fmt.Errorf("failed to register %q validation: %w", tag, err)
		}
	}
	return v, nil
}

func validateLanguage(fl validator.FieldLevel) bool {
	return locale.IsKnown(fl.Field().String())
}

func validateTitle(fl validator.FieldLevel) bool {
	_, err := game.ParseTitle(fl.Field().String())
	return err == nil
}

func validateEdition(fl validator.FieldLevel) bool {
	_, err := game.ParseEdition(fl.Field().String())
	return err == nil
}
