package handlers

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"textbook_market/pkg/models"
)

var validatorsOnce sync.Once

var catalogValidations = map[string]validator.Func{
	"book_subject": func(fl validator.FieldLevel) bool {
		return models.IsValidSubject(fl.Field().String())
	},
	"book_condition": func(fl validator.FieldLevel) bool {
		return models.IsValidCondition(fl.Field().String())
	},
	"book_status": func(fl validator.FieldLevel) bool {
		return models.IsValidBookStatus(models.BookStatus(fl.Field().String()))
	},
}

// registerValidators adds the catalog tags used in request bindings. Routes
// that use them cannot work without them, so a failure panics at startup.
func registerValidators() {
	validatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			panic(fmt.Sprintf("handlers: unexpected binding validator %T", binding.Validator.Engine()))
		}
		if err := registerCatalogValidations(v); err != nil {
			panic(err)
		}
	})
}

func registerCatalogValidations(v *validator.Validate) error {
	for tag, fn := range catalogValidations {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s validation: %w", tag, err)
		}
	}
	return nil
}
