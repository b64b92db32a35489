package handlers

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listing struct {
	Subject   string `validate:"book_subject"`
	Condition string `validate:"book_condition"`
	Status    string `validate:"omitempty,book_status"`
}

func TestRegisterCatalogValidations(t *testing.T) {
	v := validator.New()
	require.NoError(t, registerCatalogValidations(v))

	assert.NoError(t, v.Struct(listing{Subject: "language", Condition: "fair", Status: "reserved"}))
	assert.NoError(t, v.Struct(listing{Subject: "language", Condition: "fair"}))
	assert.Error(t, v.Struct(listing{Subject: "astrology", Condition: "fair"}))
	assert.Error(t, v.Struct(listing{Subject: "language", Condition: "mint"}))
	assert.Error(t, v.Struct(listing{Subject: "language", Condition: "fair", Status: "lost"}))
}

func TestRegisterCatalogValidationsReportsFailure(t *testing.T) {
	catalogValidations[""] = func(validator.FieldLevel) bool { return true }
	t.Cleanup(func() { delete(catalogValidations, "") })

	assert.Error(t, registerCatalogValidations(validator.New()))
}

func TestRegisterValidatorsIsIdempotent(t *testing.T) {
	assert.NotPanics(t, registerValidators)
	assert.NotPanics(t, registerValidators)
}
