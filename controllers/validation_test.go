package controllers

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindingErrorsFlattensFieldErrors(t *testing.T) {
	type input struct {
		Title string `validate:"required,min=5"`
		Email string `validate:"required,email"`
	}

	err := validator.New().Struct(input{Title: "abc", Email: "nope"})
	require.Error(t, err)

	errs := bindingErrors(err)
	require.Len(t, errs, 2)
	assert.Equal(t, "title", errs[0]["field"])
	assert.Contains(t, errs[0]["message"], "at least 5")
	assert.Equal(t, "email", errs[1]["field"])
	assert.Equal(t, "Please provide a valid email", errs[1]["message"])
}

func TestBindingErrorsHandlesNonValidatorError(t *testing.T) {
	errs := bindingErrors(errors.New("unexpected EOF"))
	require.Len(t, errs, 1)
	assert.Equal(t, "unexpected EOF", errs[0]["message"])
}
