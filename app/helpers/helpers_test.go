package helpers

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleForm struct {
	Name      string `validate:"required,min=3"`
	BasePrice string `validate:"required"`
}

func TestFormatValidationErrors(t *testing.T) {
	validate := validator.New()

	err := validate.Struct(&sampleForm{})
	require.Error(t, err)

	messages := FormatValidationErrors(err.(validator.ValidationErrors))
	assert.Equal(t, "Name wajib diisi.", messages["name"])
	assert.Equal(t, "BasePrice wajib diisi.", messages["baseprice"])
}

func TestFormatValidationErrorsMinTag(t *testing.T) {
	validate := validator.New()

	err := validate.Struct(&sampleForm{Name: "ab", BasePrice: "1000"})
	require.Error(t, err)

	messages := FormatValidationErrors(err.(validator.ValidationErrors))
	assert.Equal(t, "Name minimal 3 karakter/nilai.", messages["name"])
	assert.NotContains(t, messages, "baseprice")
}
