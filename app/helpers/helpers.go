package helpers

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

func FormatValidationErrors(errs validator.ValidationErrors) map[string]string {
	errorMessages := make(map[string]string)
	for _, err := range errs {
		field := strings.ToLower(err.Field())
		switch err.Tag() {
		case "required":
			errorMessages[field] = fmt.Sprintf("%s wajib diisi.", err.Field())
		case "numeric":
			errorMessages[field] = fmt.Sprintf("%s harus berupa angka.", err.Field())
		case "min":
			errorMessages[field] = fmt.Sprintf("%s minimal %s karakter/nilai.", err.Field(), err.Param())
		case "max":
			errorMessages[field] = fmt.Sprintf("%s maksimal %s karakter/nilai.", err.Field(), err.Param())
		default:
			errorMessages[field] = fmt.Sprintf("Validasi %s gagal pada field %s.", err.Tag(), err.Field())
		}
	}
	return errorMessages
}
