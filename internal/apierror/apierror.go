// Package apierror holds the JSON bodies of every 4xx/5xx response. Internal
// details (SQL errors, stack traces) never reach this package.
package apierror

import "fmt"

// APIError is the envelope for all error responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError lists one message per rejected field, keyed by the JSON
// name of the field.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}

// Mensaje renders a validator tag and its parameter as a user message.
func Mensaje(tag, param string) string {
	switch tag {
	case "required":
		return "es requerido"
	case "min", "gte":
		return fmt.Sprintf("debe ser mayor o igual a %s", param)
	case "max", "lte":
		return fmt.Sprintf("debe ser menor o igual a %s", param)
	case "gt":
		return fmt.Sprintf("debe ser mayor a %s", param)
	case "oneof":
		return fmt.Sprintf("debe ser uno de: %s", param)
	case "email":
		return "no es un correo valido"
	case "datetime":
		return fmt.Sprintf("debe tener el formato %s", param)
	case "dias_atencion":
		return "debe ser una lista de dias L,M,X,J,V,S,D"
	default:
		return "no es valido (" + tag + ")"
	}
}
