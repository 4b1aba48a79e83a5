package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrNoSession    = errors.New("sesión no iniciada")
)

// ValidationError error de validación local (antes de tocar la red).
// Field -> mensaje; se acumulan todos los campos inválidos.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError construye un ValidationError vacío listo para acumular campos.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

// Add registra el mensaje de un campo inválido.
func (e *ValidationError) Add(field, message string) {
	e.Fields[field] = message
}

// Empty indica si no se acumuló ningún campo.
func (e *ValidationError) Empty() bool { return len(e.Fields) == 0 }

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validación fallida"
	}
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return "validación fallida: " + strings.Join(parts, "; ")
}

// IsValidation indica si err (o su cadena) es un error de validación local.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
