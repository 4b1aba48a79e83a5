package dto

import (
	"github.com/go-playground/validator/v10"

	"github.com/sermixer/backoffice-sdk/internal/domain"
	"github.com/sermixer/backoffice-sdk/internal/domain/entity"
)

var validate = validator.New()

// LoginRequest credenciales de inicio de sesión.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Validate valida las credenciales antes de tocar la red.
func (r LoginRequest) Validate() error {
	return toValidationError(validate.Struct(r))
}

// LoginResponse respuesta de /auth/login.
type LoginResponse struct {
	Token string      `json:"token"`
	User  entity.User `json:"user"`
}

// VerifyTokenRequest cuerpo de /auth/verify-token.
type VerifyTokenRequest struct {
	Token string `json:"token"`
}

// VerifyTokenResponse respuesta de /auth/verify-token.
type VerifyTokenResponse struct {
	User entity.User `json:"user"`
}

// SignupRequest datos de registro. ConfirmPassword es solo del cliente:
// se valida localmente y no viaja al servidor.
type SignupRequest struct {
	Username        string `json:"username" validate:"required"`
	FirstName       string `json:"firstName" validate:"required"`
	LastName        string `json:"lastName" validate:"required"`
	CompanyName     string `json:"companyName" validate:"required,oneof=sermixer s2_truck_service"`
	Email           string `json:"email" validate:"required,email"`
	Role            string `json:"role" validate:"omitempty,oneof=admin user"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"-" validate:"eqfield=Password"`
}

// Validate valida el registro, incluida la confirmación de contraseña.
// Devuelve *domain.ValidationError en lugar de bloquear con un alert.
func (r SignupRequest) Validate() error {
	return toValidationError(validate.Struct(r))
}

// SignupResponse respuesta de /auth/signup. El servidor devuelve user, message
// o ambos; el registro exitoso no autentica automáticamente.
type SignupResponse struct {
	User    *entity.User `json:"user,omitempty"`
	Message string       `json:"message,omitempty"`
}

// toValidationError traduce validator.ValidationErrors al error de dominio.
func toValidationError(err error) error {
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	ve := domain.NewValidationError()
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			ve.Add(fe.Field(), "requerido")
		case "email":
			ve.Add(fe.Field(), "email inválido")
		case "min":
			ve.Add(fe.Field(), "demasiado corto (mínimo "+fe.Param()+")")
		case "eqfield":
			ve.Add(fe.Field(), "las contraseñas no coinciden")
		case "oneof":
			ve.Add(fe.Field(), "valor fuera del conjunto permitido")
		default:
			ve.Add(fe.Field(), "inválido")
		}
	}
	return ve
}
