package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims incluye los claims estándar JWT más los campos propios del backend.
// El SDK nunca conoce el secret del servidor: la inspección es sin verificar
// firma y sirve solo para mostrar información de la sesión localmente.
// La validez real del token la decide siempre el endpoint verify-token.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"` // "admin" | "user"
}

// Inspect decodifica el token sin validar la firma y devuelve sus claims.
// Retorna error si el token está malformado.
func Inspect(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("token: cadena vacía")
	}
	parser := jwt.NewParser()
	claims := &Claims{}
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// Expired indica si el claim exp ya pasó. Un token sin exp se considera vigente.
func (c *Claims) Expired() bool {
	if c.ExpiresAt == nil {
		return false
	}
	return time.Now().After(c.ExpiresAt.Time)
}
