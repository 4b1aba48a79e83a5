package apitest

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/sermixer/backoffice-sdk/internal/application/dto"
	"github.com/sermixer/backoffice-sdk/internal/domain/entity"
)

// claims espejo de los claims que emite el backend real.
type claims struct {
	jwt.RegisteredClaims
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// IssueToken genera un JWT HS256 para el usuario, como lo haría el backend.
func (s *Server) IssueToken(u entity.User) (string, error) {
	now := time.Now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", u.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		UserID: u.ID,
		Email:  u.Email,
		Role:   u.Role,
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return tok.SignedString([]byte(s.secret))
}

// parseToken valida el token y devuelve sus claims.
func (s *Server) parseToken(tokenString string) (*claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return nil, err
	}
	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	return c, nil
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.users {
		if rec.Email == in.Email && rec.password == in.Password {
			token, err := s.IssueToken(rec.User)
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
			}
			return c.JSON(dto.LoginResponse{Token: token, User: sanitize(rec.User)})
		}
	}
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "BAD_CREDENTIALS", Message: "credenciales inválidas"})
}

func (s *Server) handleVerifyToken(c *fiber.Ctx) error {
	var in dto.VerifyTokenRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	parsed, err := s.parseToken(in.Token)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.users {
		if rec.ID == parsed.UserID {
			return c.JSON(dto.VerifyTokenResponse{User: sanitize(rec.User)})
		}
	}
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "USER_NOT_FOUND", Message: "usuario no encontrado"})
}

func (s *Server) handleSignup(c *fiber.Ctx) error {
	var in entity.User
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.users {
		if rec.Email == in.Email {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el email ya está registrado"})
		}
	}
	password := in.Password
	if in.Role == "" {
		in.Role = entity.RoleUser
	}
	s.assignServerFields(&in.ID, &in.CreatedAt, &in.UpdatedAt)
	s.users = append(s.users, userRecord{User: in, password: password})
	created := sanitize(in)
	return c.Status(fiber.StatusCreated).JSON(dto.SignupResponse{User: &created, Message: "usuario registrado"})
}

// sanitize quita la contraseña antes de responder, como el backend real.
func sanitize(u entity.User) entity.User {
	u.Password = ""
	return u
}
