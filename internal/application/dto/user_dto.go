package dto

import (
	"time"

	"github.com/jhoicas/gesafe-api/internal/domain/entity"
)

// PropertyInput propriedade informada en el registro.
type PropertyInput struct {
	Name string `json:"nome" validate:"required,notblank"`
}

// RegisterRequest entrada para registro (auth): nome, email, senha y al menos una propriedade.
type RegisterRequest struct {
	Name       string          `json:"nome" validate:"required,min=3"`
	Email      string          `json:"email" validate:"required,email"`
	Password   string          `json:"senha" validate:"required,min=6"`
	Properties []PropertyInput `json:"propriedades" validate:"required,min=1,dive"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"senha" validate:"required"`
}

// UpdateProfileRequest entrada para PUT /auth/perfil.
type UpdateProfileRequest struct {
	Name  string `json:"nome" validate:"required,notblank"`
	Email string `json:"email" validate:"required,email"`
}

// UserResponse salida de un usuario (sin senha).
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"nome"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"criadoEm"`
}

// UserEnvelope {usuario}.
type UserEnvelope struct {
	User UserResponse `json:"usuario"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"usuario"`
}

// NewUserResponse mapea la entidad.
func NewUserResponse(u *entity.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt}
}
