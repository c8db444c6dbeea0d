package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/gesafe-api/internal/application/dto"
	"github.com/jhoicas/gesafe-api/internal/domain"
	"github.com/jhoicas/gesafe-api/internal/domain/entity"
	"github.com/jhoicas/gesafe-api/internal/domain/repository"
	"github.com/jhoicas/gesafe-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro, login y perfil.
type AuthUseCase struct {
	userRepo     repository.UserRepository
	propertyRepo repository.PropertyRepository
	jwtCfg       JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, propertyRepo repository.PropertyRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, propertyRepo: propertyRepo, jwtCfg: jwtCfg}
}

// RegisterUser crea un usuario con sus propriedades iniciales: hashea la senha con bcrypt y persiste.
// Devuelve ErrEmailAlreadyExists si el e-mail ya está registrado.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	names := make([]string, 0, len(in.Properties))
	for _, p := range in.Properties {
		name := entity.NormalizePropertyName(p.Name)
		if name == "" {
			return nil, domain.NewValidationError("propriedades", "Informe pelo menos uma propriedade")
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil, domain.NewValidationError("propriedades", "Informe pelo menos uma propriedade")
	}

	email := normalizeEmail(in.Email)
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	for _, name := range names {
		p := &entity.Property{ID: uuid.New().String(), UserID: user.ID, Name: name, CreatedAt: now, UpdatedAt: now}
		if err := uc.propertyRepo.Create(ctx, p); err != nil {
			return nil, err
		}
	}
	out := dto.NewUserResponse(user)
	return &out, nil
}

// Login verifica email/senha, genera JWT y retorna token + usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  dto.NewUserResponse(user),
	}, nil
}

// GetProfile devuelve el usuario autenticado.
func (uc *AuthUseCase) GetProfile(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	out := dto.NewUserResponse(user)
	return &out, nil
}

// UpdateProfile actualiza nome y e-mail. El e-mail sigue siendo único.
func (uc *AuthUseCase) UpdateProfile(ctx context.Context, userID string, in dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	email := normalizeEmail(in.Email)
	if !strings.EqualFold(email, user.Email) {
		other, err := uc.userRepo.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != user.ID {
			return nil, domain.ErrEmailAlreadyExists
		}
	}
	user.Name = strings.TrimSpace(in.Name)
	user.Email = email
	user.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	out := dto.NewUserResponse(user)
	return &out, nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
