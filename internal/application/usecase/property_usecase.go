package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/gesafe-api/internal/application/dto"
	"github.com/jhoicas/gesafe-api/internal/domain"
	"github.com/jhoicas/gesafe-api/internal/domain/entity"
	"github.com/jhoicas/gesafe-api/internal/domain/repository"
)

// PropertyUseCase casos de uso de propriedades del usuario.
type PropertyUseCase struct {
	repo repository.PropertyRepository
}

// NewPropertyUseCase construye el caso de uso.
func NewPropertyUseCase(repo repository.PropertyRepository) *PropertyUseCase {
	return &PropertyUseCase{repo: repo}
}

// Create crea una propriedade; el nombre se guarda en mayúsculas.
func (uc *PropertyUseCase) Create(ctx context.Context, userID string, in dto.CreatePropertyRequest) (*dto.PropertyResponse, error) {
	name := entity.NormalizePropertyName(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("nome", "Nome da propriedade é obrigatório")
	}
	now := time.Now()
	p := &entity.Property{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	out := dto.NewPropertyResponse(p)
	return &out, nil
}

// CreateMany crea varias propriedades; valida todos los nombres antes de persistir.
func (uc *PropertyUseCase) CreateMany(ctx context.Context, userID string, in dto.CreatePropertiesRequest) ([]dto.PropertyResponse, error) {
	if len(in.Properties) == 0 {
		return nil, domain.NewValidationError("propriedades", "Informe pelo menos uma propriedade")
	}
	verr := &domain.ValidationError{}
	for _, p := range in.Properties {
		if entity.NormalizePropertyName(p.Name) == "" {
			verr.Add("propriedades", "Nome da propriedade é obrigatório")
			break
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	out := make([]dto.PropertyResponse, 0, len(in.Properties))
	for _, p := range in.Properties {
		created, err := uc.Create(ctx, userID, dto.CreatePropertyRequest{Name: p.Name})
		if err != nil {
			return nil, err
		}
		out = append(out, *created)
	}
	return out, nil
}

// List propriedades del usuario.
func (uc *PropertyUseCase) List(ctx context.Context, userID string) ([]dto.PropertyResponse, error) {
	list, err := uc.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return dto.NewPropertyList(list), nil
}

// GetOwned devuelve la propriedade si pertenece al usuario.
func (uc *PropertyUseCase) GetOwned(ctx context.Context, userID, propertyID string) (*entity.Property, error) {
	p, err := uc.repo.GetByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if p.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return p, nil
}
