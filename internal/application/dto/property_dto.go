package dto

import "github.com/jhoicas/gesafe-api/internal/domain/entity"

// CreatePropertyRequest entrada para POST /auth/propriedade.
type CreatePropertyRequest struct {
	Name string `json:"nome" validate:"required,notblank"`
}

// CreatePropertiesRequest entrada para POST /auth/propriedades.
type CreatePropertiesRequest struct {
	Properties []PropertyInput `json:"propriedades" validate:"required,min=1,dive"`
}

// PropertyResponse salida de una propriedade.
type PropertyResponse struct {
	ID   string `json:"id"`
	Name string `json:"nome"`
}

// PropertyEnvelope {propriedade}.
type PropertyEnvelope struct {
	Property PropertyResponse `json:"propriedade"`
}

// PropertyListResponse {propriedades}.
type PropertyListResponse struct {
	Properties []PropertyResponse `json:"propriedades"`
}

// NewPropertyResponse mapea la entidad.
func NewPropertyResponse(p *entity.Property) PropertyResponse {
	return PropertyResponse{ID: p.ID, Name: p.Name}
}

// NewPropertyList mapea una lista (nunca nil).
func NewPropertyList(list []*entity.Property) []PropertyResponse {
	out := make([]PropertyResponse, 0, len(list))
	for _, p := range list {
		out = append(out, NewPropertyResponse(p))
	}
	return out
}
