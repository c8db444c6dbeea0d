package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gesafe-api/internal/application/dto"
	"github.com/jhoicas/gesafe-api/internal/application/usecase"
	"github.com/jhoicas/gesafe-api/internal/domain"
	"github.com/jhoicas/gesafe-api/internal/infrastructure/memory"
)

func TestPropertyUseCase(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewPropertyUseCase(store.Properties())
	ctx := context.Background()

	p, err := uc.Create(ctx, "u1", dto.CreatePropertyRequest{Name: " sítio boa vista "})
	require.NoError(t, err)
	assert.Equal(t, "SÍTIO BOA VISTA", p.Name)

	_, err = uc.Create(ctx, "u1", dto.CreatePropertyRequest{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	many, err := uc.CreateMany(ctx, "u1", dto.CreatePropertiesRequest{Properties: []dto.PropertyInput{{Name: "a"}, {Name: "b"}}})
	require.NoError(t, err)
	assert.Len(t, many, 2)

	_, err = uc.CreateMany(ctx, "u1", dto.CreatePropertiesRequest{Properties: []dto.PropertyInput{{Name: "c"}, {Name: ""}}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := uc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 3, "una lista inválida no crea nada")
	assert.Equal(t, []string{"SÍTIO BOA VISTA", "A", "B"}, []string{list[0].Name, list[1].Name, list[2].Name})

	_, err = uc.GetOwned(ctx, "u2", p.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.GetOwned(ctx, "u1", "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
