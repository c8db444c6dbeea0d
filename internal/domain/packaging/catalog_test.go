package packaging_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gesafe-api/internal/domain/packaging"
)

func TestAll_OrdenCanonico(t *testing.T) {
	all := packaging.All()
	require.Len(t, all, 16)
	assert.Equal(t, packaging.Sacaria, all[0])
	assert.Equal(t, packaging.Outros, all[15])

	seen := map[packaging.Kind]bool{}
	for _, k := range all {
		assert.False(t, seen[k], "token repetido: %s", k)
		seen[k] = true
	}
}

func TestAll_DevuelveCopia(t *testing.T) {
	all := packaging.All()
	all[0] = "X"
	assert.Equal(t, packaging.Sacaria, packaging.All()[0])
}

func TestIsValid(t *testing.T) {
	cases := []struct {
		token string
		want  bool
	}{
		{"SACARIA", true},
		{"GALAO_5L", true},
		{"PACOTE_500G", true},
		{"OUTROS", true},
		{"galao_5l", false},
		{"GALAO 5L", false},
		{"", false},
		{"CAIXA", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, packaging.IsValid(tc.token), tc.token)
	}
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "TAMBOR 200L", packaging.Tambor200L.Label())
	assert.Equal(t, "SACARIA", packaging.Sacaria.Label())
}
