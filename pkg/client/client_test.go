package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gesafe-api/internal/application/dto"
	"github.com/jhoicas/gesafe-api/pkg/client"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestLogin_YWithToken(t *testing.T) {
	var gotAuth []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = append(gotAuth, r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/auth/login":
			var in dto.LoginRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			assert.Equal(t, "ana@fazenda.com", in.Email)
			writeJSON(w, http.StatusOK, dto.LoginResponse{Token: "tok-1", User: dto.UserResponse{ID: "u1", Name: "Ana"}})
		default:
			writeJSON(w, http.StatusOK, dto.PropertyListResponse{Properties: []dto.PropertyResponse{{ID: "p1", Name: "FAZENDA"}}})
		}
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	out, err := c.Login(context.Background(), "ana@fazenda.com", "segredo1")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", out.Token)

	authed := c.WithToken(out.Token)
	_, err = authed.Properties(context.Background())
	require.NoError(t, err)
	_, err = c.Properties(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"", "Bearer tok-1", ""}, gotAuth)
	assert.Equal(t, "", c.Token())
}

func TestLogin_SinToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"usuario": map[string]string{"id": "u1"}})
	}))
	defer srv.Close()

	_, err := client.New(srv.URL).Login(context.Background(), "a@b.com", "x")
	assert.ErrorIs(t, err, client.ErrValidation)
	var cerr *client.Error
	require.True(t, errors.As(err, &cerr))
	assert.NotEmpty(t, cerr.FieldMessage("token"))
}

func TestErrores_Mapeo(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    any
		target  error
		kind    client.Kind
		message string
	}{
		{
			name:   "validacion itemizada",
			status: http.StatusBadRequest,
			body: dto.ValidationErrorResponse{Errors: []dto.FieldErrorResponse{
				{Field: "nome", Message: "Nome é obrigatório"},
				{Field: "quantidade", Message: "Quantidade deve ser um número válido maior que 0"},
			}},
			target:  client.ErrValidation,
			kind:    client.KindValidation,
			message: "Nome é obrigatório\nQuantidade deve ser um número válido maior que 0",
		},
		{
			name:    "validacion mensaje unico",
			status:  http.StatusBadRequest,
			body:    dto.ErrorResponse{Error: "Corpo da requisição inválido", Code: "INVALID_BODY"},
			target:  client.ErrValidation,
			kind:    client.KindValidation,
			message: "Corpo da requisição inválido",
		},
		{
			name:    "estoque insuficiente",
			status:  http.StatusConflict,
			body:    dto.ErrorResponse{Error: "Quantidade maior que o estoque disponível", Code: "INSUFFICIENT_STOCK"},
			target:  client.ErrInsufficientStock,
			kind:    client.KindInsufficientStock,
			message: "Quantidade maior que o estoque disponível",
		},
		{
			name:    "no encontrado",
			status:  http.StatusNotFound,
			body:    dto.ErrorResponse{Error: "Recurso não encontrado", Code: "NOT_FOUND"},
			target:  client.ErrNotFound,
			kind:    client.KindNotFound,
			message: "Recurso não encontrado",
		},
		{
			name:    "sesion expirada",
			status:  http.StatusUnauthorized,
			body:    dto.ErrorResponse{Error: "Sessão expirada, faça login novamente", Code: "TOKEN_EXPIRED"},
			target:  client.ErrAuthExpired,
			kind:    client.KindAuthExpired,
			message: "Sessão expirada, faça login novamente",
		},
		{
			name:    "conflicto generico",
			status:  http.StatusConflict,
			body:    dto.ErrorResponse{Error: "Produto desativado", Code: "PRODUCT_INACTIVE"},
			kind:    client.KindUnknown,
			message: "Produto desativado",
		},
		{
			name:    "500 sin cuerpo",
			status:  http.StatusInternalServerError,
			kind:    client.KindUnknown,
			message: "Erro inesperado. Tente novamente.",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tc.body == nil {
					w.WriteHeader(tc.status)
					return
				}
				writeJSON(w, tc.status, tc.body)
			}))
			defer srv.Close()

			_, err := client.New(srv.URL).WithToken("t").Withdraw(context.Background(), dto.WithdrawRequest{ProductID: "l1", PropertyID: "p1", Quantity: 1})
			require.Error(t, err)
			var cerr *client.Error
			require.True(t, errors.As(err, &cerr))
			assert.Equal(t, tc.kind, cerr.Kind)
			assert.Equal(t, tc.status, cerr.Status)
			assert.Equal(t, tc.message, cerr.Error())
			if tc.target != nil {
				assert.ErrorIs(t, err, tc.target)
			}
			assert.NotErrorIs(t, err, client.ErrNetwork)
		})
	}
}

func TestErrorDeRed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := client.New(url).Alerts(context.Background())
	assert.ErrorIs(t, err, client.ErrNetwork)
}

func TestProducts_LoteSinID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/produto/p1", r.URL.Path)
		writeJSON(w, http.StatusOK, dto.ProductListResponse{Products: []dto.ProductResponse{{Name: "Ureia"}}})
	}))
	defer srv.Close()

	_, err := client.New(srv.URL).Products(context.Background(), "p1")
	assert.ErrorIs(t, err, client.ErrValidation)
}

func TestReportFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/produto/relatorio-vencimentos", r.URL.Path)
		assert.Equal(t, "pdf", r.URL.Query().Get("formato"))
		assert.Equal(t, "VENCIDO", r.URL.Query().Get("status"))
		assert.False(t, r.URL.Query().Has("embalagem"))
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="relatorio_vencimentos_20260101.pdf"`)
		_, _ = w.Write([]byte("%PDF-1.4"))
	}))
	defer srv.Close()

	f, err := client.New(srv.URL).ReportFile(context.Background(), client.ReportExpirations, client.ReportFilter{Status: "VENCIDO"}, "pdf")
	require.NoError(t, err)
	assert.Equal(t, "relatorio_vencimentos_20260101.pdf", f.Name)
	assert.Equal(t, "application/pdf", f.ContentType)
	assert.Equal(t, []byte("%PDF-1.4"), f.Data)
}

func TestApplyLocalWithdrawal(t *testing.T) {
	list := []dto.ProductResponse{{ProductID: "a", Quantity: 3}, {ProductID: "b", Quantity: 1}}
	out := client.ApplyLocalWithdrawal(list, "b", 2)
	assert.Equal(t, int64(0), out[1].Quantity)
	assert.Equal(t, int64(3), out[0].Quantity)
	assert.Equal(t, int64(1), list[1].Quantity, "la lista original no cambia")
}
