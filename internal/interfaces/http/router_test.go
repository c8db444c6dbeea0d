package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gesafe-api/internal/application/auth"
	"github.com/jhoicas/gesafe-api/internal/application/dto"
	"github.com/jhoicas/gesafe-api/internal/application/inventory"
	appreport "github.com/jhoicas/gesafe-api/internal/application/report"
	"github.com/jhoicas/gesafe-api/internal/application/usecase"
	"github.com/jhoicas/gesafe-api/internal/infrastructure/memory"
	"github.com/jhoicas/gesafe-api/internal/infrastructure/pdf"
	"github.com/jhoicas/gesafe-api/internal/infrastructure/xlsx"
	apphttp "github.com/jhoicas/gesafe-api/internal/interfaces/http"
)

// newTestServer arma la API completa sobre el store en memoria.
func newTestServer(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	ledger := inventory.NewLedgerUseCase(store, inventory.NewLocalLocker(), store.Properties(), store.Lots(), store.Movements())
	renderers := map[string]appreport.Renderer{
		"pdf":  pdf.NewReportRenderer("gesafe-test"),
		"xlsx": xlsx.NewReportRenderer(),
	}

	app := apphttp.NewApp("gesafe-test", zerolog.Nop())
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC: auth.NewAuthUseCase(store.Users(), store.Properties(), auth.JWTConfig{
			Secret: testJWTSecret, ExpMinutes: 60, Issuer: testIssuer,
		}),
		PropertyUC: usecase.NewPropertyUseCase(store.Properties()),
		Ledger:     ledger,
		Alerts:     inventory.NewExpiryAlertUseCase(store.Lots(), 30),
		Reports:    appreport.NewReportUseCase(store.Properties(), store.Lots(), store.Movements(), renderers),
		JWTSecret:  testJWTSecret,
		Log:        zerolog.Nop(),
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// signUp registra un usuario con una propriedade y devuelve token y propertyId.
func signUp(t *testing.T, app *fiber.App, email string) (token, propertyID string) {
	t.Helper()
	resp := call(t, app, http.MethodPost, "/auth/register", "", map[string]any{
		"nome": "Ana Souza", "email": email, "senha": "segredo1",
		"propriedades": []map[string]string{{"nome": "Fazenda Boa Vista"}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodPost, "/auth/login", "", map[string]string{"email": email, "senha": "segredo1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	login := decode[dto.LoginResponse](t, resp)
	require.NotEmpty(t, login.Token)

	resp = call(t, app, http.MethodGet, "/auth/propriedades", login.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	props := decode[dto.PropertyListResponse](t, resp)
	require.Len(t, props.Properties, 1)
	assert.Equal(t, "FAZENDA BOA VISTA", props.Properties[0].Name)
	return login.Token, props.Properties[0].ID
}

func cadastrar(t *testing.T, app *fiber.App, token, propertyID string, qty int64) dto.ProductResponse {
	t.Helper()
	resp := call(t, app, http.MethodPost, "/produto/cadastrar", token, map[string]any{
		"nome": "Glifosato", "quantidade": qty, "validade": "12/2099",
		"embalagem": "GALAO_5L", "propriedadeId": propertyID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[dto.ProductEnvelope](t, resp).Product
}

func TestHealth(t *testing.T) {
	app := newTestServer(t)
	resp := call(t, app, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", decode[dto.HealthResponse](t, resp).Status)
}

func TestRegister_ErroresDeValidacion(t *testing.T) {
	app := newTestServer(t)
	resp := call(t, app, http.MethodPost, "/auth/register", "", map[string]any{
		"nome": "Al", "email": "no-es-email", "senha": "123",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ValidationErrorResponse](t, resp)

	fields := map[string]string{}
	for _, e := range body.Errors {
		fields[e.Field] = e.Message
	}
	assert.Equal(t, "Nome deve ter pelo menos 3 caracteres", fields["nome"])
	assert.Equal(t, "E-mail inválido", fields["email"])
	assert.Equal(t, "Senha deve ter no mínimo 6 caracteres", fields["senha"])
	assert.Equal(t, "Informe pelo menos uma propriedade", fields["propriedades"])
}

func TestRegister_EmailDuplicado(t *testing.T) {
	app := newTestServer(t)
	signUp(t, app, "ana@fazenda.com")

	resp := call(t, app, http.MethodPost, "/auth/register", "", map[string]any{
		"nome": "Outra Ana", "email": "ANA@fazenda.com", "senha": "segredo1",
		"propriedades": []map[string]string{{"nome": "Sitio"}},
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, apphttp.CodeEmailExists, decode[dto.ErrorResponse](t, resp).Code)
}

func TestLogin_SenhaIncorreta(t *testing.T) {
	app := newTestServer(t)
	signUp(t, app, "ana@fazenda.com")

	resp := call(t, app, http.MethodPost, "/auth/login", "", map[string]string{"email": "ana@fazenda.com", "senha": "errada1"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "E-mail ou senha inválidos", decode[dto.ErrorResponse](t, resp).Error)
}

func TestProduto_RequiereToken(t *testing.T) {
	app := newTestServer(t)
	resp := call(t, app, http.MethodGet, "/produto/embalagens", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProduto_FlujoEntradaSaidaDesativacao(t *testing.T) {
	app := newTestServer(t)
	token, propID := signUp(t, app, "ana@fazenda.com")

	first := cadastrar(t, app, token, propID, 10)
	assert.Equal(t, "31/12/2099", first.Expiry)
	second := cadastrar(t, app, token, propID, 5)
	assert.Equal(t, first.ProductID, second.ProductID, "la misma clave suma al lote activo")
	assert.Equal(t, int64(15), second.Quantity)

	resp := call(t, app, http.MethodGet, "/produto/"+propID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[dto.ProductListResponse](t, resp)
	require.Len(t, list.Products, 1)
	assert.Equal(t, int64(15), list.Products[0].Quantity)

	// Saída mayor que el estoque.
	resp = call(t, app, http.MethodPost, "/produto/saida", token, map[string]any{
		"produtoId": first.ProductID, "propriedadeId": propID, "quantidade": 16,
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, apphttp.CodeInsufficientStock, decode[dto.ErrorResponse](t, resp).Code)

	resp = call(t, app, http.MethodPost, "/produto/saida", token, map[string]any{
		"produtoId": first.ProductID, "propriedadeId": propID, "quantidade": 4,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	saida := decode[dto.MovementEnvelope](t, resp)
	assert.Equal(t, "SAIDA", saida.Movement.Kind)

	// Justificativa corta.
	path := fmt.Sprintf("/produto/movimentacao/%s/%s", saida.Movement.ID, propID)
	resp = call(t, app, http.MethodPatch, path, token, map[string]string{"justificativa": "curta"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	verr := decode[dto.ValidationErrorResponse](t, resp)
	require.Len(t, verr.Errors, 1)
	assert.Equal(t, "justificativa", verr.Errors[0].Field)

	resp = call(t, app, http.MethodPatch, path, token, map[string]string{"justificativa": "Produto danificado na chuva"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "DESATIVACAO", decode[dto.MovementEnvelope](t, resp).Movement.Kind)

	// Lote desativado: fuera de la lista y sin nuevas saídas.
	resp = call(t, app, http.MethodGet, "/produto/"+propID, token, nil)
	assert.Empty(t, decode[dto.ProductListResponse](t, resp).Products)

	resp = call(t, app, http.MethodPost, "/produto/saida", token, map[string]any{
		"produtoId": first.ProductID, "propriedadeId": propID, "quantidade": 1,
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, apphttp.CodeLotInactive, decode[dto.ErrorResponse](t, resp).Code)

	resp = call(t, app, http.MethodGet, "/produto/historico/"+first.ProductID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	hist := decode[dto.HistoryResponse](t, resp)
	assert.Equal(t, int64(11), hist.Quantity)
	require.Len(t, hist.Movements, 4)
	assert.Equal(t, "ENTRADA", hist.Movements[0].Kind)
	assert.Equal(t, "DESATIVACAO", hist.Movements[3].Kind)
}

func TestProduto_CadastroInvalido(t *testing.T) {
	app := newTestServer(t)
	token, propID := signUp(t, app, "ana@fazenda.com")

	resp := call(t, app, http.MethodPost, "/produto/cadastrar", token, map[string]any{
		"nome": "", "quantidade": 0, "validade": "31/02/2099",
		"embalagem": "CAIXA", "propriedadeId": propID,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ValidationErrorResponse](t, resp)
	fields := map[string]bool{}
	for _, e := range body.Errors {
		fields[e.Field] = true
	}
	for _, f := range []string{"nome", "quantidade", "validade", "embalagem"} {
		assert.True(t, fields[f], "falta error para %s", f)
	}
}

func TestProduto_ValorUnitarioFueraDeRango(t *testing.T) {
	app := newTestServer(t)
	token, propID := signUp(t, app, "ana@fazenda.com")

	for _, v := range []string{"1000000000000", "10.005"} {
		resp := call(t, app, http.MethodPost, "/produto/cadastrar", token, map[string]any{
			"nome": "Glifosato", "quantidade": 1, "validade": "12/2099",
			"embalagem": "GALAO_5L", "propriedadeId": propID, "valorUnitario": v,
		})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode, v)
		body := decode[dto.ValidationErrorResponse](t, resp)
		require.Len(t, body.Errors, 1)
		assert.Equal(t, "valorUnitario", body.Errors[0].Field)
	}
}

func TestProduto_PropriedadeDeOtroUsuario(t *testing.T) {
	app := newTestServer(t)
	tokenA, propA := signUp(t, app, "ana@fazenda.com")
	tokenB, _ := signUp(t, app, "bruno@fazenda.com")
	lot := cadastrar(t, app, tokenA, propA, 3)

	resp := call(t, app, http.MethodGet, "/produto/"+propA, tokenB, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodGet, "/produto/historico/"+lot.ProductID, tokenB, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestProduto_EmbalagensYNormalizar(t *testing.T) {
	app := newTestServer(t)
	token, _ := signUp(t, app, "ana@fazenda.com")

	resp := call(t, app, http.MethodGet, "/produto/embalagens", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, decode[dto.PackagingListResponse](t, resp).Packagings)

	resp = call(t, app, http.MethodPost, "/produto/validade/normalizar", token, map[string]string{"valor": "122099", "anterior": "12209"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "31/12/2099", decode[dto.NormalizeExpiryResponse](t, resp).Value)
}

func TestAlertasVencimento(t *testing.T) {
	app := newTestServer(t)
	token, propID := signUp(t, app, "ana@fazenda.com")
	cadastrar(t, app, token, propID, 2)

	resp := call(t, app, http.MethodGet, "/produto/alertas-vencimento", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	alerts := decode[dto.AlertsResponse](t, resp)
	assert.Empty(t, alerts.Products)
	assert.Equal(t, 0, alerts.Summary.Total)
}

func TestRelatorios(t *testing.T) {
	app := newTestServer(t)
	token, propID := signUp(t, app, "ana@fazenda.com")
	cadastrar(t, app, token, propID, 7)

	resp := call(t, app, http.MethodGet, "/produto/relatorio-geral", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rep := decode[dto.ReportResponse](t, resp)
	require.Len(t, rep.Report, 1)
	assert.Equal(t, "FAZENDA BOA VISTA", rep.Report[0].Property)
	require.Len(t, rep.Report[0].Items, 1)
	assert.Equal(t, int64(7), rep.Report[0].Items[0].Quantity)

	resp = call(t, app, http.MethodGet, "/produto/relatorio-movimentacoes?tipo=ENTRADA&formato=pdf", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))

	resp = call(t, app, http.MethodGet, "/produto/relatorio-vencimentos?formato=XLSX", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasSuffix(strings.TrimSuffix(resp.Header.Get("Content-Disposition"), `"`), ".xlsx"))
	resp.Body.Close()

	resp = call(t, app, http.MethodGet, "/produto/relatorio-geral?formato=docx", token, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "formato", decode[dto.ValidationErrorResponse](t, resp).Errors[0].Field)

	resp = call(t, app, http.MethodGet, "/produto/relatorio-movimentacoes?tipo=TRANSFERENCIA", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestRutaInexistente(t *testing.T) {
	app := newTestServer(t)
	resp := call(t, app, http.MethodGet, "/nada", "", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, apphttp.CodeNotFound, decode[dto.ErrorResponse](t, resp).Code)
}
