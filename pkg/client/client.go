// Package client cliente tipado de la API gesafe: autenticación, propriedades,
// produtos, alertas y relatórios.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/gesafe-api/internal/application/dto"
)

// DefaultTimeout timeout por petición.
const DefaultTimeout = 5 * time.Second

const maxBody = 20 << 20

var boundary = validator.New()

// Client valor inmutable: WithToken devuelve una copia, nunca modifica headers compartidos.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// Option configura el cliente.
type Option func(*Client)

// WithHTTPClient reemplaza el *http.Client (tests, transportes propios).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout cambia el timeout por defecto.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient = &http.Client{Timeout: d} }
}

// New construye el cliente para baseURL (ej. "http://localhost:8080").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// WithToken copia del cliente autenticada con token.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// Token bearer actual ("" sin sesión).
func (c *Client) Token() string { return c.token }

// ── Auth ─────────────────────────────────────────────────────────────────────

// Register crea la cuenta con sus propriedades iniciales.
func (c *Client) Register(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	var out dto.UserEnvelope
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, in, &out); err != nil {
		return nil, err
	}
	if err := require("usuario.id", out.User.ID); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// Login devuelve token y usuario. Un token vacío en la respuesta es un error de validación.
func (c *Client) Login(ctx context.Context, email, password string) (*dto.LoginResponse, error) {
	var out dto.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, dto.LoginRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	if err := require("token", out.Token); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Profile(ctx context.Context) (*dto.UserResponse, error) {
	var out dto.UserEnvelope
	if err := c.do(ctx, http.MethodGet, "/auth/perfil", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) UpdateProfile(ctx context.Context, in dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	var out dto.UserEnvelope
	if err := c.do(ctx, http.MethodPut, "/auth/perfil", nil, in, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// ── Propriedades ─────────────────────────────────────────────────────────────

func (c *Client) Properties(ctx context.Context) ([]dto.PropertyResponse, error) {
	var out dto.PropertyListResponse
	if err := c.do(ctx, http.MethodGet, "/auth/propriedades", nil, nil, &out); err != nil {
		return nil, err
	}
	for _, p := range out.Properties {
		if err := require("propriedades.id", p.ID); err != nil {
			return nil, err
		}
	}
	return out.Properties, nil
}

func (c *Client) CreateProperty(ctx context.Context, name string) (*dto.PropertyResponse, error) {
	var out dto.PropertyEnvelope
	if err := c.do(ctx, http.MethodPost, "/auth/propriedade", nil, dto.CreatePropertyRequest{Name: name}, &out); err != nil {
		return nil, err
	}
	return &out.Property, nil
}

func (c *Client) CreateProperties(ctx context.Context, names ...string) ([]dto.PropertyResponse, error) {
	in := dto.CreatePropertiesRequest{Properties: make([]dto.PropertyInput, 0, len(names))}
	for _, n := range names {
		in.Properties = append(in.Properties, dto.PropertyInput{Name: n})
	}
	var out dto.PropertyListResponse
	if err := c.do(ctx, http.MethodPost, "/auth/propriedades", nil, in, &out); err != nil {
		return nil, err
	}
	return out.Properties, nil
}

// ── Produtos ─────────────────────────────────────────────────────────────────

func (c *Client) Packagings(ctx context.Context) ([]dto.PackagingOption, error) {
	var out dto.PackagingListResponse
	if err := c.do(ctx, http.MethodGet, "/produto/embalagens", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Packagings, nil
}

// RegisterProduct registra una ENTRADA y devuelve el lote resultante.
func (c *Client) RegisterProduct(ctx context.Context, in dto.RegisterProductRequest) (*dto.ProductResponse, error) {
	var out dto.ProductEnvelope
	if err := c.do(ctx, http.MethodPost, "/produto/cadastrar", nil, in, &out); err != nil {
		return nil, err
	}
	if err := require("produto.idProduto", out.Product.ProductID); err != nil {
		return nil, err
	}
	return &out.Product, nil
}

// Products lotes activos de la propriedade.
func (c *Client) Products(ctx context.Context, propertyID string) ([]dto.ProductResponse, error) {
	var out dto.ProductListResponse
	if err := c.do(ctx, http.MethodGet, "/produto/"+url.PathEscape(propertyID), nil, nil, &out); err != nil {
		return nil, err
	}
	for _, p := range out.Products {
		if err := require("produtos.idProduto", p.ProductID); err != nil {
			return nil, err
		}
	}
	return out.Products, nil
}

func (c *Client) UpdateProduct(ctx context.Context, propertyID, productID string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	path := "/produto/" + url.PathEscape(propertyID) + "/" + url.PathEscape(productID)
	var out dto.ProductEnvelope
	if err := c.do(ctx, http.MethodPut, path, nil, in, &out); err != nil {
		return nil, err
	}
	return &out.Product, nil
}

// Withdraw registra una SAIDA. Con estoque insuficiente devuelve ErrInsufficientStock.
func (c *Client) Withdraw(ctx context.Context, in dto.WithdrawRequest) (*dto.MovementResponse, error) {
	var out dto.MovementEnvelope
	if err := c.do(ctx, http.MethodPost, "/produto/saida", nil, in, &out); err != nil {
		return nil, err
	}
	if err := require("movimentacao.id", out.Movement.ID); err != nil {
		return nil, err
	}
	return &out.Movement, nil
}

// Deactivate desactiva el lote de la movimentação indicada.
func (c *Client) Deactivate(ctx context.Context, movementID, propertyID, justification string) (*dto.MovementResponse, error) {
	path := "/produto/movimentacao/" + url.PathEscape(movementID) + "/" + url.PathEscape(propertyID)
	var out dto.MovementEnvelope
	if err := c.do(ctx, http.MethodPatch, path, nil, dto.DeactivateRequest{Justification: justification}, &out); err != nil {
		return nil, err
	}
	return &out.Movement, nil
}

func (c *Client) History(ctx context.Context, productID string) (*dto.HistoryResponse, error) {
	var out dto.HistoryResponse
	if err := c.do(ctx, http.MethodGet, "/produto/historico/"+url.PathEscape(productID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Alerts lotes vencidos o próximos del vencimiento.
func (c *Client) Alerts(ctx context.Context) (*dto.AlertsResponse, error) {
	var out dto.AlertsResponse
	if err := c.do(ctx, http.MethodGet, "/produto/alertas-vencimento", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ── Relatórios ───────────────────────────────────────────────────────────────

// ReportKind ruta del relatório.
type ReportKind string

const (
	ReportStock       ReportKind = "relatorio-geral"
	ReportMovements   ReportKind = "relatorio-movimentacoes"
	ReportExpirations ReportKind = "relatorio-vencimentos"
)

// ReportFilter filtros opcionales; vacío equivale a TODOS.
type ReportFilter struct {
	PropertyID string
	Packaging  string
	Kind       string // solo movimentações
	Status     string // solo vencimentos
}

func (f ReportFilter) values() url.Values {
	v := url.Values{}
	set := func(k, s string) {
		if s != "" {
			v.Set(k, s)
		}
	}
	set("propriedadeId", f.PropertyID)
	set("embalagem", f.Packaging)
	set("tipo", f.Kind)
	set("status", f.Status)
	return v
}

// Report relatório en JSON.
func (c *Client) Report(ctx context.Context, kind ReportKind, f ReportFilter) (*dto.ReportResponse, error) {
	var out dto.ReportResponse
	if err := c.do(ctx, http.MethodGet, "/produto/"+string(kind), f.values(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// File relatório descargado.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// ReportFile descarga el relatório como pdf o xlsx.
func (c *Client) ReportFile(ctx context.Context, kind ReportKind, f ReportFilter, format string) (*File, error) {
	q := f.values()
	q.Set("formato", format)
	resp, data, err := c.send(ctx, http.MethodGet, "/produto/"+string(kind), q, nil)
	if err != nil {
		return nil, err
	}
	out := &File{ContentType: resp.Header.Get("Content-Type"), Data: data}
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		out.Name = params["filename"]
	}
	if out.Name == "" {
		out.Name = string(kind) + "." + format
	}
	return out, nil
}

// ── Transporte ───────────────────────────────────────────────────────────────

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	_, data, err := c.send(ctx, method, path, query, in)
	if err != nil {
		return err
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Kind: KindUnknown, Message: msgGeneric, Err: fmt.Errorf("decodificar respuesta: %w", err)}
	}
	return nil
}

// send ejecuta la petición y devuelve el cuerpo de una respuesta 2xx o un *Error.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, in any) (*http.Response, []byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, nil, fmt.Errorf("client: serializar request: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, nil, fmt.Errorf("client: crear request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, networkError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, nil, networkError(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil, decodeError(resp.StatusCode, data)
	}
	return resp, data, nil
}

// require valida en el borde que la respuesta traiga el campo obligatorio.
func require(field, value string) error {
	if err := boundary.Var(value, "required"); err != nil {
		return invalidResponse(field)
	}
	return nil
}
