package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gesafe-api/internal/domain/entity"
	"github.com/jhoicas/gesafe-api/internal/domain/expiry"
	"github.com/jhoicas/gesafe-api/internal/domain/packaging"
)

// RegisterProductRequest body para POST /produto/cadastrar (ENTRADA).
// Las reglas de cada campo se validan en el ledger para informar todos los errores juntos.
type RegisterProductRequest struct {
	Name       string           `json:"nome"`
	Quantity   int64            `json:"quantidade"`
	Expiry     string           `json:"validade" example:"31/12/2026"`
	Packaging  string           `json:"embalagem" example:"GALAO_5L"`
	PropertyID string           `json:"propriedadeId"`
	UnitValue  *decimal.Decimal `json:"valorUnitario,omitempty" swaggertype:"string"`
}

// UpdateProductRequest body para PUT /produto/{propertyId}/{productId}.
type UpdateProductRequest struct {
	Name      string `json:"nome"`
	Expiry    string `json:"validade"`
	Packaging string `json:"embalagem"`
}

// WithdrawRequest body para POST /produto/saida.
type WithdrawRequest struct {
	ProductID  string `json:"produtoId"`
	PropertyID string `json:"propriedadeId"`
	Quantity   int64  `json:"quantidade"`
}

// DeactivateRequest body para PATCH /produto/movimentacao/{movementId}/{propertyId}.
type DeactivateRequest struct {
	Justification string `json:"justificativa"`
}

// ProductResponse un lote tal como lo lista la API.
type ProductResponse struct {
	StockEntryID string           `json:"idEstoque"`
	ProductID    string           `json:"idProduto"`
	Name         string           `json:"nome"`
	Expiry       string           `json:"validade"`
	Quantity     int64            `json:"quantidade"`
	Packaging    string           `json:"embalagem"`
	PropertyID   string           `json:"propriedadeId"`
	Property     string           `json:"propriedade,omitempty"`
	UnitValue    *decimal.Decimal `json:"valorUnitario,omitempty" swaggertype:"string"`
	Active       bool             `json:"ativo"`
}

// ProductListResponse {produtos}.
type ProductListResponse struct {
	Products []ProductResponse `json:"produtos"`
}

// ProductEnvelope {message, produto}.
type ProductEnvelope struct {
	Message string          `json:"message"`
	Product ProductResponse `json:"produto"`
}

// MovementResponse una movimentação del ledger.
type MovementResponse struct {
	ID            string    `json:"id"`
	Seq           int64     `json:"sequencia"`
	ProductID     string    `json:"produtoId"`
	PropertyID    string    `json:"propriedadeId"`
	Kind          string    `json:"tipo"`
	Quantity      int64     `json:"quantidade"`
	Justification string    `json:"justificativa,omitempty"`
	Date          time.Time `json:"data"`
}

// MovementEnvelope {message, movimentacao}.
type MovementEnvelope struct {
	Message  string           `json:"message"`
	Movement MovementResponse `json:"movimentacao"`
}

// HistoryResponse {quantidade, produto, movimentacoes}.
type HistoryResponse struct {
	Quantity  int64              `json:"quantidade"`
	Product   ProductResponse    `json:"produto"`
	Movements []MovementResponse `json:"movimentacoes"`
}

// PackagingOption opción del catálogo de embalagens.
type PackagingOption struct {
	Value string `json:"valor"`
	Label string `json:"rotulo"`
}

// PackagingListResponse {embalagens}.
type PackagingListResponse struct {
	Packagings []PackagingOption `json:"embalagens"`
}

// NormalizeExpiryRequest texto digitado y valor anterior del campo validade.
type NormalizeExpiryRequest struct {
	Value    string `json:"valor"`
	Previous string `json:"anterior"`
}

// NormalizeExpiryResponse {valor}.
type NormalizeExpiryResponse struct {
	Value string `json:"valor"`
}

// NewProductResponse mapea un lote.
func NewProductResponse(l *entity.Lot) ProductResponse {
	return ProductResponse{
		StockEntryID: l.StockEntryID,
		ProductID:    l.ID,
		Name:         l.ProductName,
		Expiry:       expiry.Format(l.ExpiryDate),
		Quantity:     l.QuantityOnHand,
		Packaging:    string(l.Packaging),
		PropertyID:   l.PropertyID,
		Property:     l.PropertyName,
		UnitValue:    l.UnitValue,
		Active:       l.Active,
	}
}

// NewProductList mapea una lista de lotes (nunca nil).
func NewProductList(lots []*entity.Lot) []ProductResponse {
	out := make([]ProductResponse, 0, len(lots))
	for _, l := range lots {
		out = append(out, NewProductResponse(l))
	}
	return out
}

// NewMovementResponse mapea una movimentação.
func NewMovementResponse(m *entity.Movement) MovementResponse {
	return MovementResponse{
		ID:            m.ID,
		Seq:           m.Seq,
		ProductID:     m.LotID,
		PropertyID:    m.PropertyID,
		Kind:          string(m.Kind),
		Quantity:      m.Quantity,
		Justification: m.Justification,
		Date:          m.CreatedAt,
	}
}

// NewPackagingList catálogo en orden canónico.
func NewPackagingList() []PackagingOption {
	all := packaging.All()
	out := make([]PackagingOption, 0, len(all))
	for _, k := range all {
		out = append(out, PackagingOption{Value: k.String(), Label: k.Label()})
	}
	return out
}
