package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gesafe-api/internal/domain/expiry"
	"github.com/jhoicas/gesafe-api/internal/domain/report"
)

// AlertPropertyQuantity cantidad de un grupo en una propriedade.
type AlertPropertyQuantity struct {
	PropertyID string `json:"propriedadeId"`
	Property   string `json:"propriedade"`
	Quantity   int64  `json:"quantidade"`
}

// AlertItem grupo producto + embalagem + validade.
type AlertItem struct {
	ProductID  string                  `json:"idProduto"`
	Name       string                  `json:"nome"`
	Packaging  string                  `json:"embalagem"`
	Expiry     string                  `json:"validade"`
	Status     string                  `json:"status"`
	Expired    bool                    `json:"vencido"`
	Total      int64                   `json:"quantidadeTotal"`
	Properties []AlertPropertyQuantity `json:"propriedades"`
}

// AlertSummary conteo de avisos.
type AlertSummary struct {
	Expired  int `json:"vencidos"`
	Upcoming int `json:"aVencer"`
	Total    int `json:"total"`
}

// AlertsResponse {produtos, resumo}.
type AlertsResponse struct {
	Products []AlertItem  `json:"produtos"`
	Summary  AlertSummary `json:"resumo"`
}

// ReportQuery filtros de los reportes. "TODOS" o vacío no filtra.
type ReportQuery struct {
	PropertyID string `query:"propriedadeId"`
	Packaging  string `query:"embalagem"`
	Kind       string `query:"tipo"`
	Status     string `query:"status"`
	Format     string `query:"formato" validate:"omitempty,oneof=json pdf xlsx"`
}

// ReportRow fila de reporte.
type ReportRow struct {
	ProductID     string           `json:"idProduto,omitempty"`
	MovementID    string           `json:"idMovimentacao,omitempty"`
	Product       string           `json:"produto"`
	Packaging     string           `json:"embalagem"`
	Quantity      int64            `json:"quantidade"`
	Expiry        string           `json:"validade,omitempty"`
	Status        string           `json:"status,omitempty"`
	Kind          string           `json:"tipo,omitempty"`
	Justification string           `json:"justificativa,omitempty"`
	Date          *time.Time       `json:"data,omitempty"`
	UnitValue     *decimal.Decimal `json:"valorUnitario,omitempty" swaggertype:"string"`
	TotalValue    *decimal.Decimal `json:"valorTotal,omitempty" swaggertype:"string"`
}

// ReportGroup filas de una propriedade.
type ReportGroup struct {
	PropertyID string      `json:"propriedadeId"`
	Property   string      `json:"propriedade"`
	Items      []ReportRow `json:"itens"`
}

// ReportResponse {titulo, geradoEm, relatorio}.
type ReportResponse struct {
	Title       string        `json:"titulo"`
	GeneratedAt time.Time     `json:"geradoEm"`
	Report      []ReportGroup `json:"relatorio"`
}

// NewAlertsResponse mapea los grupos clasificados.
func NewAlertsResponse(groups []expiry.Classification, s expiry.Summary) AlertsResponse {
	items := make([]AlertItem, 0, len(groups))
	for _, g := range groups {
		props := make([]AlertPropertyQuantity, 0, len(g.Breakdown))
		for _, b := range g.Breakdown {
			props = append(props, AlertPropertyQuantity{PropertyID: b.PropertyID, Property: b.PropertyName, Quantity: b.Quantity})
		}
		items = append(items, AlertItem{
			ProductID:  g.LotID,
			Name:       g.ProductName,
			Packaging:  string(g.Packaging),
			Expiry:     expiry.Format(g.Expiry),
			Status:     string(g.Status()),
			Expired:    g.Vencido,
			Total:      g.Total,
			Properties: props,
		})
	}
	return AlertsResponse{
		Products: items,
		Summary:  AlertSummary{Expired: s.Vencidos, Upcoming: s.AVencer, Total: s.Total},
	}
}

// NewReportResponse mapea un reporte ya agregado.
func NewReportResponse(r *report.Report) ReportResponse {
	groups := make([]ReportGroup, 0, len(r.Groups))
	for _, g := range r.Groups {
		rows := make([]ReportRow, 0, len(g.Rows))
		for _, row := range g.Rows {
			out := ReportRow{
				ProductID:     row.LotID,
				MovementID:    row.MovementID,
				Product:       row.Product,
				Packaging:     string(row.Packaging),
				Quantity:      row.Quantity,
				Status:        string(row.Status),
				Kind:          string(row.MovementKind),
				Justification: row.Justification,
				UnitValue:     row.UnitValue,
				TotalValue:    row.TotalValue,
			}
			if !row.Expiry.IsZero() {
				out.Expiry = expiry.Format(row.Expiry)
			}
			if !row.Date.IsZero() {
				d := row.Date
				out.Date = &d
			}
			rows = append(rows, out)
		}
		groups = append(groups, ReportGroup{PropertyID: g.PropertyID, Property: g.Property, Items: rows})
	}
	return ReportResponse{Title: r.Title(), GeneratedAt: r.GeneratedAt, Report: groups}
}
