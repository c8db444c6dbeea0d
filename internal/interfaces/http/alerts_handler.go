package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/gesafe-api/internal/application/dto"
	"github.com/jhoicas/gesafe-api/internal/application/inventory"
)

// AlertsHandler avisos de vencimento.
type AlertsHandler struct {
	uc  *inventory.ExpiryAlertUseCase
	log zerolog.Logger
}

// NewAlertsHandler construye el handler.
func NewAlertsHandler(uc *inventory.ExpiryAlertUseCase, log zerolog.Logger) *AlertsHandler {
	return &AlertsHandler{uc: uc, log: log}
}

// Expiring godoc
// @Summary      Produtos vencidos ou próximos do vencimento
// @Description  Lotes ativos com estoque cuja validade cai antes de hoje + janela de alerta,
// @Description  agrupados por nome, embalagem e validade.
// @Tags         produto
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.AlertsResponse
// @Router       /produto/alertas-vencimento [get]
func (h *AlertsHandler) Expiring(c *fiber.Ctx) error {
	a, err := h.uc.Alerts(c.UserContext(), GetUserID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.NewAlertsResponse(a.Groups, a.Summary))
}
