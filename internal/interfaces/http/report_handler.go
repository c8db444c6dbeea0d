package http

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/gesafe-api/internal/application/dto"
	appreport "github.com/jhoicas/gesafe-api/internal/application/report"
	"github.com/jhoicas/gesafe-api/internal/domain/report"
)

// ReportHandler relatórios en JSON o como archivo (pdf, xlsx).
type ReportHandler struct {
	uc  *appreport.ReportUseCase
	log zerolog.Logger
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *appreport.ReportUseCase, log zerolog.Logger) *ReportHandler {
	return &ReportHandler{uc: uc, log: log}
}

// General godoc
// @Summary      Relatório geral de estoque
// @Tags         relatorios
// @Security     Bearer
// @Produce      json,application/pdf
// @Param        propriedadeId  query  string  false  "ID da propriedade ou TODOS"
// @Param        embalagem      query  string  false  "Embalagem ou TODOS"
// @Param        formato        query  string  false  "json (padrão), pdf ou xlsx"
// @Success      200  {object}  dto.ReportResponse
// @Failure      400  {object}  dto.ValidationErrorResponse
// @Router       /produto/relatorio-geral [get]
func (h *ReportHandler) General(c *fiber.Ctx) error { return h.serve(c, report.KindStock) }

// Movements godoc
// @Summary      Relatório de movimentações
// @Tags         relatorios
// @Security     Bearer
// @Produce      json,application/pdf
// @Param        propriedadeId  query  string  false  "ID da propriedade ou TODOS"
// @Param        embalagem      query  string  false  "Embalagem ou TODOS"
// @Param        tipo           query  string  false  "ENTRADA, SAIDA, DESATIVACAO ou TODOS"
// @Param        formato        query  string  false  "json (padrão), pdf ou xlsx"
// @Success      200  {object}  dto.ReportResponse
// @Failure      400  {object}  dto.ValidationErrorResponse
// @Router       /produto/relatorio-movimentacoes [get]
func (h *ReportHandler) Movements(c *fiber.Ctx) error { return h.serve(c, report.KindMovements) }

// Expirations godoc
// @Summary      Relatório de vencimentos
// @Tags         relatorios
// @Security     Bearer
// @Produce      json,application/pdf
// @Param        propriedadeId  query  string  false  "ID da propriedade ou TODOS"
// @Param        embalagem      query  string  false  "Embalagem ou TODOS"
// @Param        status         query  string  false  "VENCIDO, A VENCER ou TODOS"
// @Param        formato        query  string  false  "json (padrão), pdf ou xlsx"
// @Success      200  {object}  dto.ReportResponse
// @Failure      400  {object}  dto.ValidationErrorResponse
// @Router       /produto/relatorio-vencimentos [get]
func (h *ReportHandler) Expirations(c *fiber.Ctx) error { return h.serve(c, report.KindExpirations) }

func (h *ReportHandler) serve(c *fiber.Ctx, kind report.Kind) error {
	var q dto.ReportQuery
	if err := c.QueryParser(&q); err != nil {
		return badBody(c)
	}
	q.Format = strings.ToLower(strings.TrimSpace(q.Format))
	if err := validateStruct(&q); err != nil {
		return respondError(c, h.log, err)
	}
	query := appreport.Query{
		UserID:     GetUserID(c),
		PropertyID: q.PropertyID,
		Packaging:  q.Packaging,
		Kind:       q.Kind,
		Status:     q.Status,
	}

	if q.Format == "" || q.Format == "json" {
		r, err := h.uc.Build(c.UserContext(), kind, query)
		if err != nil {
			return respondError(c, h.log, err)
		}
		return c.JSON(dto.NewReportResponse(r))
	}

	f, err := h.uc.Export(c.UserContext(), kind, query, q.Format)
	if err != nil {
		return respondError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, f.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", f.Name))
	return c.Send(f.Data)
}
