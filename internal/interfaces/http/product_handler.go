package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/gesafe-api/internal/application/dto"
	"github.com/jhoicas/gesafe-api/internal/application/inventory"
	"github.com/jhoicas/gesafe-api/internal/domain/expiry"
)

// ProductHandler cadastro, saídas, desativação e histórico de lotes (protegido).
type ProductHandler struct {
	ledger *inventory.LedgerUseCase
	log    zerolog.Logger
}

// NewProductHandler construye el handler.
func NewProductHandler(ledger *inventory.LedgerUseCase, log zerolog.Logger) *ProductHandler {
	return &ProductHandler{ledger: ledger, log: log}
}

// Packagings godoc
// @Summary      Catálogo de embalagens
// @Tags         produto
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.PackagingListResponse
// @Router       /produto/embalagens [get]
func (h *ProductHandler) Packagings(c *fiber.Ctx) error {
	return c.JSON(dto.PackagingListResponse{Packagings: dto.NewPackagingList()})
}

// NormalizeExpiry godoc
// @Summary      Normalizar o texto digitado no campo validade
// @Description  Insere as barras e expande MM/AAAA para o último dia do mês.
// @Tags         produto
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.NormalizeExpiryRequest  true  "valor, anterior"
// @Success      200   {object}  dto.NormalizeExpiryResponse
// @Router       /produto/validade/normalizar [post]
func (h *ProductHandler) NormalizeExpiry(c *fiber.Ctx) error {
	var in dto.NormalizeExpiryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	return c.JSON(dto.NormalizeExpiryResponse{Value: expiry.Normalize(in.Value, in.Previous)})
}

// Register godoc
// @Summary      Cadastrar produto (ENTRADA)
// @Description  Soma ao lote ativo com o mesmo nome, embalagem, validade e propriedade, ou abre um novo.
// @Tags         produto
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterProductRequest  true  "nome, quantidade, validade, embalagem, propriedadeId"
// @Success      201   {object}  dto.ProductEnvelope
// @Failure      400   {object}  dto.ValidationErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /produto/cadastrar [post]
func (h *ProductHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	rec, err := h.ledger.RecordEntrada(c.UserContext(), inventory.EntradaInput{
		UserID:      GetUserID(c),
		PropertyID:  in.PropertyID,
		ProductName: in.Name,
		Expiry:      in.Expiry,
		Packaging:   in.Packaging,
		Quantity:    in.Quantity,
		UnitValue:   in.UnitValue,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ProductEnvelope{
		Message: "Produto cadastrado com sucesso",
		Product: dto.NewProductResponse(rec.Lot),
	})
}

// List godoc
// @Summary      Produtos ativos da propriedade
// @Tags         produto
// @Security     Bearer
// @Produce      json
// @Param        propertyId  path  string  true  "ID da propriedade"
// @Success      200  {object}  dto.ProductListResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /produto/{propertyId} [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	lots, err := h.ledger.ListActiveLots(c.UserContext(), GetUserID(c), c.Params("propertyId"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.ProductListResponse{Products: dto.NewProductList(lots)})
}

// Update godoc
// @Summary      Editar nome, validade e embalagem de um lote
// @Tags         produto
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        propertyId  path  string                     true  "ID da propriedade"
// @Param        productId   path  string                     true  "ID do produto (lote)"
// @Param        body        body  dto.UpdateProductRequest  true  "nome, validade, embalagem"
// @Success      200  {object}  dto.ProductEnvelope
// @Failure      400  {object}  dto.ValidationErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /produto/{propertyId}/{productId} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	rec, err := h.ledger.EditLotDescriptor(c.UserContext(), inventory.EditInput{
		UserID:      GetUserID(c),
		PropertyID:  c.Params("propertyId"),
		LotID:       c.Params("productId"),
		ProductName: in.Name,
		Expiry:      in.Expiry,
		Packaging:   in.Packaging,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.ProductEnvelope{
		Message: "Produto atualizado com sucesso",
		Product: dto.NewProductResponse(rec.Lot),
	})
}

// Withdraw godoc
// @Summary      Registrar saída
// @Tags         produto
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.WithdrawRequest  true  "produtoId, propriedadeId, quantidade"
// @Success      201   {object}  dto.MovementEnvelope
// @Failure      400   {object}  dto.ValidationErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "INSUFFICIENT_STOCK"
// @Router       /produto/saida [post]
func (h *ProductHandler) Withdraw(c *fiber.Ctx) error {
	var in dto.WithdrawRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	rec, err := h.ledger.RecordSaida(c.UserContext(), inventory.SaidaInput{
		UserID:     GetUserID(c),
		PropertyID: in.PropertyID,
		LotID:      in.ProductID,
		Quantity:   in.Quantity,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovementEnvelope{
		Message:  "Saída registrada com sucesso",
		Movement: dto.NewMovementResponse(rec.Movement),
	})
}

// Deactivate godoc
// @Summary      Desativar produto
// @Description  Registra uma DESATIVACAO no lote da movimentação informada. O lote deixa de aceitar saídas.
// @Tags         produto
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        movementId  path  string                 true  "ID de uma movimentação do lote"
// @Param        propertyId  path  string                 true  "ID da propriedade"
// @Param        body        body  dto.DeactivateRequest  true  "justificativa"
// @Success      200  {object}  dto.MovementEnvelope
// @Failure      400  {object}  dto.ValidationErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /produto/movimentacao/{movementId}/{propertyId} [patch]
func (h *ProductHandler) Deactivate(c *fiber.Ctx) error {
	var in dto.DeactivateRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	rec, err := h.ledger.DeactivateByMovement(c.UserContext(), GetUserID(c),
		c.Params("movementId"), c.Params("propertyId"), in.Justification)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.MovementEnvelope{
		Message:  "Produto desativado com sucesso",
		Movement: dto.NewMovementResponse(rec.Movement),
	})
}

// History godoc
// @Summary      Histórico de movimentações do lote
// @Tags         produto
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "ID do produto (lote)"
// @Success      200  {object}  dto.HistoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /produto/historico/{productId} [get]
func (h *ProductHandler) History(c *fiber.Ctx) error {
	hist, err := h.ledger.History(c.UserContext(), GetUserID(c), c.Params("productId"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	movs := make([]dto.MovementResponse, 0, len(hist.Movements))
	for _, m := range hist.Movements {
		movs = append(movs, dto.NewMovementResponse(m))
	}
	return c.JSON(dto.HistoryResponse{
		Quantity:  hist.OnHand,
		Product:   dto.NewProductResponse(hist.Lot),
		Movements: movs,
	})
}
