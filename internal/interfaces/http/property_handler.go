package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/gesafe-api/internal/application/dto"
	"github.com/jhoicas/gesafe-api/internal/application/usecase"
)

// PropertyHandler propriedades del usuario autenticado.
type PropertyHandler struct {
	uc  *usecase.PropertyUseCase
	log zerolog.Logger
}

// NewPropertyHandler construye el handler.
func NewPropertyHandler(uc *usecase.PropertyUseCase, log zerolog.Logger) *PropertyHandler {
	return &PropertyHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Listar propriedades
// @Tags         propriedades
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.PropertyListResponse
// @Router       /auth/propriedades [get]
func (h *PropertyHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.UserContext(), GetUserID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.PropertyListResponse{Properties: list})
}

// CreateMany godoc
// @Summary      Cadastrar várias propriedades
// @Tags         propriedades
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePropertiesRequest  true  "propriedades"
// @Success      201   {object}  dto.PropertyListResponse
// @Failure      400   {object}  dto.ValidationErrorResponse
// @Router       /auth/propriedades [post]
func (h *PropertyHandler) CreateMany(c *fiber.Ctx) error {
	var in dto.CreatePropertiesRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validateStruct(&in); err != nil {
		return respondError(c, h.log, err)
	}
	list, err := h.uc.CreateMany(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.PropertyListResponse{Properties: list})
}

// Create godoc
// @Summary      Cadastrar propriedade
// @Tags         propriedades
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePropertyRequest  true  "nome"
// @Success      201   {object}  dto.PropertyEnvelope
// @Failure      400   {object}  dto.ValidationErrorResponse
// @Router       /auth/propriedade [post]
func (h *PropertyHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePropertyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validateStruct(&in); err != nil {
		return respondError(c, h.log, err)
	}
	p, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.PropertyEnvelope{Property: *p})
}
