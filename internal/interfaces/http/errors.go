package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/gesafe-api/internal/application/dto"
	"github.com/jhoicas/gesafe-api/internal/domain"
)

// Códigos estables del campo "code" en las respuestas de error.
const (
	CodeNotFound          = "NOT_FOUND"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeLotInactive       = "PRODUCT_INACTIVE"
	CodeDuplicate         = "DUPLICATE"
	CodeEmailExists       = "EMAIL_EXISTS"
	CodeConflict          = "CONFLICT"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeTokenExpired      = "TOKEN_EXPIRED"
	CodeInvalidToken      = "INVALID_TOKEN"
	CodeForbidden         = "FORBIDDEN"
	CodeInvalidBody       = "INVALID_BODY"
	CodeTooManyRequests   = "TOO_MANY_REQUESTS"
	CodeInternal          = "INTERNAL"
)

const internalMessage = "Erro interno do servidor"

// respondError traduce un error de caso de uso a la respuesta HTTP.
// Los errores no previstos se registran y nunca se exponen al cliente.
func respondError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(validationBody(verr))
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ValidationErrorResponse{
			Errors: []dto.FieldErrorResponse{{Message: "Dados inválidos"}},
		})
	case errors.Is(err, domain.ErrInsufficientStock):
		return errorJSON(c, fiber.StatusConflict, CodeInsufficientStock, "Quantidade maior que o estoque disponível")
	case errors.Is(err, domain.ErrLotInactive):
		return errorJSON(c, fiber.StatusConflict, CodeLotInactive, "Produto desativado")
	case errors.Is(err, domain.ErrDuplicate):
		return errorJSON(c, fiber.StatusConflict, CodeDuplicate, "Já existe um produto ativo com esses dados")
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return errorJSON(c, fiber.StatusConflict, CodeEmailExists, "E-mail já cadastrado")
	case errors.Is(err, domain.ErrConflict):
		return errorJSON(c, fiber.StatusConflict, CodeConflict, "Operação em andamento, tente novamente")
	case errors.Is(err, domain.ErrUserNotFound):
		return errorJSON(c, fiber.StatusNotFound, CodeNotFound, "Usuário não encontrado")
	case errors.Is(err, domain.ErrNotFound):
		return errorJSON(c, fiber.StatusNotFound, CodeNotFound, "Recurso não encontrado")
	case errors.Is(err, domain.ErrUnauthorized):
		return errorJSON(c, fiber.StatusUnauthorized, CodeUnauthorized, "Não autorizado")
	case errors.Is(err, domain.ErrForbidden):
		return errorJSON(c, fiber.StatusForbidden, CodeForbidden, "Acesso negado")
	}

	log.Error().Err(err).
		Str("method", c.Method()).
		Str("route", c.Route().Path).
		Str("request_id", requestID(c)).
		Msg("error no previsto")
	return errorJSON(c, fiber.StatusInternalServerError, CodeInternal, internalMessage)
}

func errorJSON(c *fiber.Ctx, status int, code, msg string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: msg, Code: code})
}

func badBody(c *fiber.Ctx) error {
	return errorJSON(c, fiber.StatusBadRequest, CodeInvalidBody, "Corpo da requisição inválido")
}

func validationBody(verr *domain.ValidationError) dto.ValidationErrorResponse {
	out := dto.ValidationErrorResponse{Errors: make([]dto.FieldErrorResponse, 0, len(verr.Fields))}
	for _, f := range verr.Fields {
		out.Errors = append(out.Errors, dto.FieldErrorResponse{Field: f.Field, Message: f.Message})
	}
	return out
}

// ErrorHandler manejador global de fiber: errores de ruteo (404, 405) y los que
// escapan de los handlers.
func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code := CodeInternal
			switch fe.Code {
			case fiber.StatusNotFound:
				code = CodeNotFound
			case fiber.StatusTooManyRequests:
				code = CodeTooManyRequests
			case fiber.StatusBadRequest:
				code = CodeInvalidBody
			}
			if fe.Code < fiber.StatusInternalServerError {
				return errorJSON(c, fe.Code, code, fe.Message)
			}
		}
		return respondError(c, log, err)
	}
}
