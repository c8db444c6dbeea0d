package client

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/jhoicas/gesafe-api/internal/application/dto"
)

// Kind categoría de un error de la API vista desde el cliente.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindInsufficientStock
	KindNotFound
	KindAuthExpired
	KindNetwork
)

// Sentinelas para errors.Is.
var (
	ErrValidation        = errors.New("client: dados inválidos")
	ErrInsufficientStock = errors.New("client: estoque insuficiente")
	ErrNotFound          = errors.New("client: não encontrado")
	ErrAuthExpired       = errors.New("client: sessão expirada")
	ErrNetwork           = errors.New("client: falha de rede")
)

const (
	msgGeneric = "Erro inesperado. Tente novamente."
	msgNetwork = "Falha de conexão. Verifique sua internet e tente novamente."
)

// FieldError error de un campo tal como lo itemiza el servidor.
type FieldError struct {
	Field   string
	Message string
}

// Error error tipado devuelto por todas las llamadas del cliente.
type Error struct {
	Kind    Kind
	Status  int    // 0 en errores de transporte
	Code    string // campo "code" del servidor
	Message string
	Fields  []FieldError
	Err     error // causa de transporte o decodificación
}

func (e *Error) Error() string {
	if len(e.Fields) > 0 {
		msgs := make([]string, 0, len(e.Fields))
		for _, f := range e.Fields {
			msgs = append(msgs, f.Message)
		}
		return strings.Join(msgs, "\n")
	}
	return e.Message
}

// Is compara por Kind contra las sentinelas del paquete.
func (e *Error) Is(target error) bool {
	switch e.Kind {
	case KindValidation:
		return target == ErrValidation
	case KindInsufficientStock:
		return target == ErrInsufficientStock
	case KindNotFound:
		return target == ErrNotFound
	case KindAuthExpired:
		return target == ErrAuthExpired
	case KindNetwork:
		return target == ErrNetwork
	}
	return false
}

func (e *Error) Unwrap() error { return e.Err }

// FieldMessage mensaje del campo indicado, "" si el servidor no lo reportó.
func (e *Error) FieldMessage(field string) string {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message
		}
	}
	return ""
}

type errorBody struct {
	Error  string                   `json:"error"`
	Code   string                   `json:"code"`
	Errors []dto.FieldErrorResponse `json:"erros"`
}

// decodeError traduce una respuesta no 2xx. Con 400 la lista itemizada tiene
// prioridad sobre el mensaje único.
func decodeError(status int, body []byte) *Error {
	var eb errorBody
	_ = json.Unmarshal(body, &eb)

	e := &Error{Status: status, Code: eb.Code, Message: eb.Error}
	switch {
	case status == http.StatusBadRequest:
		e.Kind = KindValidation
		for _, f := range eb.Errors {
			e.Fields = append(e.Fields, FieldError{Field: f.Field, Message: f.Message})
		}
		if e.Message == "" {
			e.Message = "Dados inválidos"
		}
	case status == http.StatusConflict && eb.Code == "INSUFFICIENT_STOCK":
		e.Kind = KindInsufficientStock
		if e.Message == "" {
			e.Message = "Quantidade maior que o estoque disponível"
		}
	case status == http.StatusNotFound:
		e.Kind = KindNotFound
		if e.Message == "" {
			e.Message = "Não encontrado"
		}
	case status == http.StatusUnauthorized:
		e.Kind = KindAuthExpired
		if e.Message == "" {
			e.Message = "Sessão expirada, faça login novamente"
		}
	default:
		e.Kind = KindUnknown
		if e.Message == "" {
			e.Message = msgGeneric
		}
	}
	return e
}

func networkError(err error) *Error {
	return &Error{Kind: KindNetwork, Message: msgNetwork, Err: err}
}

func invalidResponse(field string) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: "Resposta inválida do servidor",
		Fields:  []FieldError{{Field: field, Message: "Campo ausente na resposta: " + field}},
	}
}
