package dto

// ErrorResponse cuerpo de error HTTP (fallas que no son de validación).
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// FieldErrorResponse error de un campo.
type FieldErrorResponse struct {
	Field   string `json:"campo"`
	Message string `json:"mensagem"`
}

// ValidationErrorResponse cuerpo 400 con los errores itemizados.
type ValidationErrorResponse struct {
	Errors []FieldErrorResponse `json:"erros"`
}

// MessageResponse respuesta simple con mensaje.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse estado del servicio.
type HealthResponse struct {
	Status string `json:"status"`
}
