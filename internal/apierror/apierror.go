// Package apierror defines the error envelope every 4xx/5xx response uses.
// Handlers translate service errors into these shapes so internals (SQL,
// stack traces, driver messages) never reach a client.
package apierror

// APIError is the canonical single-message error envelope.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError carries per-field messages for 400 responses produced
// by request binding.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}
