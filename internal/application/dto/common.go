package dto

// ErrorResponse cuerpo de error HTTP: {code, error, details?}.
type ErrorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// ApprovalRequest decisión del gestor sobre User, Fund, Cedente o Sacado.
type ApprovalRequest struct {
	Status string `json:"status" validate:"required,oneof=APPROVED REJECTED"`
}
