package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
// Cada sentinel pertenece a una de cinco clases: validación, autenticación, autorización, conflicto o no encontrado.
var (
	// Validación
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrInvalidTransition   = fmt.Errorf("%w: transición de estado no permitida", ErrInvalidInput)
	ErrExceedsMaxSupply    = fmt.Errorf("%w: la emisión excede el max supply del fondo", ErrInvalidInput)
	ErrInsufficientQuotas  = fmt.Errorf("%w: cuotas disponibles insuficientes", ErrInvalidInput)
	ErrFundNotAvailable    = fmt.Errorf("%w: el fondo no está disponible para inversión", ErrInvalidInput)
	ErrReceivableNotPaid   = fmt.Errorf("%w: el recebível debe estar pagado antes de distribuir", ErrInvalidInput)
	ErrNoQuotaHolders      = fmt.Errorf("%w: el fondo no tiene cuotas completadas para distribuir", ErrInvalidInput)
	ErrMissingPaidValue    = fmt.Errorf("%w: el recebível no tiene valor pagado", ErrInvalidInput)
	ErrOrderNotPending     = fmt.Errorf("%w: solo órdenes PENDING pueden modificarse", ErrInvalidInput)
	ErrNotApprovableTarget = fmt.Errorf("%w: solo consultores e inversores requieren aprobación", ErrInvalidInput)

	// Autenticación
	ErrUnauthenticated = errors.New("no autenticado")

	// Autorización
	ErrForbidden       = errors.New("acceso denegado")
	ErrPendingApproval = fmt.Errorf("%w: cuenta pendiente de aprobación", ErrForbidden)
	ErrAccountRejected = fmt.Errorf("%w: cuenta rechazada", ErrForbidden)

	// Conflicto
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrDuplicate          = fmt.Errorf("%w: recurso duplicado", ErrConflict)
	ErrEmailAlreadyExists = fmt.Errorf("%w: el email ya está registrado", ErrConflict)
	ErrSymbolTaken        = fmt.Errorf("%w: el símbolo del fondo ya existe", ErrConflict)

	// No encontrado (o no accesible para el solicitante)
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrUserNotFound = fmt.Errorf("%w: usuario no encontrado", ErrNotFound)
)

// FieldError detalle de validación por campo.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidationError agrupa errores por campo; errors.Is(err, ErrInvalidInput) es true.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return ErrInvalidInput.Error() + ": " + strings.Join(parts, "; ")
}

// Unwrap permite clasificar el error como validación.
func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidationError construye un ValidationError de un solo campo.
func NewValidationError(field, rule, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Rule: rule, Message: message}}}
}

// DetailedError adjunta detalles estructurados (ej. cuotas solicitadas vs disponibles) a un sentinel.
type DetailedError struct {
	Err     error
	Details map[string]interface{}
}

func (e *DetailedError) Error() string { return e.Err.Error() }

// Unwrap devuelve el sentinel subyacente.
func (e *DetailedError) Unwrap() error { return e.Err }

// WithDetails envuelve err con detalles para la respuesta HTTP.
func WithDetails(err error, details map[string]interface{}) error {
	return &DetailedError{Err: err, Details: details}
}
