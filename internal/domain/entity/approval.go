package entity

import "time"

// Estados del ciclo de aprobación (User, Fund, Cedente, Sacado).
const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// Tipos de entidad sujetos a aprobación.
const (
	ApprovalTargetUser    = "USER"
	ApprovalTargetFund    = "FUND"
	ApprovalTargetCedente = "CEDENTE"
	ApprovalTargetSacado  = "SACADO"
)

// ApprovalEvent registro de auditoría de cada transición de estado.
type ApprovalEvent struct {
	ID         string
	EntityType string
	EntityID   string
	FromStatus string
	ToStatus   string
	ActorID    string
	CreatedAt  time.Time
}
