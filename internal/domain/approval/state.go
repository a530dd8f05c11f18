// Package approval define la máquina de estados PENDING -> {APPROVED, REJECTED}
// compartida por User, Fund, Cedente y Sacado.
package approval

import (
	"github.com/jhoicas/vero-api/internal/domain"
	"github.com/jhoicas/vero-api/internal/domain/entity"
)

// ValidDecision indica si decision es un estado destino permitido.
func ValidDecision(decision string) bool {
	return decision == entity.StatusApproved || decision == entity.StatusRejected
}

// Decide devuelve el nuevo estado para una decisión del gestor.
// Los estados terminales pueden sobrescribirse: aprobar dos veces deja APPROVED sin error.
// Nunca se vuelve a PENDING.
func Decide(current, decision string) (string, error) {
	if !ValidDecision(decision) {
		return "", domain.NewValidationError("status", "oneof", "status debe ser APPROVED o REJECTED")
	}
	switch current {
	case entity.StatusPending, entity.StatusApproved, entity.StatusRejected:
		return decision, nil
	}
	// Fondos INACTIVE (u otro estado fuera del ciclo) no vuelven a la aprobación.
	return "", domain.ErrInvalidTransition
}

// Changed indica si la decisión altera el estado actual (para auditoría).
func Changed(current, next string) bool {
	return current != next
}
