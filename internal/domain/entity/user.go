package entity

import "time"

// Roles válidos para User.
const (
	RoleConsultant = "CONSULTANT"
	RoleManager    = "MANAGER"
	RoleInvestor   = "INVESTOR"
)

// ValidRole indica si role es uno de los roles conocidos.
func ValidRole(role string) bool {
	switch role {
	case RoleConsultant, RoleManager, RoleInvestor:
		return true
	}
	return false
}

// User representa un usuario de la plataforma.
// Los MANAGER se siembran fuera de banda (cmd/seed) y no pasan por aprobación.
type User struct {
	ID               string
	Email            string
	PasswordHash     string // bcrypt hash
	Role             string // CONSULTANT, MANAGER, INVESTOR
	Status           string // PENDING, APPROVED, REJECTED
	StellarPublicKey string
	StellarSecretKey string // cifrada con vault (hex), nunca en claro
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// RequiresApproval indica si el login del usuario depende de su estado de aprobación.
func (u *User) RequiresApproval() bool {
	return u.Role != RoleManager
}
