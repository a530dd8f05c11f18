// Package access concentra la tabla de permisos por rol. Los handlers la aplican vía middleware
// y los casos de uso la vuelven a evaluar antes de tocar el repositorio.
package access

import (
	"fmt"

	"github.com/jhoicas/vero-api/internal/domain"
	"github.com/jhoicas/vero-api/internal/domain/entity"
)

// Actor identidad autenticada que ejecuta una operación (derivada de los claims JWT).
type Actor struct {
	UserID string
	Email  string
	Role   string
}

// Action operación protegida.
type Action string

const (
	CreateFund         Action = "fund:create"
	ApproveFund        Action = "fund:approve"
	IssueQuotas        Action = "fund:issue"
	DeactivateFund     Action = "fund:deactivate"
	SetFundContract    Action = "fund:contract"
	ApproveUser        Action = "user:approve"
	ListUsers          Action = "user:list"
	CreateParty        Action = "party:create"
	ApproveParty       Action = "party:approve"
	CreateReceivable   Action = "receivable:create"
	MarkReceivablePaid Action = "receivable:mark-paid"
	Distribute         Action = "receivable:distribute"
	ViewDistributions  Action = "receivable:distributions"
	PlaceOrder         Action = "order:place"
	CompleteOrder      Action = "order:complete"
	CancelOrder        Action = "order:cancel"
	ViewDashboard      Action = "dashboard:view"
)

var rules = map[Action][]string{
	CreateFund:         {entity.RoleConsultant},
	ApproveFund:        {entity.RoleManager},
	IssueQuotas:        {entity.RoleManager},
	DeactivateFund:     {entity.RoleManager},
	SetFundContract:    {entity.RoleManager},
	ApproveUser:        {entity.RoleManager},
	ListUsers:          {entity.RoleManager},
	CreateParty:        {entity.RoleConsultant},
	ApproveParty:       {entity.RoleManager},
	CreateReceivable:   {entity.RoleManager},
	MarkReceivablePaid: {entity.RoleManager},
	Distribute:         {entity.RoleManager},
	ViewDistributions:  {entity.RoleManager},
	PlaceOrder:         {entity.RoleInvestor},
	CompleteOrder:      {entity.RoleManager},
	CancelOrder:        {entity.RoleInvestor, entity.RoleManager},
	ViewDashboard:      {entity.RoleManager},
}

// RolesFor devuelve los roles habilitados para action (nil si la acción no existe).
func RolesFor(action Action) []string {
	return rules[action]
}

// Allowed indica si role puede ejecutar action. Acciones desconocidas se deniegan.
func Allowed(role string, action Action) bool {
	for _, r := range rules[action] {
		if r == role {
			return true
		}
	}
	return false
}

// Require devuelve ErrForbidden si el actor no puede ejecutar action.
func Require(actor Actor, action Action) error {
	if actor.UserID == "" {
		return domain.ErrUnauthenticated
	}
	if !Allowed(actor.Role, action) {
		return fmt.Errorf("%w: %s requiere rol %v", domain.ErrForbidden, action, rules[action])
	}
	return nil
}

// CanCancelOrder: el MANAGER cancela cualquier orden; el INVESTOR solo las propias.
func CanCancelOrder(actor Actor, orderInvestorID string) error {
	if err := Require(actor, CancelOrder); err != nil {
		return err
	}
	if actor.Role == entity.RoleInvestor && actor.UserID != orderInvestorID {
		return fmt.Errorf("%w: la orden pertenece a otro inversor", domain.ErrForbidden)
	}
	return nil
}

// IsManager atajo para filtros de listado.
func (a Actor) IsManager() bool { return a.Role == entity.RoleManager }

// IsConsultant atajo para filtros de listado.
func (a Actor) IsConsultant() bool { return a.Role == entity.RoleConsultant }
