package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/vero-api/internal/domain"
	"github.com/jhoicas/vero-api/internal/domain/access"
	"github.com/jhoicas/vero-api/internal/domain/entity"
)

var (
	manager    = access.Actor{UserID: "m1", Role: entity.RoleManager}
	consultant = access.Actor{UserID: "c1", Role: entity.RoleConsultant}
	investor   = access.Actor{UserID: "i1", Role: entity.RoleInvestor}
)

func TestRequire_TablaDeRoles(t *testing.T) {
	tests := []struct {
		action  access.Action
		allowed []access.Actor
		denied  []access.Actor
	}{
		{access.CreateFund, []access.Actor{consultant}, []access.Actor{manager, investor}},
		{access.ApproveFund, []access.Actor{manager}, []access.Actor{consultant, investor}},
		{access.IssueQuotas, []access.Actor{manager}, []access.Actor{consultant, investor}},
		{access.CreateParty, []access.Actor{consultant}, []access.Actor{manager, investor}},
		{access.Distribute, []access.Actor{manager}, []access.Actor{consultant, investor}},
		{access.PlaceOrder, []access.Actor{investor}, []access.Actor{manager, consultant}},
		{access.CompleteOrder, []access.Actor{manager}, []access.Actor{consultant, investor}},
		{access.ListUsers, []access.Actor{manager}, []access.Actor{consultant, investor}},
		{access.ViewDashboard, []access.Actor{manager}, []access.Actor{consultant, investor}},
	}
	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			for _, a := range tt.allowed {
				assert.NoError(t, access.Require(a, tt.action), a.Role)
			}
			for _, a := range tt.denied {
				assert.ErrorIs(t, access.Require(a, tt.action), domain.ErrForbidden, a.Role)
			}
		})
	}
}

func TestRequire_SinUsuario(t *testing.T) {
	err := access.Require(access.Actor{Role: entity.RoleManager}, access.ApproveFund)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestRequire_AccionDesconocida(t *testing.T) {
	assert.ErrorIs(t, access.Require(manager, access.Action("x:y")), domain.ErrForbidden)
}

func TestCanCancelOrder(t *testing.T) {
	assert.NoError(t, access.CanCancelOrder(investor, "i1"))
	assert.ErrorIs(t, access.CanCancelOrder(investor, "otro"), domain.ErrForbidden)
	assert.NoError(t, access.CanCancelOrder(manager, "otro"))
	assert.ErrorIs(t, access.CanCancelOrder(consultant, "c1"), domain.ErrForbidden)
}
