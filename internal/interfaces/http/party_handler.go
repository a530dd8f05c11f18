package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/vero-api/internal/application/approval"
	"github.com/jhoicas/vero-api/internal/application/dto"
	"github.com/jhoicas/vero-api/internal/application/party"
	"github.com/jhoicas/vero-api/internal/domain/entity"
)

// PartyHandler atiende /cedentes y /sacados; kind fija cuál de los dos.
type PartyHandler struct {
	kind      string
	uc        *party.UseCase
	approvals *approval.UseCase
}

// NewPartyHandler construye el handler para kind (entity.PartyCedente o entity.PartySacado).
func NewPartyHandler(kind string, uc *party.UseCase, approvals *approval.UseCase) *PartyHandler {
	return &PartyHandler{kind: kind, uc: uc, approvals: approvals}
}

// Create godoc
// @Summary      Registrar cedente o sacado en un fondo propio
// @Tags         parties
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePartyRequest  true  "Datos de la contraparte"
// @Success      201   {object}  dto.PartyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse  "fondo inexistente o ajeno"
// @Router       /api/cedentes [post]
// @Router       /api/sacados [post]
func (h *PartyHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePartyRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), ActorFrom(c), h.kind, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar cedentes o sacados
// @Description  El consultor solo ve los suyos.
// @Tags         parties
// @Security     Bearer
// @Produce      json
// @Param        fundId  query  string  false  "Filtrar por fondo"
// @Success      200     {array}  dto.PartyResponse
// @Router       /api/cedentes [get]
// @Router       /api/sacados [get]
func (h *PartyHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), ActorFrom(c), h.kind, c.Query("fundId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Approve godoc
// @Summary      Aprobar o rechazar cedente/sacado
// @Tags         parties
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID"
// @Param        body  body  dto.ApprovalRequest  true  "APPROVED | REJECTED"
// @Success      200   {object}  dto.PartyResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/cedentes/{id}/status [patch]
// @Router       /api/sacados/{id}/status [patch]
func (h *PartyHandler) Approve(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	var in dto.ApprovalRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	var out *dto.PartyResponse
	if h.kind == entity.PartyCedente {
		out, err = h.approvals.ApproveCedente(c.UserContext(), ActorFrom(c), id, in.Status)
	} else {
		out, err = h.approvals.ApproveSacado(c.UserContext(), ActorFrom(c), id, in.Status)
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
