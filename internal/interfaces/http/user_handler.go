package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/vero-api/internal/application/approval"
	"github.com/jhoicas/vero-api/internal/application/dto"
	"github.com/jhoicas/vero-api/internal/application/usecase"
)

// UserHandler listado y aprobación de usuarios (gestor).
type UserHandler struct {
	users     *usecase.UserUseCase
	approvals *approval.UseCase
}

// NewUserHandler construye el handler.
func NewUserHandler(users *usecase.UserUseCase, approvals *approval.UseCase) *UserHandler {
	return &UserHandler{users: users, approvals: approvals}
}

// List godoc
// @Summary      Listar usuarios por rol
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        role  query  string  false  "CONSULTANT | MANAGER | INVESTOR"
// @Success      200   {array}   dto.UserResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	out, err := h.users.List(c.UserContext(), ActorFrom(c), c.Query("role"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Approve godoc
// @Summary      Aprobar o rechazar usuario
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID del usuario"
// @Param        body  body  dto.ApprovalRequest  true  "APPROVED | REJECTED"
// @Success      200   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/users/{id}/approval [patch]
func (h *UserHandler) Approve(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	var in dto.ApprovalRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.approvals.ApproveUser(c.UserContext(), ActorFrom(c), id, in.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
