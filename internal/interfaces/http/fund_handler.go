package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/vero-api/internal/application/approval"
	"github.com/jhoicas/vero-api/internal/application/dto"
	"github.com/jhoicas/vero-api/internal/application/fund"
)

// FundHandler maneja las peticiones HTTP para Fund.
type FundHandler struct {
	uc        *fund.UseCase
	approvals *approval.UseCase
}

// NewFundHandler construye el handler.
func NewFundHandler(uc *fund.UseCase, approvals *approval.UseCase) *FundHandler {
	return &FundHandler{uc: uc, approvals: approvals}
}

// Create godoc
// @Summary      Crear fondo (queda PENDING)
// @Tags         funds
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateFundRequest  true  "Datos del fondo"
// @Success      201   {object}  dto.FundResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/funds [post]
func (h *FundHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateFundRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), ActorFrom(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar fondos con métricas
// @Description  El consultor solo ve sus propios fondos.
// @Tags         funds
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "PENDING | APPROVED | REJECTED | INACTIVE"
// @Success      200     {array}  dto.FundResponse
// @Router       /api/funds [get]
func (h *FundHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), ActorFrom(c), c.Query("status"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener fondo por ID
// @Tags         funds
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del fondo"
// @Success      200  {object}  dto.FundResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/funds/{id} [get]
func (h *FundHandler) GetByID(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Approve godoc
// @Summary      Aprobar o rechazar fondo
// @Tags         funds
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID del fondo"
// @Param        body  body  dto.ApprovalRequest  true  "APPROVED | REJECTED"
// @Success      200   {object}  dto.FundResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/funds/{id}/approval [patch]
func (h *FundHandler) Approve(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	var in dto.ApprovalRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.approvals.ApproveFund(c.UserContext(), ActorFrom(c), id, in.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Issue godoc
// @Summary      Emitir cuotas
// @Description  totalIssued + amount no puede superar maxSupply.
// @Tags         funds
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del fondo"
// @Param        body  body  dto.IssueQuotasRequest  true  "amount"
// @Success      200   {object}  dto.FundResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/funds/{id}/issue [post]
func (h *FundHandler) Issue(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	var in dto.IssueQuotasRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Issue(c.UserContext(), ActorFrom(c), id, in.Amount)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Deactivate godoc
// @Summary      Desactivar fondo
// @Tags         funds
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del fondo"
// @Success      200  {object}  dto.FundResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/funds/{id}/deactivate [patch]
func (h *FundHandler) Deactivate(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Deactivate(c.UserContext(), ActorFrom(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SetContract godoc
// @Summary      Registrar dirección del contrato del token
// @Tags         funds
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID del fondo"
// @Param        body  body  dto.ContractAddressRequest  true  "contractAddress"
// @Success      200   {object}  dto.FundResponse
// @Router       /api/funds/{id}/contract [patch]
func (h *FundHandler) SetContract(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	var in dto.ContractAddressRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.SetContractAddress(c.UserContext(), ActorFrom(c), id, in.ContractAddress)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
