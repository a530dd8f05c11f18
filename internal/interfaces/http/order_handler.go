package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/vero-api/internal/application/dto"
	"github.com/jhoicas/vero-api/internal/application/order"
)

// OrderHandler órdenes de compra de cuotas.
type OrderHandler struct {
	uc *order.UseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *order.UseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Place godoc
// @Summary      Colocar orden de compra (reserva cuotas)
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PlaceOrderRequest  true  "fundId, quantity"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse  "INSUFFICIENT_QUOTAS o FUND_NOT_AVAILABLE"
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	var in dto.PlaceOrderRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.PlaceOrder(c.UserContext(), ActorFrom(c), in.FundID, in.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar órdenes
// @Description  El inversor ve solo las suyas; el consultor las de sus fondos.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.OrderResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), ActorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Complete godoc
// @Summary      Completar orden
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la orden"
// @Param        body  body  dto.CompleteOrderRequest  true   "txHash"
// @Success      200   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/complete [patch]
func (h *OrderHandler) Complete(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	var in dto.CompleteOrderRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Complete(c.UserContext(), ActorFrom(c), id, in.TxHash)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar orden PENDING
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/cancel [patch]
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Cancel(c.UserContext(), ActorFrom(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
