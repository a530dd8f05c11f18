package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/vero-api/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del módulo de Dashboard.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary godoc
// @Summary      Resumen operativo de la plataforma
// @Description  Aprobaciones pendientes, cuotas de fondos aprobados y recebíveis del mes en curso.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.UserContext(), ActorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}
