package escalation

import (
	"go-helpdesk/internal/config"
	"go-helpdesk/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type EscalationApi struct {
	controller *EscalationController
	config     *config.Config
}

func NewEscalationApi(controller *EscalationController, config *config.Config) *EscalationApi {
	return &EscalationApi{
		controller: controller,
		config:     config,
	}
}

func (h *EscalationApi) Setup(app *fiber.App) {
	group := app.Group("/api/escalation", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/rules", h.controller.ListRules)
	group.Get("/rules/:id", h.controller.GetRule)
	group.Post("/rules", middleware.AdminOnly(), h.controller.CreateRule)
	group.Put("/rules/:id", middleware.AdminOnly(), h.controller.UpdateRule)
	group.Delete("/rules/:id", middleware.AdminOnly(), h.controller.DeleteRule)

	group.Post("/run", middleware.AdminOnly(), h.controller.RunSweep)
}
