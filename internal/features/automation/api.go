package automation

import (
	"go-helpdesk/internal/config"
	"go-helpdesk/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AutomationApi struct {
	controller *AutomationController
	config     *config.Config
}

func NewAutomationApi(controller *AutomationController, config *config.Config) *AutomationApi {
	return &AutomationApi{
		controller: controller,
		config:     config,
	}
}

func (h *AutomationApi) Setup(app *fiber.App) {
	group := app.Group("/api/automation", middleware.AuthMiddleware(h.config.SkipAuth), middleware.AdminOnly())

	group.Get("/rules", h.controller.List)
	group.Get("/rules/:id", h.controller.Get)
	group.Post("/rules", h.controller.Create)
	group.Put("/rules/:id", h.controller.Update)
	group.Delete("/rules/:id", h.controller.Delete)
}
