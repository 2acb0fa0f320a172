package ticket

import (
	"go-helpdesk/internal/config"
	"go-helpdesk/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type TicketApi struct {
	controller    *TicketController
	slaController *SLAController
	config        *config.Config
}

func NewTicketApi(controller *TicketController, slaController *SLAController, config *config.Config) *TicketApi {
	return &TicketApi{
		controller:    controller,
		slaController: slaController,
		config:        config,
	}
}

func (h *TicketApi) Setup(app *fiber.App) {
	tickets := app.Group("/api/tickets", middleware.AuthMiddleware(h.config.SkipAuth))

	tickets.Post("/", h.controller.Create)
	tickets.Get("/", h.controller.List)
	tickets.Get("/overdue", h.controller.ListOverdue)
	tickets.Get("/:id", h.controller.Get)
	tickets.Put("/:id", h.controller.Update)
	tickets.Delete("/:id", middleware.AdminOnly(), h.controller.Delete)
	tickets.Put("/:id/assign", h.controller.Assign)
	tickets.Put("/:id/status", h.controller.ChangeStatus)
	tickets.Post("/:id/comments", h.controller.AddComment)
	tickets.Get("/:id/comments", h.controller.ListComments)

	sla := app.Group("/api/sla-policies", middleware.AuthMiddleware(h.config.SkipAuth))

	sla.Get("/", h.slaController.ListPolicies)
	sla.Get("/metrics", h.slaController.GetMetrics)
	sla.Get("/:id", h.slaController.GetPolicy)
	sla.Post("/", middleware.AdminOnly(), h.slaController.CreatePolicy)
	sla.Put("/:id", middleware.AdminOnly(), h.slaController.UpdatePolicy)
	sla.Delete("/:id", middleware.AdminOnly(), h.slaController.DeletePolicy)
}
