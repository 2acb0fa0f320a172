package timesheet

import (
	"go-helpdesk/internal/config"
	"go-helpdesk/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type TimesheetApi struct {
	controller *TimesheetController
	config     *config.Config
}

func NewTimesheetApi(controller *TimesheetController, config *config.Config) *TimesheetApi {
	return &TimesheetApi{
		controller: controller,
		config:     config,
	}
}

func (h *TimesheetApi) Setup(app *fiber.App) {
	group := app.Group("/api/timesheets", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Post("/", h.controller.Create)
	group.Get("/", h.controller.ListWeek)
	group.Get("/export", h.controller.Export)
	group.Get("/:id", h.controller.Get)
	group.Put("/:id", h.controller.Update)
	group.Delete("/:id", h.controller.Delete)
}
