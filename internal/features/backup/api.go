package backup

import (
	"go-helpdesk/internal/config"
	"go-helpdesk/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type BackupApi struct {
	controller *BackupController
	config     *config.Config
}

func NewBackupApi(controller *BackupController, config *config.Config) *BackupApi {
	return &BackupApi{
		controller: controller,
		config:     config,
	}
}

func (h *BackupApi) Setup(app *fiber.App) {
	group := app.Group("/api/backups", middleware.AuthMiddleware(h.config.SkipAuth), middleware.AdminOnly())

	group.Get("/", h.controller.ListBackups)
	group.Get("/runs", h.controller.ListRuns)
	group.Post("/run", h.controller.Run)
}
