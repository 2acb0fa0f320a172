package backup

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type BackupController struct {
	service BackupService
}

func NewBackupController(service BackupService) *BackupController {
	return &BackupController{service: service}
}

func (c *BackupController) Run(ctx *fiber.Ctx) error {
	run, err := c.service.RunBackup(ctx.Context(), TriggerManual)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
			"run":   run,
		})
	}
	return ctx.JSON(run)
}

func (c *BackupController) ListRuns(ctx *fiber.Ctx) error {
	limit, _ := strconv.ParseInt(ctx.Query("limit", "20"), 10, 64)

	runs, err := c.service.ListRuns(ctx.Context(), limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"data": runs})
}

func (c *BackupController) ListBackups(ctx *fiber.Ctx) error {
	dirs, err := c.service.ListBackups()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"data": dirs})
}
