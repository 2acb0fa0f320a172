package settings

import (
	"github.com/gofiber/fiber/v2"
)

type SettingsController struct {
	Service SettingsService
}

func NewSettingsController(service SettingsService) *SettingsController {
	return &SettingsController{Service: service}
}

func (ctrl *SettingsController) GetEmailConfig(c *fiber.Ctx) error {
	config, err := ctrl.Service.GetEmailConfig(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if config == nil {
		return c.JSON(fiber.Map{})
	}
	return c.JSON(config)
}

func (ctrl *SettingsController) UpdateEmailConfig(c *fiber.Ctx) error {
	var config EmailConfig
	if err := c.BodyParser(&config); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := ctrl.Service.UpdateEmailConfig(c.UserContext(), config); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": "success"})
}

func (ctrl *SettingsController) GetGeneralConfig(c *fiber.Ctx) error {
	config, err := ctrl.Service.GetGeneralConfig(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(config)
}

func (ctrl *SettingsController) UpdateGeneralConfig(c *fiber.Ctx) error {
	var config GeneralConfig
	if err := c.BodyParser(&config); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := ctrl.Service.UpdateGeneralConfig(c.UserContext(), config); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": "success"})
}

func (ctrl *SettingsController) GetBackupConfig(c *fiber.Ctx) error {
	config, err := ctrl.Service.GetBackupConfig(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(config)
}

func (ctrl *SettingsController) UpdateBackupConfig(c *fiber.Ctx) error {
	var config BackupConfig
	if err := c.BodyParser(&config); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := ctrl.Service.UpdateBackupConfig(c.UserContext(), config); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": "success"})
}
