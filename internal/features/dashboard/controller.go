package dashboard

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type DashboardController struct {
	service DashboardService
}

func NewDashboardController(service DashboardService) *DashboardController {
	return &DashboardController{service: service}
}

func (c *DashboardController) GetStats(ctx *fiber.Ctx) error {
	days, _ := strconv.Atoi(ctx.Query("trend_days", "14"))

	stats, err := c.service.GetStats(ctx.Context(), days)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(stats)
}
