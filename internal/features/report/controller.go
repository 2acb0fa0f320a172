package report

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
)

type ReportController struct {
	service ReportService
}

func NewReportController(service ReportService) *ReportController {
	return &ReportController{service: service}
}

func reportRange(ctx *fiber.Ctx) (time.Time, time.Time, error) {
	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now

	if raw := ctx.Query("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return from, to, fmt.Errorf("invalid from date")
		}
		from = parsed
	}
	if raw := ctx.Query("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return from, to, fmt.Errorf("invalid to date")
		}
		to = parsed
	}
	if !to.After(from) {
		return from, to, fmt.Errorf("to must be after from")
	}
	return from, to, nil
}

func sendExport(ctx *fiber.Ctx, data []byte, filename, format string) error {
	contentType := "text/csv"
	if format == "xlsx" {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	ctx.Set("Content-Type", contentType)
	ctx.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	return ctx.Send(data)
}

func (c *ReportController) TicketVolume(ctx *fiber.Ctx) error {
	from, to, err := reportRange(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	format := ctx.Query("format", "json")
	if format == "json" {
		rows, err := c.service.TicketVolume(ctx.Context(), from, to)
		if err != nil {
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return ctx.JSON(fiber.Map{"data": rows})
	}

	data, filename, err := c.service.ExportTicketVolume(ctx.Context(), from, to, format)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return sendExport(ctx, data, filename, format)
}

func (c *ReportController) AgentPerformance(ctx *fiber.Ctx) error {
	from, to, err := reportRange(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	format := ctx.Query("format", "json")
	if format == "json" {
		rows, err := c.service.AgentPerformance(ctx.Context(), from, to)
		if err != nil {
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return ctx.JSON(fiber.Map{"data": rows})
	}

	data, filename, err := c.service.ExportAgentPerformance(ctx.Context(), from, to, format)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return sendExport(ctx, data, filename, format)
}
