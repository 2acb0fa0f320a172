package timesheet

import (
	"time"

	"go-helpdesk/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TimesheetController struct {
	service TimesheetService
}

func NewTimesheetController(service TimesheetService) *TimesheetController {
	return &TimesheetController{service: service}
}

// weekStartParam parses ?week=YYYY-MM-DD, defaulting to the current week's
// Monday.
func weekStartParam(ctx *fiber.Ctx) time.Time {
	if v := ctx.Query("week"); v != "" {
		if parsed, err := time.Parse("2006-01-02", v); err == nil {
			return parsed
		}
	}
	now := time.Now()
	offset := (int(now.Weekday()) + 6) % 7
	monday := now.AddDate(0, 0, -offset)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, monday.Location())
}

func (c *TimesheetController) Create(ctx *fiber.Ctx) error {
	var entry TimeEntry
	if err := ctx.BodyParser(&entry); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if entry.AgentID.IsZero() {
		if claims, ok := ctx.Locals(utils.UserClaimsKey).(*utils.UserClaims); ok {
			if id, err := primitive.ObjectIDFromHex(claims.UserID); err == nil {
				entry.AgentID = id
			}
		}
	}

	if err := c.service.CreateEntry(ctx.Context(), &entry); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(entry)
}

func (c *TimesheetController) ListWeek(ctx *fiber.Ctx) error {
	entries, err := c.service.ListWeek(ctx.Context(), ctx.Query("agent_id"), weekStartParam(ctx))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"data": entries})
}

func (c *TimesheetController) Get(ctx *fiber.Ctx) error {
	entry, err := c.service.GetEntry(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(entry)
}

func (c *TimesheetController) Update(ctx *fiber.Ctx) error {
	var updates map[string]interface{}
	if err := ctx.BodyParser(&updates); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.service.UpdateEntry(ctx.Context(), ctx.Params("id"), updates); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"status": "success"})
}

func (c *TimesheetController) Delete(ctx *fiber.Ctx) error {
	if err := c.service.DeleteEntry(ctx.Context(), ctx.Params("id")); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"status": "success"})
}

func (c *TimesheetController) Export(ctx *fiber.Ctx) error {
	data, filename, err := c.service.ExportWeek(ctx.Context(), ctx.Query("agent_id"), weekStartParam(ctx))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", "attachment; filename="+filename)
	return ctx.Send(data)
}
