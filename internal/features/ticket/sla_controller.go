package ticket

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

type SLAController struct {
	service SLAService
}

func NewSLAController(service SLAService) *SLAController {
	return &SLAController{service: service}
}

func (c *SLAController) CreatePolicy(ctx *fiber.Ctx) error {
	var policy SLAPolicy
	if err := ctx.BodyParser(&policy); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.service.CreatePolicy(ctx.Context(), &policy); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(policy)
}

func (c *SLAController) ListPolicies(ctx *fiber.Ctx) error {
	policies, err := c.service.ListPolicies(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"data": policies})
}

func (c *SLAController) GetPolicy(ctx *fiber.Ctx) error {
	policy, err := c.service.GetPolicy(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(policy)
}

func (c *SLAController) UpdatePolicy(ctx *fiber.Ctx) error {
	var updates map[string]interface{}
	if err := ctx.BodyParser(&updates); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.service.UpdatePolicy(ctx.Context(), ctx.Params("id"), updates); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"status": "success"})
}

func (c *SLAController) DeletePolicy(ctx *fiber.Ctx) error {
	if err := c.service.DeletePolicy(ctx.Context(), ctx.Params("id")); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"status": "success"})
}

func (c *SLAController) GetMetrics(ctx *fiber.Ctx) error {
	to := time.Now()
	from := to.AddDate(0, -1, 0)

	if v := ctx.Query("from"); v != "" {
		if parsed, err := time.Parse(time.RFC3339, v); err == nil {
			from = parsed
		}
	}
	if v := ctx.Query("to"); v != "" {
		if parsed, err := time.Parse(time.RFC3339, v); err == nil {
			to = parsed
		}
	}

	metrics, err := c.service.GetMetrics(ctx.Context(), from, to)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(metrics)
}
