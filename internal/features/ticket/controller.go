package ticket

import (
	"strconv"

	"go-helpdesk/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TicketController struct {
	service TicketService
}

func NewTicketController(service TicketService) *TicketController {
	return &TicketController{service: service}
}

func (c *TicketController) Create(ctx *fiber.Ctx) error {
	var t Ticket
	if err := ctx.BodyParser(&t); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.service.CreateTicket(ctx.Context(), &t); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusCreated).JSON(t)
}

func (c *TicketController) List(ctx *fiber.Ctx) error {
	page, _ := strconv.ParseInt(ctx.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(ctx.Query("limit", "20"), 10, 64)
	sortBy := ctx.Query("sort_by", "created_at")
	sortOrder := -1
	if ctx.Query("sort_order") == "asc" {
		sortOrder = 1
	}

	filter := map[string]interface{}{}
	for _, key := range []string{"status", "priority", "channel", "category", "assigned_to", "search", "tag"} {
		if v := ctx.Query(key); v != "" {
			filter[key] = v
		}
	}
	if ctx.Query("unassigned") == "true" {
		filter["unassigned"] = true
	}

	tickets, total, err := c.service.ListTickets(ctx.Context(), filter, page, limit, sortBy, sortOrder)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{
		"data":  tickets,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

func (c *TicketController) Get(ctx *fiber.Ctx) error {
	t, err := c.service.GetTicket(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(t)
}

func (c *TicketController) Update(ctx *fiber.Ctx) error {
	var updates map[string]interface{}
	if err := ctx.BodyParser(&updates); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.service.UpdateTicket(ctx.Context(), ctx.Params("id"), updates); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"status": "success"})
}

func (c *TicketController) Delete(ctx *fiber.Ctx) error {
	if err := c.service.DeleteTicket(ctx.Context(), ctx.Params("id")); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"status": "success"})
}

func (c *TicketController) Assign(ctx *fiber.Ctx) error {
	var body struct {
		AssigneeID string `json:"assignee_id"`
	}
	if err := ctx.BodyParser(&body); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	var err error
	if body.AssigneeID == "" {
		err = c.service.UnassignTicket(ctx.Context(), ctx.Params("id"))
	} else {
		err = c.service.AssignTicket(ctx.Context(), ctx.Params("id"), body.AssigneeID)
	}
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"status": "success"})
}

func (c *TicketController) ChangeStatus(ctx *fiber.Ctx) error {
	var body struct {
		Status  TicketStatus `json:"status"`
		Comment string       `json:"comment"`
	}
	if err := ctx.BodyParser(&body); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.service.ChangeStatus(ctx.Context(), ctx.Params("id"), body.Status, body.Comment); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"status": "success"})
}

func (c *TicketController) AddComment(ctx *fiber.Ctx) error {
	ticketID, err := primitive.ObjectIDFromHex(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ticket ID"})
	}

	var comment TicketComment
	if err := ctx.BodyParser(&comment); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	comment.TicketID = ticketID
	comment.AuthorType = CommentAuthorUser

	if claims, ok := ctx.Locals(utils.UserClaimsKey).(*utils.UserClaims); ok {
		if id, err := primitive.ObjectIDFromHex(claims.UserID); err == nil {
			comment.CreatedBy = id
		}
	}

	if err := c.service.AddComment(ctx.Context(), &comment); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(comment)
}

func (c *TicketController) ListComments(ctx *fiber.Ctx) error {
	includeInternal := ctx.Query("include_internal", "true") == "true"
	comments, err := c.service.ListComments(ctx.Context(), ctx.Params("id"), includeInternal)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"data": comments})
}

func (c *TicketController) ListOverdue(ctx *fiber.Ctx) error {
	tickets, err := c.service.FindOverdue(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"data": tickets})
}
