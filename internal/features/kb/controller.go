package kb

import (
	"strconv"

	"go-helpdesk/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ArticleController struct {
	service ArticleService
}

func NewArticleController(service ArticleService) *ArticleController {
	return &ArticleController{service: service}
}

func (c *ArticleController) Create(ctx *fiber.Ctx) error {
	var article Article
	if err := ctx.BodyParser(&article); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if claims, ok := ctx.Locals(utils.UserClaimsKey).(*utils.UserClaims); ok {
		if id, err := primitive.ObjectIDFromHex(claims.UserID); err == nil {
			article.CreatedBy = id
		}
	}

	if err := c.service.CreateArticle(ctx.Context(), &article); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(article)
}

func (c *ArticleController) List(ctx *fiber.Ctx) error {
	page, _ := strconv.ParseInt(ctx.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(ctx.Query("limit", "20"), 10, 64)

	filter := map[string]interface{}{}
	for _, key := range []string{"category", "tag", "published", "search"} {
		if v := ctx.Query(key); v != "" {
			filter[key] = v
		}
	}

	articles, total, err := c.service.ListArticles(ctx.Context(), filter, page, limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{
		"data":  articles,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

func (c *ArticleController) Get(ctx *fiber.Ctx) error {
	article, err := c.service.GetArticle(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(article)
}

func (c *ArticleController) GetBySlug(ctx *fiber.Ctx) error {
	article, err := c.service.GetArticleBySlug(ctx.Context(), ctx.Params("slug"))
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(article)
}

func (c *ArticleController) Update(ctx *fiber.Ctx) error {
	var updates map[string]interface{}
	if err := ctx.BodyParser(&updates); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.service.UpdateArticle(ctx.Context(), ctx.Params("id"), updates); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"status": "success"})
}

func (c *ArticleController) Delete(ctx *fiber.Ctx) error {
	if err := c.service.DeleteArticle(ctx.Context(), ctx.Params("id")); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"status": "success"})
}

func (c *ArticleController) Categories(ctx *fiber.Ctx) error {
	categories, err := c.service.ListCategories(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"data": categories})
}
