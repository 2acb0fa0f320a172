package kb

import (
	"go-helpdesk/internal/config"
	"go-helpdesk/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type KbApi struct {
	controller *ArticleController
	config     *config.Config
}

func NewKbApi(controller *ArticleController, config *config.Config) *KbApi {
	return &KbApi{
		controller: controller,
		config:     config,
	}
}

func (h *KbApi) Setup(app *fiber.App) {
	group := app.Group("/api/kb", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/articles", h.controller.List)
	group.Get("/articles/categories", h.controller.Categories)
	group.Get("/articles/slug/:slug", h.controller.GetBySlug)
	group.Get("/articles/:id", h.controller.Get)
	group.Post("/articles", h.controller.Create)
	group.Put("/articles/:id", h.controller.Update)
	group.Delete("/articles/:id", middleware.AdminOnly(), h.controller.Delete)
}
