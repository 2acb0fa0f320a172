package user

import (
	"go-helpdesk/internal/config"
	"go-helpdesk/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type UserApi struct {
	controller *UserController
	config     *config.Config
}

func NewUserApi(controller *UserController, config *config.Config) *UserApi {
	return &UserApi{
		controller: controller,
		config:     config,
	}
}

func (h *UserApi) Setup(app *fiber.App) {
	users := app.Group("/api/users", middleware.AuthMiddleware(h.config.SkipAuth))

	users.Get("/", h.controller.List)
	users.Get("/:id", h.controller.Get)
	users.Post("/", middleware.AdminOnly(), h.controller.Create)
	users.Put("/:id", middleware.AdminOnly(), h.controller.Update)
	users.Delete("/:id", middleware.AdminOnly(), h.controller.Delete)
}
