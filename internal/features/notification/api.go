package notification

import (
	"go-helpdesk/internal/config"
	"go-helpdesk/internal/middleware"
	"go-helpdesk/pkg/utils"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type NotificationApi struct {
	controller *NotificationController
	config     *config.Config
}

func NewNotificationApi(controller *NotificationController, config *config.Config) *NotificationApi {
	return &NotificationApi{
		controller: controller,
		config:     config,
	}
}

func (h *NotificationApi) Setup(app *fiber.App) {
	group := app.Group("/api/notifications", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/", h.controller.List)
	group.Get("/unread-count", h.controller.GetUnreadCount)
	group.Put("/:id/read", h.controller.MarkAsRead)
	group.Post("/mark-all-read", h.controller.MarkAllAsRead)
	group.Get("/settings", h.controller.GetSettings)
	group.Put("/settings", h.controller.UpdateSettings)

	// Websocket upgrade carries the user through Locals for the hub.
	app.Get("/api/notifications/stream",
		middleware.AuthMiddleware(h.config.SkipAuth),
		func(c *fiber.Ctx) error {
			if claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims); ok {
				c.Locals("userID", claims.UserID)
			}
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		},
		websocket.New(h.controller.HandleStream))
}
