package controllers

import (
	"github.com/gofiber/fiber/v2"
	fiberws "github.com/gofiber/websocket/v2"

	"classtrack_go/middleware"
	"classtrack_go/services"
)

type WebSocketController struct{}

// UpgradeCheck gates the /ws route: the token arrives as a query parameter
// because browsers cannot set headers on websocket dials. The resolved
// teacher id is stashed for the upgraded handler.
func (wsc *WebSocketController) UpgradeCheck(c *fiber.Ctx) error {
	if !fiberws.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	token := c.Query("token")
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	teacher, err := middleware.ParseToken(token)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	c.Locals("ws_teacher_id", teacher.ID)
	return c.Next()
}

// Handle runs the websocket session against the notification hub.
func (wsc *WebSocketController) Handle() fiber.Handler {
	return fiberws.New(func(conn *fiberws.Conn) {
		teacherID, ok := conn.Locals("ws_teacher_id").(uint)
		if !ok {
			conn.Close()
			return
		}

		hub := services.GetHub()
		if hub == nil {
			conn.Close()
			return
		}

		hub.ServeConn(conn, teacherID)
	})
}
