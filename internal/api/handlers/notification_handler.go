package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campflowhq/campflow/internal/service"
)

type NotificationHandler struct {
	s service.NotificationService
}

func NewNotificationHandler(service service.NotificationService) *NotificationHandler {
	return &NotificationHandler{s: service}
}

func (h *NotificationHandler) ListNotifications(c *fiber.Ctx) error {
	userID := GetUserID(c)

	notifications, err := h.s.List(c.Context(), userID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(notifications)
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	userID := GetUserID(c)
	notificationID := c.QueryInt("id", 0)

	if err := h.s.MarkRead(c.Context(), userID, int64(notificationID)); err != nil {
		return serviceError(c, err)
	}

	return c.SendStatus(fiber.StatusOK)
}
