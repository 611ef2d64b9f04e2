package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campflowhq/campflow/internal/service"
	"github.com/campflowhq/campflow/internal/transfer"
)

type PublicationHandler struct {
	s service.PublicationService
}

func NewPublicationHandler(service service.PublicationService) *PublicationHandler {
	return &PublicationHandler{s: service}
}

func (h *PublicationHandler) CreatePublication(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.PublicationCreation
	if err := parseBody(c, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	id, err := h.s.Create(c.Context(), userID, &req)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

func (h *PublicationHandler) SchedulePublication(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.ScheduleRequest
	if err := parseBody(c, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := h.s.Schedule(c.Context(), userID, &req); err != nil {
		return serviceError(c, err)
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *PublicationHandler) ListPublications(c *fiber.Ctx) error {
	userID := GetUserID(c)
	contentID := c.QueryInt("content_id", 0)

	if contentID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "content_id is required"})
	}

	pubs, err := h.s.List(c.Context(), userID, int64(contentID))
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(pubs)
}
