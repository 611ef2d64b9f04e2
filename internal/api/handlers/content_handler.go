package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campflowhq/campflow/internal/service"
	"github.com/campflowhq/campflow/internal/status"
	"github.com/campflowhq/campflow/internal/transfer"
)

type ContentHandler struct {
	s service.ContentService
}

func NewContentHandler(service service.ContentService) *ContentHandler {
	return &ContentHandler{s: service}
}

func (h *ContentHandler) CreateContent(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.ContentCreation
	if err := parseBody(c, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	id, err := h.s.Create(c.Context(), userID, &req)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

func (h *ContentHandler) ListContent(c *fiber.Ctx) error {
	userID := GetUserID(c)
	contentID := c.QueryInt("id", 0)

	if contentID != 0 {
		item, err := h.s.Info(c.Context(), userID, int64(contentID))
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusOK).JSON(item)
	}

	campaignID := c.QueryInt("campaign_id", 0)
	if campaignID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "campaign_id is required"})
	}

	items, err := h.s.List(c.Context(), userID, int64(campaignID))
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(items)
}

func (h *ContentHandler) TransitionContent(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.TransitionRequest
	if err := parseBody(c, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	item, err := h.s.Transition(c.Context(), userID, req.ContentID, status.Action(req.Action))
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(item)
}

func (h *ContentHandler) TransitionContentBulk(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.BulkTransitionRequest
	if err := parseBody(c, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	results := h.s.TransitionBulk(c.Context(), userID, req.ContentIDs, status.Action(req.Action))
	return c.Status(fiber.StatusOK).JSON(results)
}
