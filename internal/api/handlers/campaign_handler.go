package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campflowhq/campflow/internal/service"
	"github.com/campflowhq/campflow/internal/transfer"
)

type CampaignHandler struct {
	s service.CampaignService
}

func NewCampaignHandler(service service.CampaignService) *CampaignHandler {
	return &CampaignHandler{s: service}
}

func (h *CampaignHandler) CreateCampaign(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.CampaignCreation
	if err := parseBody(c, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	id, err := h.s.Create(c.Context(), userID, &req)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

func (h *CampaignHandler) ListCampaigns(c *fiber.Ctx) error {
	userID := GetUserID(c)

	campaigns, err := h.s.List(c.Context(), userID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(campaigns)
}
