package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campflowhq/campflow/internal/repository"
)

type AccountHandler struct {
	ac repository.SocialAccountRepository
}

func NewAccountHandler(ac repository.SocialAccountRepository) *AccountHandler {
	return &AccountHandler{ac: ac}
}

func (h *AccountHandler) ListSocialAccounts(c *fiber.Ctx) error {
	userID := GetUserID(c)

	accounts, err := h.ac.ListByUserID(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Unable to list accounts"})
	}

	return c.Status(fiber.StatusOK).JSON(accounts)
}
