package handlers

import (
	"encoding/json"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	config "github.com/campflowhq/campflow/configs"
	"github.com/campflowhq/campflow/internal/service"
	"github.com/campflowhq/campflow/internal/transfer"
	"github.com/campflowhq/campflow/pkg/utils"
)

const signatureHeader = "X-Webhook-Signature"

type WebhookHandler struct {
	s   service.GenerationService
	cfg config.Config
}

func NewWebhookHandler(cfg config.Config, service service.GenerationService) *WebhookHandler {
	return &WebhookHandler{s: service, cfg: cfg}
}

// GenerationCallback receives workflow completion callbacks. The signature
// is checked over the raw body before any field is parsed; nothing is
// mutated on a failed check.
func (h *WebhookHandler) GenerationCallback(c *fiber.Ctx) error {
	body := c.Body()
	signature := c.Get(signatureHeader)

	if !utils.VerifySignature(body, h.cfg.Workflows.WebhookSecret, signature) {
		slog.Warn("rejected webhook with invalid signature", "ip", c.IP())
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid signature"})
	}

	var callback transfer.GenerationCallback
	if err := json.Unmarshal(body, &callback); err != nil {
		slog.Warn("rejected malformed webhook payload", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Malformed payload"})
	}
	if callback.JobID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "jobId is required"})
	}

	if err := h.s.ApplyWebhook(c.Context(), &callback); err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
}
