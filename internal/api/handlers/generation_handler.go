package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campflowhq/campflow/internal/models"
	"github.com/campflowhq/campflow/internal/service"
	"github.com/campflowhq/campflow/internal/transfer"
)

type GenerationHandler struct {
	s service.GenerationService
}

func NewGenerationHandler(service service.GenerationService) *GenerationHandler {
	return &GenerationHandler{s: service}
}

// GenerateContent accepts the request and returns before the provider runs.
func (h *GenerationHandler) GenerateContent(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.GenerationRequest
	if err := parseBody(c, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	job, err := h.s.Dispatch(c.Context(), userID, &req)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"job_id": job.ID,
		"status": models.ContentStatusGenerating,
	})
}

func (h *GenerationHandler) ListJobs(c *fiber.Ctx) error {
	userID := GetUserID(c)
	jobID := c.QueryInt("id", 0)

	if jobID != 0 {
		job, err := h.s.JobInfo(c.Context(), userID, int64(jobID))
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusOK).JSON(job)
	}

	contentID := c.QueryInt("content_id", 0)
	jobs, err := h.s.ListJobs(c.Context(), userID, int64(contentID))
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(jobs)
}
