package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/mohitbansal25082006/MannSahay-sub001/internal/dto"
	"github.com/mohitbansal25082006/MannSahay-sub001/internal/models"
	"github.com/mohitbansal25082006/MannSahay-sub001/internal/moderation"
)

// ModerationHandler serves the moderator panel: the flag list, the review
// queue, and the explicit review action.
type ModerationHandler struct {
	engine *moderation.Engine
	flags  *moderation.FlagStore
}

func NewModerationHandler(engine *moderation.Engine, flags *moderation.FlagStore) *ModerationHandler {
	return &ModerationHandler{engine: engine, flags: flags}
}

func (h *ModerationHandler) ListFlags(c *fiber.Ctx) error {
	status := c.Query("status", "")
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	if limit > 100 {
		limit = 100
	}

	flags, total, err := h.flags.List(status, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch flags",
		})
	}

	return c.JSON(fiber.Map{
		"flags":  flags,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

func (h *ModerationHandler) ReviewQueue(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	if limit > 100 {
		limit = 100
	}

	items, total, err := h.engine.ReviewQueue(limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch review queue",
		})
	}

	return c.JSON(fiber.Map{
		"items":  items,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

func (h *ModerationHandler) ReviewContent(c *fiber.Ctx) error {
	contentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid content ID",
		})
	}

	var req dto.ReviewContentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	content, err := h.engine.ReviewContent(c.Context(), contentID, models.ModerationStatus(req.Status), req.Note)
	if err != nil {
		switch {
		case errors.Is(err, moderation.ErrContentNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, moderation.ErrInvalidStatus):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to review content",
		})
	}

	return c.JSON(content)
}
