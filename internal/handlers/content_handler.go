package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/mohitbansal25082006/MannSahay-sub001/internal/dto"
	"github.com/mohitbansal25082006/MannSahay-sub001/internal/middleware"
	"github.com/mohitbansal25082006/MannSahay-sub001/internal/models"
	"github.com/mohitbansal25082006/MannSahay-sub001/internal/moderation"
)

type ContentHandler struct {
	engine *moderation.Engine
}

func NewContentHandler(engine *moderation.Engine) *ContentHandler {
	return &ContentHandler{engine: engine}
}

func (h *ContentHandler) CreateContent(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.CreateContentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	content, err := h.engine.CreateContent(c.Context(), userID, models.ContentKind(req.Kind), req.Body, req.Language)
	if err != nil {
		if errors.Is(err, moderation.ErrBodyRequired) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to create content",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(content)
}

func (h *ContentHandler) GetContent(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	contentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid content ID",
		})
	}

	content, err := h.engine.GetContent(userID, contentID)
	if err != nil {
		if errors.Is(err, moderation.ErrContentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch content",
		})
	}

	return c.JSON(content)
}

func (h *ContentHandler) EditContent(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	contentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid content ID",
		})
	}

	var req dto.EditContentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	content, err := h.engine.EditContent(c.Context(), userID, contentID, req.Body)
	if err != nil {
		switch {
		case errors.Is(err, moderation.ErrContentNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, moderation.ErrNotAuthor):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, moderation.ErrBodyRequired):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to update content",
		})
	}

	return c.JSON(content)
}

func (h *ContentHandler) ReportContent(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.ReportContentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	result, err := h.engine.ReportContent(c.Context(), userID, req.ContentID, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, moderation.ErrReasonRequired), errors.Is(err, moderation.ErrTargetRequired):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, moderation.ErrContentNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to submit report",
		})
	}

	// Duplicate reports are a benign outcome, not an error.
	if result.AlreadyFlagged {
		return c.JSON(result)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}
