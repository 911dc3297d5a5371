package handlers

import (
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/MathengeNewton/socialCommerce-sub000/internal/service"
	"github.com/MathengeNewton/socialCommerce-sub000/internal/transfer"
	"github.com/gofiber/fiber/v2"
)

type PostHandler struct {
	s service.PublishService
}

func NewPostHandler(service service.PublishService) *PostHandler {
	return &PostHandler{s: service}
}

func (h *PostHandler) CreatePost(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	actorID := GetUserID(c)

	var pc transfer.PostCreation
	if err := c.BodyParser(&pc); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	postID, err := h.s.Create(c.Context(), tenantID, actorID, &pc)
	if err != nil {
		return statusError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"post_id": postID,
	})
}

func (h *PostHandler) PublishPost(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	actorID := GetUserID(c)

	postID, err := postIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid post id",
		})
	}

	post, err := h.s.Publish(c.Context(), tenantID, postID, actorID)
	if err != nil {
		return statusError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(post)
}

func (h *PostHandler) SchedulePost(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	actorID := GetUserID(c)

	postID, err := postIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid post id",
		})
	}

	var req transfer.ScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid scheduled_at, expected RFC 3339",
		})
	}

	post, err := h.s.Schedule(c.Context(), tenantID, postID, scheduledAt, actorID)
	if err != nil {
		return statusError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(post)
}

func (h *PostHandler) CancelPost(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	actorID := GetUserID(c)

	postID, err := postIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid post id",
		})
	}

	post, err := h.s.Cancel(c.Context(), tenantID, postID, actorID)
	if err != nil {
		return statusError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(post)
}

func postIDParam(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}

func statusError(c *fiber.Ctx, err error) error {
	var conflict *service.StateConflictError

	switch {
	case errors.Is(err, service.ErrPostNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrPastSchedule):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &conflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
