package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/SkillNet-official/telegram-reminder-bot/internal/domain"
	"github.com/SkillNet-official/telegram-reminder-bot/internal/service"
	apperrors "github.com/SkillNet-official/telegram-reminder-bot/internal/shared/errors"
	"github.com/SkillNet-official/telegram-reminder-bot/internal/shared/logger"
)

// ReminderHandler handles reminder API requests
type ReminderHandler struct {
	service *service.ReminderService
	log     *logger.Logger
}

// NewReminderHandler creates a new reminder handler
func NewReminderHandler(service *service.ReminderService, log *logger.Logger) *ReminderHandler {
	return &ReminderHandler{
		service: service,
		log:     log,
	}
}

// CreateReminder registers a new reminder
func (h *ReminderHandler) CreateReminder(c *gin.Context) {
	var req domain.CreateReminderRequest
	// BodyWith binding: the rate limit middleware already peeked the body.
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		c.JSON(http.StatusBadRequest, apperrors.NewValidationError("Invalid request", err))
		return
	}

	reminder, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err, "Failed to create reminder")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":      reminder.ID,
		"fire_at": reminder.FireAt,
	})
}

// DeleteReminder removes a reminder and cancels its notifications
func (h *ReminderHandler) DeleteReminder(c *gin.Context) {
	id := c.Param("id")

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err, "Failed to delete reminder")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reminder deleted successfully"})
}

// ListReminders returns an owner's reminders ordered by fire time
func (h *ReminderHandler) ListReminders(c *gin.Context) {
	ownerID := c.Query("owner_id")
	if ownerID == "" {
		c.JSON(http.StatusBadRequest, apperrors.NewValidationError("owner_id is required", nil))
		return
	}

	items, err := h.service.List(c.Request.Context(), ownerID)
	if err != nil {
		h.respondError(c, err, "Failed to list reminders")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items, "total": len(items)})
}

// respondError maps application error codes onto HTTP statuses. User-input
// errors are not system faults and are not logged as errors.
func (h *ReminderHandler) respondError(c *gin.Context, err error, logMsg string) {
	switch apperrors.CodeOf(err) {
	case apperrors.CodeValidation, apperrors.CodeInvalidTimezone, apperrors.CodePastDateTime:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case apperrors.CodeNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.Error(logMsg, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
