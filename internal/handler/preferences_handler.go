package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SkillNet-official/telegram-reminder-bot/internal/domain"
	"github.com/SkillNet-official/telegram-reminder-bot/internal/service"
	apperrors "github.com/SkillNet-official/telegram-reminder-bot/internal/shared/errors"
	"github.com/SkillNet-official/telegram-reminder-bot/internal/shared/logger"
)

// PreferencesHandler handles timezone preference requests
type PreferencesHandler struct {
	service *service.ReminderService
	log     *logger.Logger
}

// NewPreferencesHandler creates a new preferences handler
func NewPreferencesHandler(service *service.ReminderService, log *logger.Logger) *PreferencesHandler {
	return &PreferencesHandler{
		service: service,
		log:     log,
	}
}

// GetTimezone returns an owner's timezone preference
func (h *PreferencesHandler) GetTimezone(c *gin.Context) {
	ownerID := c.Param("owner_id")

	tz, err := h.service.GetTimezone(c.Request.Context(), ownerID)
	if err != nil {
		h.log.Error("Failed to get timezone preference", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"owner_id": ownerID, "timezone": tz})
}

// UpdateTimezone sets an owner's timezone preference
func (h *PreferencesHandler) UpdateTimezone(c *gin.Context) {
	ownerID := c.Param("owner_id")

	var req domain.SetTimezoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apperrors.NewValidationError("Invalid request", err))
		return
	}

	if err := h.service.SetTimezone(c.Request.Context(), ownerID, req.Timezone); err != nil {
		if apperrors.CodeOf(err) == apperrors.CodeInvalidTimezone {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.log.Error("Failed to update timezone preference", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"owner_id": ownerID, "timezone": req.Timezone})
}
