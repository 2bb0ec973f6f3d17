package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tegami/tegami-backend/internal/common"
	"github.com/tegami/tegami-backend/internal/domain"
	"github.com/tegami/tegami-backend/internal/service"
)

// JournalHandler handles the private mood journal
type JournalHandler struct {
	service service.JournalService
}

// NewJournalHandler creates a new JournalHandler
func NewJournalHandler(service service.JournalService) *JournalHandler {
	return &JournalHandler{service: service}
}

// ListEntries handles GET /api/journal/:userId
func (h *JournalHandler) ListEntries(c *gin.Context) {
	userID, err := resolveCaller(c, c.Param("userId"))
	if err != nil {
		common.HandleError(c, err, "")
		return
	}

	entries, err := h.service.ListByUser(c.Request.Context(), userID)
	if err != nil {
		common.HandleError(c, err, "Failed to fetch journal entries")
		return
	}
	c.JSON(http.StatusOK, entries)
}

// MoodStats handles GET /api/journal/:userId/moods
func (h *JournalHandler) MoodStats(c *gin.Context) {
	userID, err := resolveCaller(c, c.Param("userId"))
	if err != nil {
		common.HandleError(c, err, "")
		return
	}

	stats, err := h.service.MoodStats(c.Request.Context(), userID)
	if err != nil {
		common.HandleError(c, err, "Failed to fetch mood statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Moods handles GET /api/journal/moods
func (h *JournalHandler) Moods(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Moods())
}

// CreateEntry handles POST /api/journal
func (h *JournalHandler) CreateEntry(c *gin.Context) {
	var req domain.CreateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	userID, err := resolveCaller(c, req.UserID)
	if err != nil {
		common.HandleError(c, err, "")
		return
	}
	req.UserID = userID

	entry, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		common.HandleError(c, err, "Failed to create journal entry")
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// DeleteEntry handles DELETE /api/journal/:id?user_id=
func (h *JournalHandler) DeleteEntry(c *gin.Context) {
	userID, err := resolveCaller(c, c.Query("user_id"))
	if err != nil {
		common.HandleError(c, err, "")
		return
	}

	if err := h.service.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		common.HandleError(c, err, "Failed to delete journal entry")
		return
	}
	c.Status(http.StatusNoContent)
}
