package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tegami/tegami-backend/internal/common"
	"github.com/tegami/tegami-backend/internal/domain"
	"github.com/tegami/tegami-backend/internal/service"
)

// LetterHandler handles the public letter wall
type LetterHandler struct {
	service service.LetterService
}

// NewLetterHandler creates a new LetterHandler
func NewLetterHandler(service service.LetterService) *LetterHandler {
	return &LetterHandler{service: service}
}

// ListLetters handles GET /api/letters
func (h *LetterHandler) ListLetters(c *gin.Context) {
	letters, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		common.HandleError(c, err, "Failed to fetch letters")
		return
	}
	c.JSON(http.StatusOK, letters)
}

// GetUserLetter handles GET /api/letters/user/:userId
func (h *LetterHandler) GetUserLetter(c *gin.Context) {
	letter, err := h.service.GetByUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		common.HandleError(c, err, "Failed to fetch letter")
		return
	}
	c.JSON(http.StatusOK, letter)
}

// CreateLetter handles POST /api/letters
func (h *LetterHandler) CreateLetter(c *gin.Context) {
	var req domain.LetterRequest
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

	letter, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		common.HandleError(c, err, "Failed to create letter")
		return
	}
	c.JSON(http.StatusCreated, letter)
}

// UpdateLetter handles PUT /api/letters/:id
func (h *LetterHandler) UpdateLetter(c *gin.Context) {
	var req domain.LetterRequest
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

	letter, err := h.service.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		common.HandleError(c, err, "Failed to update letter")
		return
	}
	c.JSON(http.StatusOK, letter)
}
