package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tegami/tegami-backend/internal/common"
	"github.com/tegami/tegami-backend/internal/domain"
	"github.com/tegami/tegami-backend/internal/service"
)

// multipart framing allowance on top of the file limit
const multipartOverhead = 1 << 20

// AudioHandler handles voice memories
type AudioHandler struct {
	service   service.AudioService
	maxUpload int64
}

// NewAudioHandler creates a new AudioHandler
func NewAudioHandler(service service.AudioService, maxUpload int64) *AudioHandler {
	return &AudioHandler{service: service, maxUpload: maxUpload}
}

// ListMemories handles GET /api/audio/:userId
func (h *AudioHandler) ListMemories(c *gin.Context) {
	userID, err := resolveCaller(c, c.Param("userId"))
	if err != nil {
		common.HandleError(c, err, "")
		return
	}

	memories, err := h.service.ListByUser(c.Request.Context(), userID)
	if err != nil {
		common.HandleError(c, err, "Failed to fetch audio memories")
		return
	}
	c.JSON(http.StatusOK, memories)
}

// CreateMemory handles POST /api/audio, either multipart with an "audio" file
// part or JSON carrying an already hosted audio_url
func (h *AudioHandler) CreateMemory(c *gin.Context) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		h.createFromUpload(c)
		return
	}

	var req domain.AudioMemoryRequest
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

	memory, err := h.service.CreateFromURL(c.Request.Context(), &req)
	if err != nil {
		common.HandleError(c, err, "Failed to save audio memory")
		return
	}
	c.JSON(http.StatusCreated, memory)
}

func (h *AudioHandler) createFromUpload(c *gin.Context) {
	if h.maxUpload > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload+multipartOverhead)
	}

	fileHeader, err := c.FormFile("audio")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			common.ErrorResponse(c, http.StatusRequestEntityTooLarge, "Audio file is too large")
			return
		}
		bindError(c, fmt.Errorf("audio file is required"))
		return
	}

	req := domain.AudioMemoryRequest{
		UserID: c.PostForm("user_id"),
		Title:  c.PostForm("title"),
	}
	if desc := c.PostForm("description"); desc != "" {
		req.Description = &desc
	}
	if raw := c.PostForm("duration"); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil || d < 0 {
			bindError(c, fmt.Errorf("duration must be a non-negative integer"))
			return
		}
		req.DurationSeconds = &d
	}

	userID, err := resolveCaller(c, req.UserID)
	if err != nil {
		common.HandleError(c, err, "")
		return
	}
	req.UserID = userID

	file, err := fileHeader.Open()
	if err != nil {
		common.HandleError(c, err, "Failed to read audio file")
		return
	}
	defer file.Close()

	memory, err := h.service.CreateFromUpload(c.Request.Context(), &req, &domain.AudioUpload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Body:        file,
	})
	if err != nil {
		common.HandleError(c, err, "Failed to upload audio memory")
		return
	}
	c.JSON(http.StatusCreated, memory)
}

// DeleteMemory handles DELETE /api/audio/:id?user_id=
func (h *AudioHandler) DeleteMemory(c *gin.Context) {
	userID, err := resolveCaller(c, c.Query("user_id"))
	if err != nil {
		common.HandleError(c, err, "")
		return
	}

	if err := h.service.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		common.HandleError(c, err, "Failed to delete audio memory")
		return
	}
	c.Status(http.StatusNoContent)
}
