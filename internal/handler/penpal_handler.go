package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tegami/tegami-backend/internal/common"
	"github.com/tegami/tegami-backend/internal/domain"
	"github.com/tegami/tegami-backend/internal/service"
)

// PenpalHandler handles penpal connections and the letters exchanged over them
type PenpalHandler struct {
	penpals service.PenpalService
	letters service.PenpalLetterService
}

// NewPenpalHandler creates a new PenpalHandler
func NewPenpalHandler(penpals service.PenpalService, letters service.PenpalLetterService) *PenpalHandler {
	return &PenpalHandler{penpals: penpals, letters: letters}
}

// ListPenpals handles GET /api/penpals/:userId
func (h *PenpalHandler) ListPenpals(c *gin.Context) {
	userID, err := resolveCaller(c, c.Param("userId"))
	if err != nil {
		common.HandleError(c, err, "")
		return
	}

	penpals, err := h.penpals.ListForUser(c.Request.Context(), userID)
	if err != nil {
		common.HandleError(c, err, "Failed to fetch penpals")
		return
	}
	c.JSON(http.StatusOK, penpals)
}

// ListRequests handles GET /api/penpals/:userId/requests
func (h *PenpalHandler) ListRequests(c *gin.Context) {
	userID, err := resolveCaller(c, c.Param("userId"))
	if err != nil {
		common.HandleError(c, err, "")
		return
	}

	requests, err := h.penpals.ListPendingRequestsFor(c.Request.Context(), userID)
	if err != nil {
		common.HandleError(c, err, "Failed to fetch penpal requests")
		return
	}
	c.JSON(http.StatusOK, requests)
}

// RequestDetails handles GET /api/penpals/request/:id/details
func (h *PenpalHandler) RequestDetails(c *gin.Context) {
	details, err := h.penpals.GetRequestDetails(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.HandleError(c, err, "Failed to fetch request details")
		return
	}
	c.JSON(http.StatusOK, details)
}

// CreateRequest handles POST /api/penpals
func (h *PenpalHandler) CreateRequest(c *gin.Context) {
	var req domain.PenpalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	initiator, err := resolveCaller(c, req.User1ID)
	if err != nil {
		common.HandleError(c, err, "")
		return
	}

	conn, err := h.penpals.RequestConnection(c.Request.Context(), initiator, req.User2ID)
	if err != nil {
		common.HandleError(c, err, "Failed to send penpal request")
		return
	}
	c.JSON(http.StatusCreated, conn)
}

// AcceptRequest handles PUT /api/penpals/:id/accept
func (h *PenpalHandler) AcceptRequest(c *gin.Context) {
	h.answer(c, h.penpals.AcceptConnection, "Failed to accept penpal request")
}

// DeclineRequest handles PUT /api/penpals/:id/decline
func (h *PenpalHandler) DeclineRequest(c *gin.Context) {
	h.answer(c, h.penpals.DeclineConnection, "Failed to decline penpal request")
}

func (h *PenpalHandler) answer(
	c *gin.Context,
	fn func(ctx context.Context, connectionID, userID string) (*domain.PenpalConnection, error),
	failure string,
) {
	var req domain.PenpalActionRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		bindError(c, err)
		return
	}

	userID, err := resolveCaller(c, req.UserID)
	if err != nil {
		common.HandleError(c, err, "")
		return
	}

	conn, err := fn(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		common.HandleError(c, err, failure)
		return
	}
	c.JSON(http.StatusOK, conn)
}

// ListLetters handles GET /api/penpals/:userId/letters?type=inbox|outbox
func (h *PenpalHandler) ListLetters(c *gin.Context) {
	userID, err := resolveCaller(c, c.Param("userId"))
	if err != nil {
		common.HandleError(c, err, "")
		return
	}

	letters, err := h.letters.Mailbox(c.Request.Context(), userID, domain.MailboxType(c.Query("type")))
	if err != nil {
		common.HandleError(c, err, "Failed to fetch letters")
		return
	}
	c.JSON(http.StatusOK, letters)
}

// SendLetter handles POST /api/penpals/letters
func (h *PenpalHandler) SendLetter(c *gin.Context) {
	var req domain.SendLetterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	from, err := resolveCaller(c, req.FromUserID)
	if err != nil {
		common.HandleError(c, err, "")
		return
	}
	req.FromUserID = from

	letter, err := h.letters.Send(c.Request.Context(), &req)
	if err != nil {
		common.HandleError(c, err, "Failed to send letter")
		return
	}
	c.JSON(http.StatusCreated, letter)
}

// MarkRead handles PUT /api/penpals/letters/:id/read
func (h *PenpalHandler) MarkRead(c *gin.Context) {
	var req domain.PenpalActionRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		bindError(c, err)
		return
	}

	userID, err := resolveCaller(c, req.UserID)
	if err != nil {
		common.HandleError(c, err, "")
		return
	}

	letter, err := h.letters.MarkRead(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		common.HandleError(c, err, "Failed to mark letter as read")
		return
	}
	c.JSON(http.StatusOK, letter)
}
