package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/mroshb/red_social/internal/middleware"
	"github.com/mroshb/red_social/internal/services"
	"github.com/mroshb/red_social/pkg/errors"
	"github.com/mroshb/red_social/pkg/result"
)

type sendFriendRequestBody struct {
	RecipientID uint `json:"recipient_id" binding:"required"`
}

type sendFriendRequestReply struct {
	Sent bool `json:"sent"`
}

type transitionReply struct {
	RequestID uint `json:"id"`
}

// HandleSendFriendRequest sends a request from the caller to recipient_id
func (h *HandlerManager) HandleSendFriendRequest(c *gin.Context) {
	userID, _ := middleware.CurrentUser(c)

	var body sendFriendRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		result.FailWithMessage(c, errors.ErrCodeValidation, "recipient_id is required")
		return
	}

	if _, err := h.UserRepo.GetUserByID(c.Request.Context(), body.RecipientID); err != nil {
		result.Fail(c, err)
		return
	}

	outcome, err := h.Friendship.SendRequest(c.Request.Context(), userID, body.RecipientID)
	if err != nil {
		result.Fail(c, err)
		return
	}

	result.SuccessWithMessage(c, sendFriendRequestReply{Sent: outcome == services.SendResultSent}, outcome.Message())
}

// HandleListPendingRequests lists requests waiting for the caller's answer
func (h *HandlerManager) HandleListPendingRequests(c *gin.Context) {
	userID, _ := middleware.CurrentUser(c)

	pending, err := h.Friendship.ListPendingRequests(c.Request.Context(), userID)
	if err != nil {
		result.Fail(c, err)
		return
	}

	result.Success(c, pending)
}

// HandleAcceptFriendRequest accepts a request addressed to the caller
func (h *HandlerManager) HandleAcceptFriendRequest(c *gin.Context) {
	requestID, ok := h.ownedRequest(c)
	if !ok {
		return
	}

	_, userName := middleware.CurrentUser(c)
	if err := h.Friendship.AcceptRequestErr(c.Request.Context(), requestID, userName); err != nil {
		failTransition(c, err, "friend request could not be accepted")
		return
	}

	result.SuccessWithMessage(c, transitionReply{RequestID: requestID}, "Solicitud aceptada.")
}

// HandleRejectFriendRequest rejects a request addressed to the caller
func (h *HandlerManager) HandleRejectFriendRequest(c *gin.Context) {
	requestID, ok := h.ownedRequest(c)
	if !ok {
		return
	}

	if err := h.Friendship.RejectRequestErr(c.Request.Context(), requestID); err != nil {
		failTransition(c, err, "friend request could not be rejected")
		return
	}

	result.SuccessWithMessage(c, transitionReply{RequestID: requestID}, "Solicitud rechazada.")
}

// failTransition answers 409 for requests that are no longer pending and
// falls back to the error's own status otherwise.
func failTransition(c *gin.Context, err error, message string) {
	if services.NotActionable(err) {
		result.FailWithMessage(c, errors.ErrCodeInvalidState, message)
		return
	}
	result.Fail(c, err)
}

// ownedRequest resolves :id and checks the caller is its recipient. It
// writes the failure reply itself.
func (h *HandlerManager) ownedRequest(c *gin.Context) (uint, bool) {
	requestID, err := idParam(c, "id")
	if err != nil {
		result.Fail(c, err)
		return 0, false
	}

	request, err := h.Friendship.GetRequest(c.Request.Context(), requestID)
	if err != nil {
		result.Fail(c, err)
		return 0, false
	}

	userID, _ := middleware.CurrentUser(c)
	if request.ReceptorID != userID {
		result.FailWithMessage(c, errors.ErrCodeForbidden, "only the recipient can answer this request")
		return 0, false
	}

	return requestID, true
}

// HandleListFriends lists the caller's friends
func (h *HandlerManager) HandleListFriends(c *gin.Context) {
	userID, _ := middleware.CurrentUser(c)

	friends, err := h.Friendship.ListFriends(c.Request.Context(), userID)
	if err != nil {
		result.Fail(c, err)
		return
	}

	result.Success(c, friends)
}

// HandleListFriendRequestNotifications lists the caller's friend request notifications
func (h *HandlerManager) HandleListFriendRequestNotifications(c *gin.Context) {
	userID, _ := middleware.CurrentUser(c)

	notifications, err := h.Friendship.ListFriendRequestNotifications(c.Request.Context(), userID)
	if err != nil {
		result.Fail(c, err)
		return
	}

	result.Success(c, notifications)
}
