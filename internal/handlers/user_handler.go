package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/mroshb/red_social/internal/security"
	"github.com/mroshb/red_social/pkg/errors"
	"github.com/mroshb/red_social/pkg/result"
)

type issueTokenBody struct {
	UserID uint `json:"user_id" binding:"required"`
}

type issueTokenReply struct {
	Token string `json:"token"`
}

// HandleGetProfile returns the public profile of :id
func (h *HandlerManager) HandleGetProfile(c *gin.Context) {
	userID, err := idParam(c, "id")
	if err != nil {
		result.Fail(c, err)
		return
	}

	profile, err := h.Profiles.GetProfile(c.Request.Context(), userID)
	if err != nil {
		result.Fail(c, err)
		return
	}

	result.Success(c, profile)
}

// HandleIssueToken signs a token for an existing user. Login belongs to the
// external user management system; this endpoint is only routed outside
// production.
func (h *HandlerManager) HandleIssueToken(c *gin.Context) {
	var body issueTokenBody
	if err := c.ShouldBindJSON(&body); err != nil {
		result.FailWithMessage(c, errors.ErrCodeValidation, "user_id is required")
		return
	}

	user, err := h.UserRepo.GetUserByID(c.Request.Context(), body.UserID)
	if err != nil {
		result.Fail(c, err)
		return
	}

	token, err := security.GenerateJWT(user.ID, user.Nombre, h.Config.JWTSecret, h.Config.TokenTTL)
	if err != nil {
		result.Fail(c, errors.Wrap(err, errors.ErrCodeInternalError, "failed to sign token"))
		return
	}

	result.Success(c, issueTokenReply{Token: token})
}
