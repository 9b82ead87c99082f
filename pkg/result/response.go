package result

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mroshb/red_social/pkg/errors"
)

// Response is the JSON envelope of every API reply
type Response struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

const CodeSuccess = "OK"

// Success returns a 200 with data
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: CodeSuccess, Message: "success", Data: data})
}

// SuccessWithMessage returns a 200 with a custom message
func SuccessWithMessage(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, Response{Code: CodeSuccess, Message: message, Data: data})
}

// Fail aborts with the HTTP status matching the AppError code
func Fail(c *gin.Context, err error) {
	code, message := errors.ErrCodeInternalError, "internal error"

	// Internal causes stay in the logs, never in the reply.
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) && appErr.Code != errors.ErrCodeInternalError {
		code, message = appErr.Code, appErr.Message
	}
	FailWithMessage(c, code, message)
}

// FailWithMessage aborts with an explicit code and message
func FailWithMessage(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(StatusFor(code), Response{Code: code, Message: message})
}

// StatusFor maps AppError codes to HTTP statuses
func StatusFor(code string) int {
	switch code {
	case errors.ErrCodeValidation:
		return http.StatusBadRequest
	case errors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case errors.ErrCodeForbidden:
		return http.StatusForbidden
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeAlreadyExists, errors.ErrCodeInvalidState:
		return http.StatusConflict
	case errors.ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
