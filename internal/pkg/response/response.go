// internal/pkg/response/response.go
package response

import (
	"errors"
	"net/http"

	xerrors "fieldops-service/internal/pkg/errors"

	"github.com/gin-gonic/gin"
)

// Response defines the standard API response format.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Success sends a successful response with a message and optional data.
func Success(c *gin.Context, status int, message string, data interface{}) {
	if status == 0 {
		status = http.StatusOK
	}

	c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error sends a standardized error response and aborts the handler chain.
func Error(c *gin.Context, code int, message string, err error) {
	c.Abort()

	resp := Response{
		Success: false,
		Message: message,
	}
	if err != nil {
		resp.Error = err.Error()
	}

	c.JSON(code, resp)
}

// FromError maps a service error onto the matching HTTP status. Unrecognized
// errors are reported as 500 without leaking their detail.
func FromError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, xerrors.ErrNotFound):
		Error(c, http.StatusNotFound, message, err)
	case errors.Is(err, xerrors.ErrInvalidInput):
		Error(c, http.StatusBadRequest, message, err)
	case errors.Is(err, xerrors.ErrUnauthorized), errors.Is(err, xerrors.ErrSessionExpired):
		Error(c, http.StatusUnauthorized, message, err)
	case errors.Is(err, xerrors.ErrForbidden):
		Error(c, http.StatusForbidden, message, err)
	case errors.Is(err, xerrors.ErrConflict):
		Error(c, http.StatusConflict, message, err)
	case errors.Is(err, xerrors.ErrPrecondition):
		Error(c, http.StatusUnprocessableEntity, message, err)
	case errors.Is(err, xerrors.ErrRateLimited):
		Error(c, http.StatusTooManyRequests, message, err)
	default:
		Error(c, http.StatusInternalServerError, message, nil)
	}
}

// Unauthorized sends a 401 Unauthorized response.
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message, nil)
}

// Forbidden sends a 403 Forbidden response.
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, message, nil)
}

// NotFound sends a 404 Not Found response.
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message, nil)
}
