package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nekogravitycat/clinic-booking-backend/internal/logger"
	"github.com/nekogravitycat/clinic-booking-backend/internal/pkg/apperror"
)

// ErrorResponse defines the JSON structure for error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Error sends a JSON error response.
// An AppError decides the status code and message; anything else is a 500
// with a generic message. The full error is always logged.
func Error(c *gin.Context, err error) {
	l := logger.FromContext(c)

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		if appErr.Code >= http.StatusInternalServerError {
			l.Error("request failed", zap.Error(err), zap.NamedError("cause", appErr.Err))
		} else {
			l.Debug("request rejected", zap.Error(err), zap.NamedError("cause", appErr.Err))
		}
		c.JSON(appErr.Code, ErrorResponse{Error: appErr.Message})
		return
	}

	l.Error("unexpected error", zap.Error(err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// BadRequest reports a binding or parsing failure.
func BadRequest(c *gin.Context, msg string, err error) {
	logger.FromContext(c).Debug(msg, zap.Error(err))
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}
