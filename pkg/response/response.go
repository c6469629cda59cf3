package response

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/ordo-prm/internal/domain/entity"
	"github.com/oksasatya/ordo-prm/pkg/helpers"
)

// APIResponse is the envelope used for errors and acknowledgement bodies.
// Resource payloads are written bare.
type APIResponse[T any] struct {
	Status    int         `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id,omitempty"`
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      T           `json:"data,omitempty"`
	Error     interface{} `json:"error,omitempty"`
}

// InternalMessage is the only text a client sees for unexpected failures.
const InternalMessage = "Internal server error"

// Success writes a success envelope such as {"success":true,"message":...}.
func Success[T any](ctx *gin.Context, status int, data T, message string) {
	if status == 0 {
		status = http.StatusOK
	}
	ctx.JSON(status, APIResponse[T]{
		Status:    status,
		Timestamp: time.Now().UTC(),
		RequestID: ctx.GetString(helpers.RequestIDKey),
		Success:   true,
		Message:   message,
		Data:      data,
	})
}

// Error writes an error envelope and aborts the handler chain.
func Error(ctx *gin.Context, status int, message string, err interface{}) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	ctx.AbortWithStatusJSON(status, APIResponse[any]{
		Status:    status,
		Timestamp: time.Now().UTC(),
		RequestID: ctx.GetString(helpers.RequestIDKey),
		Success:   false,
		Message:   message,
		Error:     err,
	})
}

// StatusFor maps a domain error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrInvalidCredentials), errors.Is(err, entity.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, entity.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, entity.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrDuplicateEmail):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// FromError writes err using the domain error taxonomy. Unexpected errors
// are logged with detail and answered with InternalMessage only.
func FromError(ctx *gin.Context, log logrus.FieldLogger, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		if log != nil {
			log.WithError(err).WithFields(helpers.RequestFields(ctx)).Error("request failed")
		}
		Error(ctx, status, InternalMessage, nil)
		return
	}
	Error(ctx, status, messageFor(err), nil)
}

func messageFor(err error) string {
	switch {
	case errors.Is(err, entity.ErrInvalidCredentials):
		return "Incorrect email/password"
	case errors.Is(err, entity.ErrUnauthorized):
		return "Unauthorized"
	case errors.Is(err, entity.ErrForbidden):
		return "Forbidden"
	case errors.Is(err, entity.ErrDuplicateEmail):
		return "Email already registered"
	case errors.Is(err, entity.ErrNotFound):
		return "Not found"
	}
	// ErrInvalidInput is wrapped with a human readable reason.
	return err.Error()
}
