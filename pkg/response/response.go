package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type APIResponse[T any] struct {
	Status    int         `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id"`
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      T           `json:"data,omitempty"`
	Error     interface{} `json:"error,omitempty"`
}

// Success writes a success envelope to the response.
func Success[T any](ctx *gin.Context, status int, data T, message string) {
	if status == 0 {
		status = http.StatusOK
	}
	ctx.JSON(status, APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   true,
		Message:   message,
		Data:      data,
	})
}

// Error writes an error envelope. The message must stay generic; details
// are optional field-level validation info, never internal error text.
func Error(ctx *gin.Context, status int, message string, details interface{}) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	ctx.JSON(status, APIResponse[any]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   false,
		Message:   message,
		Error:     details,
	})
}

// AbortError writes an error envelope and aborts the handler chain.
func AbortError(ctx *gin.Context, status int, message string, details interface{}) {
	Error(ctx, status, message, details)
	ctx.Abort()
}
