package response

import (
	"time"

	"go-storefront/internal/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type APIResponse struct {
	Success   bool         `json:"success"`
	Data      interface{}  `json:"data"`
	Error     *ErrorDetail `json:"error"`
	Message   string       `json:"message"`
	RequestID string       `json:"requestId"`
	Timestamp string       `json:"timestamp"`
}

type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details"`
}

// Success writes a successful envelope around data.
func Success(c *gin.Context, status int, message string, data interface{}) {
	requestID := c.GetString("X-Request-ID")
	c.JSON(status, APIResponse{
		Success:   true,
		Data:      data,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// Error writes a failed envelope.
func Error(c *gin.Context, status int, errCode string, message string, details interface{}) {
	requestID := c.GetString("X-Request-ID")
	c.JSON(status, APIResponse{
		Success: false,
		Data:    nil,
		Error: &ErrorDetail{
			Code:    errCode,
			Message: message,
			Details: details,
		},
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// FromError writes the envelope for err using its AppError code and status,
// or a generic 500 for anything else.
func FromError(c *gin.Context, err error) {
	res := apperror.ToHTTP(err)
	Error(c, res.Status, res.Code, res.Message, res.Details)
}
