package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the fixed envelope every endpoint answers with.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	User    interface{} `json:"user,omitempty"`
}

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(status int, code, message string) *AppError {
	return &AppError{Status: status, Code: code, Message: message}
}

// RespondError maps an error onto the envelope. Anything that is not
// an AppError crosses the boundary as a generic 500: internal detail
// is logged where it happens, never returned.
func RespondError(c *gin.Context, err error) {
	appErr, ok := err.(*AppError)
	if !ok {
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Message: "Server error",
		})
		return
	}

	c.JSON(appErr.Status, Response{
		Success: false,
		Message: appErr.Message,
	})
}

func RespondOK(c *gin.Context, message string, user interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Message: message, User: user})
}

func RespondCreated(c *gin.Context, message string, user interface{}) {
	c.JSON(http.StatusCreated, Response{Success: true, Message: message, User: user})
}
