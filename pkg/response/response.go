package response

import (
	"github.com/gin-gonic/gin"
)

// ErrorBody is the wire shape for every client-visible failure.
type ErrorBody struct {
	Error string `json:"error"`
}

// JSON writes a success payload as-is. The client contract expects flat
// bodies (the created user, a bare boolean), not an envelope.
func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

// Error writes {"error": message} with the given status.
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorBody{Error: message})
}

// AbortError writes an error body and stops the handler chain.
func AbortError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorBody{Error: message})
}
