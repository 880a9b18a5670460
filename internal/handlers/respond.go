// Package handlers contains HTTP request handlers for the task management service.
package handlers

import (
	"log"

	"github.com/gin-gonic/gin"
)

// RespondError writes a JSON error body with the given status.
func RespondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}

// LogAndRespondError logs the underlying error and writes a sanitized
// message to the client.
func LogAndRespondError(c *gin.Context, status int, err error, message string) {
	log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	RespondError(c, status, message)
}
