package server

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// respond writes the platform's uniform success envelope. Every payload is
// wrapped so clients can rely on one shape across endpoints.
func respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"statusCode": status,
		"message":    "OK",
		"data":       data,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"path":       c.Request.URL.Path,
	})
}

// fail writes an error envelope. Details is optional structured context, for
// example validation failures keyed by field.
func fail(c *gin.Context, status int, message string, details ...interface{}) {
	body := gin.H{
		"statusCode": status,
		"message":    message,
	}
	if len(details) > 0 && details[0] != nil {
		body["details"] = details[0]
	}
	c.JSON(status, body)
	c.Abort()
}

// money formats a monetary amount the way the platform serializes it, as a
// two-decimal string rather than a JSON number.
func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
