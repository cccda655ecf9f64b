package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/celestial/internal/server/http/dto"
)

// Transport-level client messages.
const (
	MsgInvalidJSON      = "Invalid JSON payload"
	MsgPayloadTooLarge  = "Payload too large"
	MsgMethodNotAllowed = "Method Not Allowed"
	MsgNotFound         = "Not Found"
)

// bindJSON decodes the request body into dst. An empty body decodes as {}.
// On failure the response is already written.
func bindJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, dto.Failure(MsgPayloadTooLarge))
		return false
	}
	c.JSON(http.StatusBadRequest, dto.Failure(MsgInvalidJSON))
	return false
}

// MethodNotAllowed answers 405 and advertises the single permitted method.
func MethodNotAllowed(allow string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Allow", allow)
		c.AbortWithStatusJSON(http.StatusMethodNotAllowed, dto.Failure(MsgMethodNotAllowed))
	}
}

// NotFound answers unknown routes with the JSON envelope.
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, dto.Failure(MsgNotFound))
}
