package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// RequestObserver receives per-request measurements.
type RequestObserver interface {
	TrackInFlight() func()
	ObserveRequest(method, path string, status int, elapsed time.Duration)
}

// Metrics reports every request to observer, labelled by route template.
func Metrics(observer RequestObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		done := observer.TrackInFlight()
		defer done()

		start := time.Now()
		c.Next()
		observer.ObserveRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
