// Package api holds the serverless entry point for GET /api/health.
package api

import (
	"net/http"

	"github.com/polkiloo/celestial/internal/function"
)

// Health reports liveness and store connectivity.
func Health(w http.ResponseWriter, r *http.Request) {
	function.Health(w, r)
}
