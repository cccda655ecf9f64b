// Package user holds the serverless entry point for profile lookups.
package user

import (
	"net/http"

	"github.com/polkiloo/celestial/internal/function"
)

// Handler returns the public profile for the id in the query or path.
func Handler(w http.ResponseWriter, r *http.Request) {
	function.User(w, r)
}
