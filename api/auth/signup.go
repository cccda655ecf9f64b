// Package auth holds the serverless entry points for signup and signin.
package auth

import (
	"net/http"

	"github.com/polkiloo/celestial/internal/function"
)

// Signup creates an account.
func Signup(w http.ResponseWriter, r *http.Request) {
	function.Signup(w, r)
}
