package auth

import (
	"net/http"

	"github.com/polkiloo/celestial/internal/function"
)

// Signin verifies credentials.
func Signin(w http.ResponseWriter, r *http.Request) {
	function.Signin(w, r)
}
