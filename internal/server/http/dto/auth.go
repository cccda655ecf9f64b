package dto

import (
	"time"

	"github.com/polkiloo/celestial/internal/domain/model"
)

// SignupRequest describes the signup payload.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SigninRequest describes the signin payload.
type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User is the client-facing account projection. It has no password field.
type User struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	CreatedAt time.Time  `json:"createdAt"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

// NewUser projects an account for signup and signin responses.
func NewUser(u *model.User) *User {
	return &User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// NewProfile projects an account for profile responses, including lastLogin.
func NewProfile(u *model.User) *User {
	out := NewUser(u)
	out.LastLogin = u.LastLogin
	return out
}

// Envelope wraps every account response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	User    *User  `json:"user,omitempty"`
}

// Failure builds an unsuccessful envelope with a client message.
func Failure(message string) Envelope {
	return Envelope{Success: false, Message: message}
}
