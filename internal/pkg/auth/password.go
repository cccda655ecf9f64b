package auth

import (
	"errors"
	"fmt"

	domainErrors "github.com/polkiloo/celestial/internal/domain/errors"
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher defines hashing strategy for credentials.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash string, password string) (bool, error)
}

// maxPasswordBytes is the bcrypt input limit. Longer passwords are hashed on
// their first maxPasswordBytes bytes.
const maxPasswordBytes = 72

// BcryptHasher uses bcrypt to hash passwords.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates BcryptHasher with provided cost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash returns bcrypt hash for provided password. Every call uses a fresh salt.
func (h *BcryptHasher) Hash(password string) (string, error) {
	encoded, err := bcrypt.GenerateFromPassword(truncate(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

// Verify checks password against stored hash. A mismatch is reported as false
// without an error; a hash bcrypt cannot parse yields ErrHashFormat.
func (h *BcryptHasher) Verify(hash string, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), truncate(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", domainErrors.ErrHashFormat, err)
	}
}

func truncate(password string) []byte {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}
