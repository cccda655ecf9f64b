package test

import "strings"

// HasherStub provides deterministic hashing for tests.
type HasherStub struct {
	HashFn   func(string) (string, error)
	VerifyFn func(string, string) (bool, error)
}

// Hash returns a predictable hash for the supplied password.
func (h HasherStub) Hash(password string) (string, error) {
	if h.HashFn != nil {
		return h.HashFn(password)
	}
	return "hash:" + password, nil
}

// Verify validates password against stored hash.
func (h HasherStub) Verify(hash string, password string) (bool, error) {
	if h.VerifyFn != nil {
		return h.VerifyFn(hash, password)
	}
	return strings.TrimPrefix(hash, "hash:") == password, nil
}
