package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const (
	// MinBcryptCost is the lowest cost accepted by NewHasher.
	MinBcryptCost = 10
	// MaxPasswordBytes is the longest input bcrypt accepts.
	MaxPasswordBytes = 72
)

// Hasher hashes and compares account passwords with bcrypt.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher; costs below MinBcryptCost are raised to it.
func NewHasher(cost int) *Hasher {
	if cost < MinBcryptCost {
		cost = MinBcryptCost
	}
	return &Hasher{cost: cost}
}

func (h *Hasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Compare reports whether password matches hash. A malformed hash is an error;
// a mismatch is not.
func (h *Hasher) Compare(hash, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}
