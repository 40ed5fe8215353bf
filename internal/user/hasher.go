package user

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordTooLong is returned for passwords bcrypt would silently truncate.
var ErrPasswordTooLong = errors.New("password exceeds 72 bytes")

// PasswordHasher hashes passwords into self-describing digests and verifies them.
type PasswordHasher interface {
	Hash(pw string) (string, error)
	Verify(digest, pw string) bool
}

// BcryptHasher implementation. Each digest embeds its own cost and salt, so
// raising Cost never breaks verification of older digests.
type BcryptHasher struct{ Cost int }

// BcryptCostFromEnv reads PASSWORD_BCRYPT_COST, defaulting to 12.
func BcryptCostFromEnv() int {
	if v, err := strconv.Atoi(os.Getenv("PASSWORD_BCRYPT_COST")); err == nil {
		return v
	}
	return 12
}

// NewBcryptHasher clamps cost into bcrypt's supported range.
func NewBcryptHasher(cost int) BcryptHasher {
	switch {
	case cost < bcrypt.MinCost:
		cost = bcrypt.MinCost
	case cost > bcrypt.MaxCost:
		cost = bcrypt.MaxCost
	}
	return BcryptHasher{Cost: cost}
}

func (b BcryptHasher) Hash(pw string) (string, error) {
	if len(pw) > 72 {
		return "", ErrPasswordTooLong
	}
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(h), nil
}

// Verify compares in constant time; a malformed digest never matches.
func (b BcryptHasher) Verify(digest, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(pw)) == nil
}
