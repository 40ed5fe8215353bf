package token

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// DefaultTTLMinutes is used when JWT_TTL_MINUTES is unset.
const DefaultTTLMinutes = 60

// Config holds the HMAC signing key and the claims every token carries.
type Config struct {
	SigningKey []byte
	Issuer     string
	Audience   string
	TTL        time.Duration
}

// ConfigFromEnv reads JWT_SIGNING_KEY, JWT_ISSUER, JWT_AUDIENCE and JWT_TTL_MINUTES.
func ConfigFromEnv() (Config, error) {
	cfg := Config{
		SigningKey: []byte(os.Getenv("JWT_SIGNING_KEY")),
		Issuer:     os.Getenv("JWT_ISSUER"),
		Audience:   os.Getenv("JWT_AUDIENCE"),
		TTL:        DefaultTTLMinutes * time.Minute,
	}
	if v := os.Getenv("JWT_TTL_MINUTES"); v != "" {
		mins, err := strconv.Atoi(v)
		if err != nil || mins <= 0 {
			return Config{}, fmt.Errorf("JWT_TTL_MINUTES must be a positive integer, got %q", v)
		}
		cfg.TTL = time.Duration(mins) * time.Minute
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every field required for issuing and verifying is set.
func (c Config) Validate() error {
	switch {
	case len(c.SigningKey) == 0:
		return errors.New("token: signing key is required")
	case c.Issuer == "":
		return errors.New("token: issuer is required")
	case c.Audience == "":
		return errors.New("token: audience is required")
	case c.TTL <= 0:
		return errors.New("token: ttl must be positive")
	}
	return nil
}

// String never prints the signing key.
func (c Config) String() string {
	return fmt.Sprintf("token.Config{Issuer: %q, Audience: %q, TTL: %s, SigningKey: [redacted]}", c.Issuer, c.Audience, c.TTL)
}
