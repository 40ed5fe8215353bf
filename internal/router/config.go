package router

import (
	"os"
	"strconv"
	"strings"
)

// Config controls the cross-cutting HTTP behaviour around the API routes.
type Config struct {
	AllowedOrigins []string
	AuthRatePerSec float64
	AuthBurst      int
}

// ConfigFromEnv reads CORS_ALLOWED_ORIGINS (comma separated), AUTH_RATE_PER_SEC
// and AUTH_RATE_BURST.
func ConfigFromEnv() Config {
	cfg := Config{
		AllowedOrigins: []string{"http://localhost:4200"},
		AuthRatePerSec: 5,
		AuthBurst:      10,
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = cfg.AllowedOrigins[:0]
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}
	if f, err := strconv.ParseFloat(os.Getenv("AUTH_RATE_PER_SEC"), 64); err == nil && f > 0 {
		cfg.AuthRatePerSec = f
	}
	if n, err := strconv.Atoi(os.Getenv("AUTH_RATE_BURST")); err == nil && n > 0 {
		cfg.AuthBurst = n
	}
	return cfg
}
