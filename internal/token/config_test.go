package token

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setJWTEnv(t *testing.T, ttl string) {
	t.Setenv("JWT_SIGNING_KEY", "super-secret-signing-key")
	t.Setenv("JWT_ISSUER", "tracker")
	t.Setenv("JWT_AUDIENCE", "tracker-clients")
	t.Setenv("JWT_TTL_MINUTES", ttl)
}

func TestConfigFromEnv_DefaultTTL(t *testing.T) {
	setJWTEnv(t, "")

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 60*time.Minute, cfg.TTL)
	assert.Equal(t, "tracker", cfg.Issuer)
	assert.Equal(t, "tracker-clients", cfg.Audience)
}

func TestConfigFromEnv_CustomTTL(t *testing.T) {
	setJWTEnv(t, "15")

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, cfg.TTL)
}

func TestConfigFromEnv_InvalidTTL(t *testing.T) {
	for _, v := range []string{"0", "-5", "abc"} {
		setJWTEnv(t, v)
		_, err := ConfigFromEnv()
		assert.Error(t, err, "ttl %q", v)
	}
}

func TestConfigFromEnv_MissingKey(t *testing.T) {
	setJWTEnv(t, "")
	t.Setenv("JWT_SIGNING_KEY", "")

	_, err := ConfigFromEnv()
	assert.Error(t, err)
}

func TestConfig_StringRedactsKey(t *testing.T) {
	cfg := testConfig()
	s := cfg.String()
	assert.False(t, strings.Contains(s, string(cfg.SigningKey)))
	assert.Contains(t, s, "redacted")
}
