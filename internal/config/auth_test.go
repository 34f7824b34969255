package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSessionConfig(t *testing.T) {
	t.Setenv("SESSION_SECRET", "console-secret")
	t.Setenv("SESSION_TTL", "12h")

	cfg, err := LoadSessionConfig()
	require.NoError(t, err)
	assert.Equal(t, "console-secret", cfg.Secret)
	assert.Equal(t, 12*time.Hour, cfg.TTL)
}

func TestLoadSessionConfig_DefaultTTL(t *testing.T) {
	t.Setenv("SESSION_SECRET", "console-secret")
	t.Setenv("SESSION_TTL", "")

	cfg, err := LoadSessionConfig()
	require.NoError(t, err)
	assert.Equal(t, 72*time.Hour, cfg.TTL)
}

func TestLoadSessionConfig_MissingSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")
	_, err := LoadSessionConfig()
	assert.Error(t, err)
}

func TestLoadSessionConfig_BadTTL(t *testing.T) {
	t.Setenv("SESSION_SECRET", "console-secret")

	t.Setenv("SESSION_TTL", "soon")
	_, err := LoadSessionConfig()
	assert.Error(t, err)

	t.Setenv("SESSION_TTL", "5s")
	_, err = LoadSessionConfig()
	assert.Error(t, err, "lifetimes under a minute are rejected")
}

func TestLoadPasswordConfig_Defaults(t *testing.T) {
	t.Setenv("BCRYPT_COST", "")
	t.Setenv("PASSWORD_PEPPER", "")

	cfg, err := LoadPasswordConfig()
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Cost)
	assert.Empty(t, cfg.Pepper)
}

func TestLoadPasswordConfig_CostOutOfRange(t *testing.T) {
	t.Setenv("BCRYPT_COST", "4")
	_, err := LoadPasswordConfig()
	assert.Error(t, err)

	t.Setenv("BCRYPT_COST", "20")
	_, err = LoadPasswordConfig()
	assert.Error(t, err)
}

func TestHashAndVerify(t *testing.T) {
	cfg := &PasswordConfig{Cost: 10}

	hash, err := cfg.Hash("correct horse battery staple")
	require.NoError(t, err)
	require.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, cfg.Verify("correct horse battery staple", hash))
	assert.False(t, cfg.Verify("wrong password", hash))
}

func TestVerify_PepperMatters(t *testing.T) {
	withPepper := &PasswordConfig{Cost: 10, Pepper: "pepper"}
	without := &PasswordConfig{Cost: 10}

	hash, err := withPepper.Hash("pw")
	require.NoError(t, err)

	assert.True(t, withPepper.Verify("pw", hash))
	assert.False(t, without.Verify("pw", hash))
}
