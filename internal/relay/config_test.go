package relay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigRequiresAccount(t *testing.T) {
	t.Setenv("RELAY_ACCOUNT_EMAIL", "")
	t.Setenv("RELAY_ACCOUNT_PASSWORD", "")
	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("RELAY_ACCOUNT_EMAIL", "me@example.com")
	t.Setenv("RELAY_ACCOUNT_PASSWORD", "secret")
	t.Setenv("SMTP_USER", "bot@example.com")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":8090", cfg.ListenAddr)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAIModel)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, "bot@example.com", cfg.FromAddress) // falls back to SMTP user
}
