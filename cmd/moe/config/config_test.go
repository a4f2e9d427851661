package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gimlet-io/moe/pkg/notifications"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, "MOE_") {
			key := strings.SplitN(kv, "=", 2)[0]
			t.Setenv(key, "")
			os.Unsetenv(key)
		}
	}
}

func TestEnvironDefaults(t *testing.T) {
	clearEnv(t)

	c, err := Environ()
	require.Nil(t, err)
	assert.True(t, c.RetryEnabled)
	assert.Equal(t, 2, c.RetryInitialInterval)
	assert.Equal(t, 300, c.RetryMaxTime)
	assert.Equal(t, 30, c.RequestTimeout)
	assert.Equal(t, notifications.DefaultSendGridURL, c.SendGridURL)
}

func TestEnvironFromFileAndEnv(t *testing.T) {
	clearEnv(t)

	file := filepath.Join(t.TempDir(), "moe.conf")
	content := `MOE_SENDGRID_API_KEY=SG.secret
MOE_SENDER_EMAIL=moe@example.com
MOE_SENDER_NAME="Mail on Error"
MOE_RECIPIENT_EMAIL=ops@example.com
MOE_SLACK_WEBHOOK_URL=https://hooks.slack.com/services/T/B/X
MOE_RETRY_MAX_TIME=60
`
	require.Nil(t, os.WriteFile(file, []byte(content), 0600))
	t.Setenv("MOE_RETRY_MAX_TIME", "120")

	c, err := Environ(file, filepath.Join(t.TempDir(), "missing.conf"))
	require.Nil(t, err)
	assert.Equal(t, "SG.secret", c.APIKey)
	assert.Equal(t, "Mail on Error", c.SenderName)
	assert.Equal(t, 120, c.RetryMaxTime, "the environment wins over the file")

	n := c.Notifications()
	assert.Equal(t, "https://hooks.slack.com/services/T/B/X", n.SlackWebhookURL)
	assert.Equal(t, 120, n.MaxRetryTime)
	assert.Nil(t, n.Validate())

	assert.NotContains(t, c.String(), "SG.secret")
	assert.Contains(t, c.String(), "senderEmail: moe@example.com")
}

func TestEnvironRejectsNonNumericRetryBounds(t *testing.T) {
	clearEnv(t)
	t.Setenv("MOE_RETRY_INITIAL_INTERVAL", "soon")

	_, err := Environ()
	require.NotNil(t, err)
	assert.IsType(t, &notifications.ConfigurationError{}, err)
}
