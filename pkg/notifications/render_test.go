package notifications

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_RenderSubject(t *testing.T) {
	subject := RenderSubject(Config{SubjectTemplate: ""}, CommandResult{
		Command:  "test-command --arg value",
		Hostname: "test-host",
	})
	assert.Equal(t, "Command 'test-command --arg value' failed on test-host", subject)

	subject = RenderSubject(Config{SubjectTemplate: "[${HOSTNAME}] exit ${EXIT_CODE}: <${COMMAND}>"}, testResult)
	assert.Equal(t, "[test-host] exit 2: <test-command --arg value>", subject, "subject is never HTML escaped")
}

func Test_RenderHTMLBody(t *testing.T) {
	t.Run("Should use the built-in document by default", func(t *testing.T) {
		body, err := RenderHTMLBody(Config{}, testResult)
		require.Nil(t, err)
		assert.True(t, strings.HasPrefix(body, "<!DOCTYPE html>"))
		assert.Contains(t, body, "<code>test-command --arg value</code>")
		assert.Contains(t, body, "&lt;missing&gt; &quot;file&quot; &amp; &#39;more&#39;")
		assert.NotContains(t, body, "${")
	})

	t.Run("Should read the template file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "body.html")
		require.Nil(t, os.WriteFile(path, []byte("<p>${USER} ran ${COMMAND}: ${STDERR}</p>"), 0644))

		body, err := RenderHTMLBody(Config{HTMLTemplatePath: path}, testResult)
		require.Nil(t, err)
		assert.Equal(t, "<p>jane ran test-command --arg value: error: &lt;missing&gt; &quot;file&quot; &amp; &#39;more&#39;\n\tat line 3</p>", body)
	})

	t.Run("Should fall back when the file does not exist", func(t *testing.T) {
		body, err := RenderHTMLBody(Config{HTMLTemplatePath: filepath.Join(t.TempDir(), "missing.html")}, testResult)
		require.Nil(t, err)
		assert.True(t, strings.HasPrefix(body, "<!DOCTYPE html>"))
	})

	t.Run("Should fail when the file exists but cannot be read", func(t *testing.T) {
		dir := t.TempDir()
		_, err := RenderHTMLBody(Config{HTMLTemplatePath: dir}, testResult)

		var renderErr *RenderError
		require.True(t, errors.As(err, &renderErr))
		assert.Equal(t, dir, renderErr.Path)
	})
}

func Test_RenderSlackMessage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slack.txt")
	require.Nil(t, os.WriteFile(path, []byte("*${HOSTNAME}*: `${COMMAND}` exited ${EXIT_CODE}"), 0644))

	text, enabled, err := RenderSlackMessage(Config{SlackTemplatePath: path}, testResult)
	assert.Nil(t, err)
	assert.False(t, enabled, "no webhook means the channel is disabled")
	assert.Equal(t, "", text)

	_, enabled, err = RenderSlackMessage(Config{SlackTemplatePath: t.TempDir()}, testResult)
	assert.Nil(t, err, "a disabled channel never touches its template")
	assert.False(t, enabled)

	cfg := Config{SlackWebhookURL: "https://hooks.slack.com/services/T/B/X", SlackTemplatePath: path}
	text, enabled, err = RenderSlackMessage(cfg, testResult)
	assert.Nil(t, err)
	assert.True(t, enabled)
	assert.Equal(t, "*test-host*: `test-command --arg value` exited 2", text)

	cfg.SlackTemplatePath = ""
	text, _, err = RenderSlackMessage(cfg, testResult)
	assert.Nil(t, err)
	assert.Contains(t, text, "*Command failed* on `test-host`")
	assert.Contains(t, text, "*Command:* `test-command --arg value`\n")
	assert.Contains(t, text, "*Exit code:* 2\n")
	assert.Contains(t, text, "*Stderr:*\n```")
	assert.Contains(t, text, "error: <missing> \"file\"", "Slack text is not escaped at render time")
	assert.NotContains(t, text, "${")
}
