package notifications

import (
	"io/fs"
	"os"

	"github.com/pkg/errors"
)

// RenderSubject renders the email subject line. Values are not escaped.
func RenderSubject(cfg Config, result CommandResult) string {
	src := cfg.SubjectTemplate
	if src == "" {
		src = defaultSubject
	}
	return Render(src, result, EscapeNone)
}

// RenderHTMLBody renders the email body with HTML-escaped values.
func RenderHTMLBody(cfg Config, result CommandResult) (string, error) {
	src, err := templateSource(cfg.HTMLTemplatePath, defaultHTMLBody)
	if err != nil {
		return "", err
	}
	return Render(src, result, EscapeHTML), nil
}

// RenderSlackMessage renders the Slack text. It reports enabled=false, and
// renders nothing, when no webhook is configured.
func RenderSlackMessage(cfg Config, result CommandResult) (text string, enabled bool, err error) {
	if !cfg.SlackEnabled() {
		return "", false, nil
	}
	src, err := templateSource(cfg.SlackTemplatePath, defaultSlackMessage)
	if err != nil {
		return "", true, err
	}
	return Render(src, result, EscapeNone), true, nil
}

// RenderEmail renders subject and body together.
func RenderEmail(cfg Config, result CommandResult) (EmailMessage, error) {
	body, err := RenderHTMLBody(cfg, result)
	if err != nil {
		return EmailMessage{}, err
	}
	return EmailMessage{
		Subject: RenderSubject(cfg, result),
		Body:    body,
	}, nil
}

// templateSource returns the file contents at path, or fallback when path is
// unset or missing. A file that exists but cannot be read is a RenderError.
func templateSource(path, fallback string) (string, error) {
	if path == "" {
		return fallback, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fallback, nil
		}
		return "", &RenderError{Path: path, Err: err}
	}
	return string(content), nil
}
