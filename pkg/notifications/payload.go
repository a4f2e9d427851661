package notifications

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

// escapedString marshals through JSONEscape instead of the encoder's own rules.
type escapedString string

func (s escapedString) MarshalJSON() ([]byte, error) {
	return []byte(`"` + JSONEscape(string(s)) + `"`), nil
}

type sendgridAddress struct {
	Email escapedString  `json:"email"`
	Name  *escapedString `json:"name,omitempty"`
}

type sendgridPersonalization struct {
	To      []sendgridAddress `json:"to"`
	Subject escapedString     `json:"subject"`
}

type sendgridContent struct {
	Type  escapedString `json:"type"`
	Value escapedString `json:"value"`
}

type sendgridMessage struct {
	Personalizations []sendgridPersonalization `json:"personalizations"`
	From             sendgridAddress           `json:"from"`
	Content          []sendgridContent         `json:"content"`
}

type slackMessage struct {
	Text escapedString `json:"text"`
}

// BuildEmailPayload builds the SendGrid v3 mail/send document.
// from.name is only present when a sender name is configured.
func BuildEmailPayload(cfg Config, subject, htmlBody string) ([]byte, error) {
	from := sendgridAddress{Email: escapedString(cfg.SenderEmail)}
	if cfg.SenderName != "" {
		name := escapedString(cfg.SenderName)
		from.Name = &name
	}

	msg := sendgridMessage{
		Personalizations: []sendgridPersonalization{{
			To:      []sendgridAddress{{Email: escapedString(cfg.RecipientEmail)}},
			Subject: escapedString(subject),
		}},
		From: from,
		Content: []sendgridContent{{
			Type:  "text/html",
			Value: escapedString(htmlBody),
		}},
	}
	return encode(msg)
}

// BuildSlackPayload builds the incoming webhook document.
func BuildSlackPayload(cfg Config, text string) ([]byte, error) {
	return encode(slackMessage{Text: escapedString(text)})
}

func encode(v interface{}) ([]byte, error) {
	b := new(bytes.Buffer)
	e := json.NewEncoder(b)
	e.SetEscapeHTML(false)
	if err := e.Encode(v); err != nil {
		return nil, errors.Wrap(err, "cannot encode payload")
	}
	return bytes.TrimRight(b.Bytes(), "\n"), nil
}

// PayloadSource produces the provider documents for one invocation.
type PayloadSource interface {
	Email(cfg Config) ([]byte, error)
	// Slack reports enabled=false when the channel is not configured.
	Slack(cfg Config) (payload []byte, enabled bool, err error)
}

// RealPayloads renders the configured templates over a command result.
type RealPayloads struct {
	Result CommandResult
}

func (p RealPayloads) Email(cfg Config) ([]byte, error) {
	msg, err := RenderEmail(cfg, p.Result)
	if err != nil {
		return nil, err
	}
	return BuildEmailPayload(cfg, msg.Subject, msg.Body)
}

func (p RealPayloads) Slack(cfg Config) ([]byte, bool, error) {
	text, enabled, err := RenderSlackMessage(cfg, p.Result)
	if err != nil || !enabled {
		return nil, enabled, err
	}
	payload, err := BuildSlackPayload(cfg, text)
	return payload, true, err
}

// TestPayloads sends a synthetic failure through the configured templates,
// so operators can check delivery and formatting end to end.
type TestPayloads struct {
	Hostname  string
	User      string
	Timestamp string
}

const testCommand = "moe test"

func (p TestPayloads) result() CommandResult {
	ts := p.Timestamp
	if ts == "" {
		ts = time.Now().UTC().Format(time.RFC3339)
	}
	return CommandResult{
		Command:   testCommand,
		ExitCode:  1,
		Stdout:    "This is a test notification sent by moe.",
		Stderr:    "No command actually failed.",
		Timestamp: ts,
		Hostname:  p.Hostname,
		User:      p.User,
	}
}

func (p TestPayloads) Email(cfg Config) ([]byte, error) {
	return RealPayloads{Result: p.result()}.Email(cfg)
}

func (p TestPayloads) Slack(cfg Config) ([]byte, bool, error) {
	return RealPayloads{Result: p.result()}.Slack(cfg)
}
