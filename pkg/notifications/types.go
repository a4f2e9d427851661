package notifications

import (
	"fmt"
	"net/mail"
	"net/url"
	"os"
	"time"
)

// Channel is a delivery target.
type Channel string

const (
	Email Channel = "email"
	Slack Channel = "slack"
)

// Accepts reports whether the provider status code means the message was taken.
// SendGrid answers 202 Accepted, Slack webhooks answer 200 OK.
func (c Channel) Accepts(status int) bool {
	switch c {
	case Email:
		return status == 202
	case Slack:
		return status == 200
	}
	return false
}

const (
	DefaultSendGridURL          = "https://api.sendgrid.com/v3/mail/send"
	DefaultInitialRetryInterval = 2
	DefaultMaxRetryTime         = 300
	DefaultRequestTimeout       = 30
)

// CommandResult describes the finished command being reported.
type CommandResult struct {
	Command   string
	ExitCode  int
	Stdout    string
	Stderr    string
	Timestamp string
	Hostname  string
	User      string
}

// Config is the resolved notification configuration for one invocation.
// Empty strings mean "not set".
type Config struct {
	SenderEmail    string
	SenderName     string
	RecipientEmail string
	APIKey         string

	SubjectTemplate   string
	HTMLTemplatePath  string
	SlackTemplatePath string
	SlackWebhookURL   string

	RetryEnabled         bool
	InitialRetryInterval int
	MaxRetryTime         int

	SendGridURL    string
	RequestTimeout int
	Verbose        bool
}

// SlackEnabled is false when no webhook is configured.
func (c Config) SlackEnabled() bool {
	return c.SlackWebhookURL != ""
}

func (c Config) sendGridURL() string {
	if c.SendGridURL == "" {
		return DefaultSendGridURL
	}
	return c.SendGridURL
}

func (c Config) requestTimeout() time.Duration {
	if c.RequestTimeout <= 0 {
		return DefaultRequestTimeout * time.Second
	}
	return time.Duration(c.RequestTimeout) * time.Second
}

// Validate checks the configuration before anything is sent.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return configErrorf("APIKey", "SendGrid API key is not set")
	}
	if c.SenderEmail == "" {
		return configErrorf("SenderEmail", "sender email is not set")
	}
	if _, err := mail.ParseAddress(c.SenderEmail); err != nil {
		return &ConfigurationError{Field: "SenderEmail", Err: fmt.Errorf("invalid sender email %q: %s", c.SenderEmail, err)}
	}
	if c.RecipientEmail == "" {
		return configErrorf("RecipientEmail", "recipient email is not set")
	}
	if _, err := mail.ParseAddress(c.RecipientEmail); err != nil {
		return &ConfigurationError{Field: "RecipientEmail", Err: fmt.Errorf("invalid recipient email %q: %s", c.RecipientEmail, err)}
	}
	if c.InitialRetryInterval < 1 {
		return configErrorf("InitialRetryInterval", "initial retry interval must be at least 1 second, got %d", c.InitialRetryInterval)
	}
	if c.MaxRetryTime < 1 {
		return configErrorf("MaxRetryTime", "max retry time must be at least 1 second, got %d", c.MaxRetryTime)
	}
	for _, t := range []struct{ field, path string }{
		{"HTMLTemplatePath", c.HTMLTemplatePath},
		{"SlackTemplatePath", c.SlackTemplatePath},
	} {
		if t.path == "" {
			continue
		}
		if _, err := os.Stat(t.path); err != nil {
			return &ConfigurationError{Field: t.field, Err: fmt.Errorf("template file %s: %s", t.path, err)}
		}
	}
	if c.SlackWebhookURL != "" {
		u, err := url.Parse(c.SlackWebhookURL)
		if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
			return configErrorf("SlackWebhookURL", "invalid Slack webhook URL")
		}
	}
	return nil
}

// TerminationReason tells why delivery on a channel stopped.
type TerminationReason string

const (
	ReasonSuccess     TerminationReason = "success"
	ReasonSkipped     TerminationReason = "skipped"
	ReasonRejected    TerminationReason = "rejected"
	ReasonTransport   TerminationReason = "transport"
	ReasonTimeout     TerminationReason = "timeout"
	ReasonWouldExceed TerminationReason = "would-exceed-timeout"
	ReasonCancelled   TerminationReason = "cancelled"
	ReasonRender      TerminationReason = "render"
)

// EmailMessage is the rendered email.
type EmailMessage struct {
	Subject string
	Body    string
}

// SlackMessage is the rendered Slack text.
type SlackMessage struct {
	Text string
}

// Outcome is the result of delivering on one channel.
type Outcome struct {
	Channel        Channel
	Attempts       int
	ElapsedSeconds int
	Success        bool
	Skipped        bool
	HTTPStatus     *int
	LastError      error
	Reason         TerminationReason
}

// Report holds the independent outcomes of one invocation.
type Report struct {
	ID    string
	Email Outcome
	Slack Outcome
}

// Success is true when no enabled channel failed.
func (r Report) Success() bool {
	return r.Email.Success && r.Slack.Success
}

// Err combines the channel errors; nil when both channels succeeded.
func (r Report) Err() error {
	var errs []error
	for _, o := range []Outcome{r.Email, r.Slack} {
		if !o.Success && o.LastError != nil {
			errs = append(errs, o.LastError)
		}
	}
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	}
	return &multiError{errs: errs}
}
