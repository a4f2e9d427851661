package config

import (
	"os"
	"path/filepath"

	"github.com/gimlet-io/moe/pkg/notifications"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const prefix = "moe"

// DefaultFiles are the dotenv files read when no --config is given.
func DefaultFiles() []string {
	files := []string{"/etc/moe/moe.conf"}
	if home, err := os.UserHomeDir(); err == nil {
		files = append(files, filepath.Join(home, ".config", "moe", "moe.conf"))
	}
	return files
}

// Environ loads the given dotenv files, when they exist, then reads the
// settings from the environment. Variables already set are never overridden.
func Environ(files ...string) (*Config, error) {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, &notifications.ConfigurationError{Err: errors.Wrapf(err, "cannot load %s", f)}
		}
	}

	cfg := Config{}
	err := envconfig.Process(prefix, &cfg)
	if err != nil {
		return nil, &notifications.ConfigurationError{Err: err}
	}
	defaults(&cfg)

	return &cfg, nil
}

func defaults(c *Config) {
	if c.SendGridURL == "" {
		c.SendGridURL = notifications.DefaultSendGridURL
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = notifications.DefaultRequestTimeout
	}
}

// String returns the configuration in string format, without the API key.
func (c *Config) String() string {
	redacted := *c
	if redacted.APIKey != "" {
		redacted.APIKey = "********"
	}
	out, _ := yaml.Marshal(redacted)
	return string(out)
}

type Config struct {
	Logging `yaml:"logging"`

	APIKey         string `envconfig:"SENDGRID_API_KEY" yaml:"sendgridApiKey"`
	SendGridURL    string `envconfig:"SENDGRID_URL" yaml:"sendgridUrl"`
	SenderEmail    string `envconfig:"SENDER_EMAIL" yaml:"senderEmail"`
	SenderName     string `envconfig:"SENDER_NAME" yaml:"senderName"`
	RecipientEmail string `envconfig:"RECIPIENT_EMAIL" yaml:"recipientEmail"`

	EmailSubject  string `envconfig:"EMAIL_SUBJECT" yaml:"emailSubject"`
	EmailTemplate string `envconfig:"EMAIL_TEMPLATE" yaml:"emailTemplate"`
	SlackTemplate string `envconfig:"SLACK_TEMPLATE" yaml:"slackTemplate"`
	SlackWebhook  string `envconfig:"SLACK_WEBHOOK_URL" yaml:"slackWebhookUrl"`

	RetryEnabled         bool `envconfig:"RETRY_ENABLED" default:"true" yaml:"retryEnabled"`
	RetryInitialInterval int  `envconfig:"RETRY_INITIAL_INTERVAL" default:"2" yaml:"retryInitialInterval"`
	RetryMaxTime         int  `envconfig:"RETRY_MAX_TIME" default:"300" yaml:"retryMaxTime"`
	RequestTimeout       int  `envconfig:"REQUEST_TIMEOUT" default:"30" yaml:"requestTimeout"`

	Verbose bool `envconfig:"VERBOSE" yaml:"verbose"`
}

// Logging provides the logging configuration.
type Logging struct {
	Debug  bool `envconfig:"LOG_DEBUG" yaml:"debug"`
	Trace  bool `envconfig:"LOG_TRACE" yaml:"trace"`
	Color  bool `envconfig:"LOG_COLOR" yaml:"color"`
	Pretty bool `envconfig:"LOG_PRETTY" yaml:"pretty"`
	JSON   bool `envconfig:"LOG_JSON" yaml:"json"`
}

// Notifications converts the settings to the notification engine's config.
func (c *Config) Notifications() notifications.Config {
	return notifications.Config{
		SenderEmail:          c.SenderEmail,
		SenderName:           c.SenderName,
		RecipientEmail:       c.RecipientEmail,
		APIKey:               c.APIKey,
		SubjectTemplate:      c.EmailSubject,
		HTMLTemplatePath:     c.EmailTemplate,
		SlackTemplatePath:    c.SlackTemplate,
		SlackWebhookURL:      c.SlackWebhook,
		RetryEnabled:         c.RetryEnabled,
		InitialRetryInterval: c.RetryInitialInterval,
		MaxRetryTime:         c.RetryMaxTime,
		SendGridURL:          c.SendGridURL,
		RequestTimeout:       c.RequestTimeout,
		Verbose:              c.Verbose,
	}
}
