package notifications

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

const maxResponseBody = 64 * 1024

// Attempt is the result of a single POST.
type Attempt struct {
	Channel    Channel
	HTTPStatus int
	Body       string
	Err        error
}

// Success is true when the provider accepted the message.
func (a Attempt) Success() bool {
	return a.Err == nil && a.Channel.Accepts(a.HTTPStatus)
}

// Client performs single delivery attempts.
type Client struct {
	log     logrus.FieldLogger
	verbose bool
}

// NewClient returns a delivery client that logs to log.
func NewClient(log logrus.FieldLogger, verbose bool) *Client {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Client{log: log, verbose: verbose}
}

// baseHTTPClient never reuses connections between attempts.
func baseHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:             http.ProxyFromEnvironment,
			DisableKeepAlives: true,
		},
	}
}

// emailHTTPClient adds the SendGrid bearer token to every request.
func emailHTTPClient(ctx context.Context, apiKey string, timeout time.Duration) *http.Client {
	base := baseHTTPClient(timeout)
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: apiKey,
		TokenType:   "Bearer",
	}))
	client.Timeout = timeout
	return client
}

// SendOnce POSTs payload to url exactly once and classifies the response.
func (c *Client) SendOnce(ctx context.Context, channel Channel, httpClient *http.Client, url string, payload []byte) Attempt {
	attempt := Attempt{Channel: channel}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		attempt.Err = &TransportError{Channel: channel, Err: err}
		return attempt
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := httpClient.Do(req)
	if err != nil {
		attempt.Err = &TransportError{Channel: channel, Err: err}
		return attempt
	}
	defer res.Body.Close()

	attempt.HTTPStatus = res.StatusCode
	body, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBody))
	if err == nil {
		attempt.Body = string(body)
	}
	if c.verbose {
		c.log.WithFields(logrus.Fields{
			"channel": channel,
			"status":  res.StatusCode,
		}).Debugf("provider response: %s", attempt.Body)
	}

	if !channel.Accepts(res.StatusCode) {
		attempt.Err = &DeliveryRejected{Channel: channel, Status: res.StatusCode}
	}
	return attempt
}
