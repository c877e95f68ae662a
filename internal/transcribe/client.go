// Package transcribe integrates the ElevenLabs Scribe speech-to-text API.
package transcribe

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
)

const (
	defaultBaseURL = "https://api.elevenlabs.io"
	scribeModel    = "scribe_v1"
	requestTimeout = 60 * time.Second
	maxRetries     = 3
)

type scribeResponse struct {
	Text string `json:"text"`
}

// Client calls the Scribe API. Transient failures (network, 5xx) are retried
// with exponential backoff; 4xx responses fail immediately.
type Client struct {
	http   *resty.Client
	apiKey string
}

// Option customises a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL (used in tests).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.http.SetBaseURL(u)
	}
}

// NewClient creates a Scribe client with the given API key.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		http: resty.New().
			SetBaseURL(defaultBaseURL).
			SetTimeout(requestTimeout),
		apiKey: apiKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Transcribe sends MP3 audio bytes to Scribe and returns the recognized
// text. An empty string is a valid "no speech" result.
func (c *Client) Transcribe(ctx context.Context, audio []byte) (string, error) {
	var text string

	op := func() error {
		var result scribeResponse
		resp, err := c.http.R().
			SetContext(ctx).
			SetHeader("xi-api-key", c.apiKey).
			SetFileReader("file", "voice.mp3", bytes.NewReader(audio)).
			SetFormData(map[string]string{"model_id": scribeModel}).
			SetResult(&result).
			Post("/v1/speech-to-text")
		if err != nil {
			return err
		}
		if resp.StatusCode() >= 500 {
			return fmt.Errorf("scribe: status %s", resp.Status())
		}
		if resp.IsError() {
			return backoff.Permanent(fmt.Errorf("scribe: status %s: %s", resp.Status(), resp.String()))
		}
		text = result.Text
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return "", fmt.Errorf("transcribe: %w", err)
	}
	return text, nil
}
