// Package discord implements the Discord webhook dispatcher.
// This package delivers bot messages to per-channel webhook URLs, handling
// attachment uploads and the rate-limit protocol of the webhook API.
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/festive-hub/festive-bot/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// ClientConfig contains configuration for the webhook client.
type ClientConfig struct {
	// NotifyURL receives puzzle and standings notifications; empty disables
	// the channel
	NotifyURL string

	// StatusURL receives operational status messages; empty disables the
	// channel
	StatusURL string

	// Timeout is the HTTP request timeout
	Timeout time.Duration

	// Logger for structured logging
	Logger *slog.Logger

	// Debug enables debug logging
	Debug bool
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig(notifyURL, statusURL string) ClientConfig {
	return ClientConfig{
		NotifyURL: notifyURL,
		StatusURL: statusURL,
		Timeout:   30 * time.Second,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// CHANNELS
// ══════════════════════════════════════════════════════════════════════════════

// Channel selects which webhook a message is sent to.
type Channel int

const (
	// ChannelNotify carries the festive content: completions, unlocks and
	// standings reports.
	ChannelNotify Channel = iota

	// ChannelStatus carries operational messages: startup, heartbeats and
	// errors.
	ChannelStatus
)

// String returns the channel name for logging.
func (ch Channel) String() string {
	switch ch {
	case ChannelNotify:
		return "notify"
	case ChannelStatus:
		return "status"
	default:
		return fmt.Sprintf("channel(%d)", int(ch))
	}
}

// Attachment is a file uploaded alongside a message.
type Attachment struct {
	Name string
	Data []byte
}

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// Client is the Discord webhook client.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new webhook client.
func NewClient(config ClientConfig) *Client {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: config.Logger,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// SENDING MESSAGES
// ══════════════════════════════════════════════════════════════════════════════

// Send delivers one message to the channel's webhook, blocking until the
// webhook accepts it. Rate-limit responses are honored by sleeping for the
// server-provided interval and retrying the identical payload, as many times
// as it takes. A channel with no URL configured swallows the message and
// reports success, so the bot runs unchanged with either webhook absent.
func (c *Client) Send(ctx context.Context, channel Channel, content string, attachments ...Attachment) error {
	url, err := c.webhookURL(channel)
	if err != nil {
		return err
	}
	if url == "" {
		c.logger.Info("webhook not configured, dropping message",
			"channel", channel.String())
		return nil
	}

	payload, contentType, err := encodePayload(content, attachments)
	if err != nil {
		return err
	}

	if c.config.Debug {
		c.logger.Debug("webhook request",
			"channel", channel.String(),
			"attachments", len(attachments))
	}

	for {
		retry, wait, err := c.post(ctx, url, contentType, payload)
		if err != nil {
			return err
		}
		if !retry {
			return nil
		}

		c.logger.Warn("webhook rate limited",
			"channel", channel.String(),
			"retry_after", wait)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// webhookURL resolves the destination for a channel. The switch is the
// single place a new channel has to be registered.
func (c *Client) webhookURL(channel Channel) (string, error) {
	switch channel {
	case ChannelNotify:
		return c.config.NotifyURL, nil
	case ChannelStatus:
		return c.config.StatusURL, nil
	default:
		return "", shared.NewError("webhook", "Send", shared.ErrConversion,
			fmt.Sprintf("no webhook for %s", channel))
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// PAYLOAD ENCODING
// ══════════════════════════════════════════════════════════════════════════════

// messageDTO is the JSON body of a webhook message.
type messageDTO struct {
	Content string `json:"content"`
}

// rateLimitDTO is the body of a 429 response. RetryAfter is in fractional
// seconds; a missing field decodes as zero and retries immediately.
type rateLimitDTO struct {
	RetryAfter float64 `json:"retry_after"`
}

// encodePayload builds the request body. Messages without attachments are
// plain JSON; attachments switch the body to multipart form data with the
// JSON under the payload_json field and one files[i] part per attachment.
func encodePayload(content string, attachments []Attachment) (payload []byte, contentType string, err error) {
	body, err := json.Marshal(messageDTO{Content: content})
	if err != nil {
		return nil, "", shared.WrapError("webhook", "Send", shared.ErrParse, "marshal message", err)
	}

	if len(attachments) == 0 {
		return body, "application/json", nil
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField("payload_json", string(body)); err != nil {
		return nil, "", shared.WrapError("webhook", "Send", shared.ErrParse, "write payload_json", err)
	}

	for i, attachment := range attachments {
		part, err := writer.CreateFormFile(fmt.Sprintf("files[%d]", i), attachment.Name)
		if err != nil {
			return nil, "", shared.WrapError("webhook", "Send", shared.ErrParse, "create form file", err)
		}
		if _, err := part.Write(attachment.Data); err != nil {
			return nil, "", shared.WrapError("webhook", "Send", shared.ErrParse, "write attachment", err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", shared.WrapError("webhook", "Send", shared.ErrParse, "finalize multipart body", err)
	}

	return buf.Bytes(), writer.FormDataContentType(), nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HTTP REQUEST HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// post performs a single webhook POST. It reports whether the message was
// rate limited and should be retried after the returned wait.
func (c *Client) post(ctx context.Context, url, contentType string, payload []byte) (retry bool, wait time.Duration, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return false, 0, shared.WrapError("webhook", "Send", shared.ErrHTTP, "create request", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, 0, shared.WrapError("webhook", "Send", shared.ErrHTTP, "http request", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, 0, shared.WrapError("webhook", "Send", shared.ErrHTTP, "read response", err)
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return false, 0, nil

	case http.StatusTooManyRequests:
		var rateLimit rateLimitDTO
		if err := json.Unmarshal(respBody, &rateLimit); err != nil {
			return false, 0, shared.WrapError("webhook", "Send", shared.ErrParse, "decode rate limit response", err)
		}
		return true, time.Duration(rateLimit.RetryAfter * float64(time.Second)), nil

	default:
		return false, 0, shared.NewError("webhook", "Send", shared.ErrHTTP,
			fmt.Sprintf("webhook returned status %d", resp.StatusCode))
	}
}
