// Package telegram is a minimal Bot API client covering what the capture
// bot needs: resolving and downloading files, sending replies, and
// registering the webhook.
package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

const requestTimeout = 30 * time.Second

// Client talks to the Bot API for a single bot token.
type Client struct {
	http  *resty.Client
	token string
}

// apiResponse is the Bot API envelope.
type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description"`
}

// NewClient creates a Bot API client. baseURL is normally
// "https://api.telegram.org"; tests point it at a local server.
func NewClient(baseURL, token string) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(requestTimeout),
		token: token,
	}
}

// call invokes a Bot API method and unmarshals the result into out when
// out is non-nil.
func (c *Client) call(ctx context.Context, method string, params map[string]string, out any) error {
	var env apiResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(params).
		SetResult(&env).
		SetError(&env).
		Post("/bot" + c.token + "/" + method)
	if err != nil {
		return fmt.Errorf("telegram: %s: %w", method, err)
	}
	if resp.IsError() || !env.OK {
		desc := env.Description
		if desc == "" {
			desc = resp.Status()
		}
		return fmt.Errorf("telegram: %s: %s", method, desc)
	}
	if out != nil {
		if err := json.Unmarshal(env.Result, out); err != nil {
			return fmt.Errorf("telegram: %s: decode result: %w", method, err)
		}
	}
	return nil
}

// GetFile resolves a file_id to a downloadable file path.
func (c *Client) GetFile(ctx context.Context, fileID string) (*File, error) {
	var f File
	if err := c.call(ctx, "getFile", map[string]string{"file_id": fileID}, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// DownloadFile fetches the raw bytes for a file path returned by GetFile.
func (c *Client) DownloadFile(ctx context.Context, filePath string) ([]byte, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get("/file/bot" + c.token + "/" + filePath)
	if err != nil {
		return nil, fmt.Errorf("telegram: download %s: %w", filePath, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("telegram: download %s: %s", filePath, resp.Status())
	}
	return resp.Body(), nil
}

// Download resolves and fetches a file in one step.
func (c *Client) Download(ctx context.Context, fileID string) ([]byte, error) {
	f, err := c.GetFile(ctx, fileID)
	if err != nil {
		return nil, err
	}
	return c.DownloadFile(ctx, f.FilePath)
}

// SendMessage sends a plain-text reply to the chat.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	return c.call(ctx, "sendMessage", map[string]string{
		"chat_id": strconv.FormatInt(chatID, 10),
		"text":    text,
	}, nil)
}

// SetWebhook registers the webhook URL with an optional secret token that
// Telegram echoes back in the X-Telegram-Bot-Api-Secret-Token header.
func (c *Client) SetWebhook(ctx context.Context, url, secret string) error {
	params := map[string]string{"url": url}
	if secret != "" {
		params["secret_token"] = secret
	}
	return c.call(ctx, "setWebhook", params, nil)
}
