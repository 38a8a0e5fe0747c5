package maxapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	maxbot "github.com/max-messenger/max-bot-api-client-go"
	"github.com/max-messenger/max-bot-api-client-go/schemes"
)

const defaultBaseURL = "https://botapi.max.ru"

// Client implements API on top of the MAX bot client. The member
// permission endpoints are not wrapped by the client library, so those two
// calls go to the REST API directly.
type Client struct {
	logger  *slog.Logger
	bot     *maxbot.Api
	http    *http.Client
	baseURL string
	token   string
}

func NewClient(logger *slog.Logger, bot *maxbot.Api, token string) *Client {
	return &Client{
		logger:  logger,
		bot:     bot,
		http:    &http.Client{Timeout: 10 * time.Second},
		baseURL: defaultBaseURL,
		token:   token,
	}
}

func (c *Client) SendChatMessage(ctx context.Context, chatID int64, text string, buttons [][]Button) (string, error) {
	msg := maxbot.NewMessage()
	msg.SetChat(chatID)
	return c.send(ctx, msg, text, buttons)
}

func (c *Client) SendUserMessage(ctx context.Context, userID int64, text string, buttons [][]Button) (string, error) {
	msg := maxbot.NewMessage()
	msg.SetUser(userID)
	return c.send(ctx, msg, text, buttons)
}

func (c *Client) send(ctx context.Context, msg *maxbot.Message, text string, buttons [][]Button) (string, error) {
	msg.SetText(text)
	msg.SetFormat("markdown")
	if len(buttons) > 0 {
		kb := c.bot.Messages.NewKeyboardBuilder()
		for _, row := range buttons {
			r := kb.AddRow()
			for _, b := range row {
				r.AddCallback(b.Text, intentScheme(b.Intent), b.Payload)
			}
		}
		msg.AddKeyboard(kb)
	}
	respMsg, err := c.bot.Messages.SendWithResult(ctx, msg)
	if err != nil {
		return "", fmt.Errorf("failed to send message: %w", err)
	}
	if respMsg == nil || respMsg.Body.Mid == "" {
		c.logger.Warn("Message sent but id is missing in response")
		return "", nil
	}
	return respMsg.Body.Mid, nil
}

func (c *Client) DeleteMessage(ctx context.Context, messageID string) error {
	if _, err := c.bot.Messages.DeleteMessage(ctx, messageID); err != nil {
		return fmt.Errorf("failed to delete message %s: %w", messageID, err)
	}
	return nil
}

func (c *Client) SetMemberCanSend(ctx context.Context, chatID, userID int64, canSend bool) error {
	body := map[string]any{"sendMessages": canSend}
	return c.memberRequest(ctx, http.MethodPatch, chatID, userID, body)
}

func (c *Client) RemoveMember(ctx context.Context, chatID, userID int64) error {
	return c.memberRequest(ctx, http.MethodDelete, chatID, userID, nil)
}

func (c *Client) GetChatTitle(ctx context.Context, chatID int64) (string, error) {
	chat, err := c.bot.Chats.GetChat(ctx, chatID)
	if err != nil {
		return "", fmt.Errorf("failed to get chat: %w", err)
	}
	return chat.Title, nil
}

func (c *Client) memberRequest(ctx context.Context, method string, chatID, userID int64, body map[string]any) error {
	url := fmt.Sprintf("%s/chats/%d/members/%d", c.baseURL, chatID, userID)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode member request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to build member request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("member request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Warn("Failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("member request %s %s returned %d: %s", method, url, resp.StatusCode, data)
	}
	return nil
}

func intentScheme(i ButtonIntent) schemes.Intent {
	switch i {
	case IntentPositive:
		return schemes.POSITIVE
	case IntentNegative:
		return schemes.NEGATIVE
	default:
		return schemes.DEFAULT
	}
}
