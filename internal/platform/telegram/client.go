package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"crewhub-backend/internal/common/config"
	"crewhub-backend/internal/common/logger"
)

// Client wraps the Telegram Bot API for replies and group notifications.
type Client struct {
	api         *tgbotapi.BotAPI
	groupChatID int64
}

func NewClient(cfg *config.Config) (*Client, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot api: %w", err)
	}
	api.Debug = cfg.Debug

	logger.Info().Str("bot", api.Self.UserName).Msg("Telegram client initialized")

	return &Client{api: api, groupChatID: cfg.Telegram.GroupChatID}, nil
}

// SendMessage sends plain text to the given chat.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	_, err := c.api.Send(tgbotapi.NewMessage(chatID, text))
	if err != nil {
		return fmt.Errorf("failed to send message to chat %d: %w", chatID, err)
	}
	return nil
}

// SendKeyboard sends text with a reply keyboard attached.
func (c *Client) SendKeyboard(ctx context.Context, chatID int64, text string, keyboard tgbotapi.ReplyKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	if _, err := c.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send keyboard to chat %d: %w", chatID, err)
	}
	return nil
}

// Notify sends text to the configured group chat. Callers treat delivery
// as best-effort; the error is for logging only.
func (c *Client) Notify(ctx context.Context, text string) error {
	return c.SendMessage(ctx, c.groupChatID, text)
}
