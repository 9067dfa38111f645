// Package telegram adapts the Telegram Bot API to the engine's event and
// notifier boundaries. Everything transport-specific (update offsets,
// keyboards, callback queries) stays in here.
package telegram

import (
	"context"
	"time"

	"github.com/example/freshmart/pkg/bot"
	"github.com/example/freshmart/pkg/notify"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const (
	// pollTimeout caps the long-poll wait, in seconds.
	pollTimeout = 30
	batchPause  = time.Second
	errorPause  = 5 * time.Second
)

type Client struct {
	api    *tgbotapi.BotAPI
	logger *zap.Logger
}

func NewClient(token string, logger *zap.Logger) (*Client, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	logger.Info("Telegram bot authorized", zap.String("username", api.Self.UserName))
	return &Client{api: api, logger: logger}, nil
}

// Send implements notify.Notifier. Delivery failures are logged and reported
// only as a boolean; chat delivery is best-effort by nature.
func (c *Client) Send(recipient int64, text string) bool {
	msg := tgbotapi.NewMessage(recipient, text)
	msg.ParseMode = tgbotapi.ModeHTML
	return c.push(msg)
}

func (c *Client) SendReplyMenu(recipient int64, text string, rows [][]string) bool {
	msg := tgbotapi.NewMessage(recipient, text)
	msg.ParseMode = tgbotapi.ModeHTML

	keyboard := make([][]tgbotapi.KeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgbotapi.KeyboardButton, 0, len(row))
		for _, label := range row {
			buttons = append(buttons, tgbotapi.NewKeyboardButton(label))
		}
		keyboard = append(keyboard, buttons)
	}
	msg.ReplyMarkup = tgbotapi.NewReplyKeyboard(keyboard...)
	return c.push(msg)
}

func (c *Client) SendActionMenu(recipient int64, text string, rows [][]notify.Button) bool {
	msg := tgbotapi.NewMessage(recipient, text)
	msg.ParseMode = tgbotapi.ModeHTML

	keyboard := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Token))
		}
		keyboard = append(keyboard, buttons)
	}
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(keyboard...)
	return c.push(msg)
}

func (c *Client) push(msg tgbotapi.MessageConfig) bool {
	if _, err := c.api.Send(msg); err != nil {
		c.logger.Error("Failed to send message",
			zap.Int64("chat_id", msg.ChatID),
			zap.Error(err))
		return false
	}
	return true
}

// Poll pulls update batches and dispatches them strictly in receipt order.
// The offset tracks the highest update id seen, so each update is consumed
// once. Runs until ctx is cancelled; cancellation is checked between
// batches, never mid-batch.
func (c *Client) Poll(ctx context.Context, handle func(context.Context, bot.Event)) {
	offset := 0
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Poll loop stopping")
			return
		default:
		}

		cfg := tgbotapi.NewUpdate(offset)
		cfg.Timeout = pollTimeout
		updates, err := c.api.GetUpdates(cfg)
		if err != nil {
			c.logger.Error("Failed to get updates", zap.Error(err))
			sleep(ctx, errorPause)
			continue
		}

		for _, update := range updates {
			if update.UpdateID >= offset {
				offset = update.UpdateID + 1
			}
			ev, ok := c.eventFrom(update)
			if !ok {
				continue
			}
			handle(ctx, ev)
		}

		sleep(ctx, batchPause)
	}
}

func (c *Client) eventFrom(update tgbotapi.Update) (bot.Event, bool) {
	switch {
	case update.Message != nil && update.Message.Text != "":
		msg := update.Message
		c.logger.Info("Message received",
			zap.Int64("chat_id", msg.Chat.ID),
			zap.String("text", msg.Text))
		return bot.Event{
			ChatID:   msg.Chat.ID,
			SenderID: senderID(msg),
			Text:     msg.Text,
		}, true

	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil:
		cb := update.CallbackQuery
		c.logger.Info("Callback received",
			zap.Int64("chat_id", cb.Message.Chat.ID),
			zap.String("data", cb.Data))
		// Acknowledge so the client stops showing a spinner.
		if _, err := c.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
			c.logger.Warn("Failed to answer callback query", zap.Error(err))
		}
		return bot.Event{
			ChatID:   cb.Message.Chat.ID,
			SenderID: cb.From.ID,
			Action:   bot.ParseAction(cb.Data),
		}, true
	}
	return bot.Event{}, false
}

func senderID(msg *tgbotapi.Message) int64 {
	if msg.From != nil {
		return msg.From.ID
	}
	return msg.Chat.ID
}

func sleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
