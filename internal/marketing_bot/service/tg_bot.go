package service

import (
	"context"
	"github.com/DenisKhanov/MarketingBot/internal/marketing_bot/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
	"unicode/utf16"
)

// TelegramMessageLimit is the maximum message length accepted by Telegram, in UTF-16 code units.
const TelegramMessageLimit = 4096

// BotSender is the part of *tgbotapi.BotAPI used by the bot.
type BotSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// InputHandler turns one user event into replies.
type InputHandler interface {
	HandleInput(ctx context.Context, ev models.Event) []models.Reply
}

// TgBotServices connects Telegram updates to the dialog.
type TgBotServices struct {
	Bot        BotSender    // Telegram Bot API instance.
	Handler    InputHandler // Dialog state machine.
	dispatcher *Dispatcher  // Per-user ordered mailboxes
}

// NewTgBot creates a new TgBotServices instance.
// Arguments:
//   - bot: Telegram Bot API instance.
//   - handler: dialog that produces the replies.
//
// Returns a pointer to a TgBotServices.
func NewTgBot(bot BotSender, handler InputHandler) *TgBotServices {
	b := &TgBotServices{Bot: bot, Handler: handler}
	b.dispatcher = NewDispatcher(b.process)
	return b
}

// Run consumes updates until ctx is done or the channel is closed, then waits
// for queued events to be answered. Handlers get workCtx so that events
// already accepted are not cut short by the shutdown signal.
func (b *TgBotServices) Run(ctx, workCtx context.Context, updates tgbotapi.UpdatesChannel) {
	b.dispatcher.Start(workCtx)
	defer b.dispatcher.Close()

	for {
		select {
		case <-ctx.Done():
			logrus.Info("Stopping update loop, draining queued events")
			return
		case update, ok := <-updates:
			if !ok {
				logrus.Warn("Telegram update chan closed")
				return
			}
			b.UpdateProcessing(&update)
		}
	}
}

// UpdateProcessing converts an update into an event and queues it in the user's mailbox.
// Callback queries are acknowledged right away so the client stops its spinner.
func (b *TgBotServices) UpdateProcessing(update *tgbotapi.Update) {
	if update.CallbackQuery != nil {
		if _, err := b.Bot.Request(tgbotapi.NewCallback(update.CallbackQuery.ID, "")); err != nil {
			logrus.WithError(err).Warn("Failed to answer callback query")
		}
	}
	ev, ok := EventFromUpdate(update)
	if !ok {
		return
	}
	if !b.dispatcher.Dispatch(ev) {
		logrus.WithField("user_id", ev.UserID).Warn("Event dropped, dispatcher closed")
	}
}

func (b *TgBotServices) process(ctx context.Context, ev models.Event) {
	for _, reply := range b.Handler.HandleInput(ctx, ev) {
		if err := b.sendReply(ev.ChatID, reply); err != nil {
			logrus.WithError(err).WithField("chat_id", ev.ChatID).Error("Failed to deliver reply")
		}
	}
}

// EventFromUpdate extracts the user event from a Telegram update.
// It reports false for updates the bot does not react to.
func EventFromUpdate(update *tgbotapi.Update) (models.Event, bool) {
	if cq := update.CallbackQuery; cq != nil {
		if cq.From == nil {
			return models.Event{}, false
		}
		chatID := cq.From.ID
		if cq.Message != nil && cq.Message.Chat != nil {
			chatID = cq.Message.Chat.ID
		}
		return models.Event{UserID: cq.From.ID, ChatID: chatID, Kind: models.EventChoice, Text: cq.Data}, true
	}

	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat == nil {
		return models.Event{}, false
	}
	if msg.IsCommand() {
		return models.Event{UserID: msg.From.ID, ChatID: msg.Chat.ID, Kind: models.EventCommand, Text: "/" + msg.Command()}, true
	}
	if msg.Text == "" {
		return models.Event{}, false
	}
	return models.Event{UserID: msg.From.ID, ChatID: msg.Chat.ID, Kind: models.EventText, Text: msg.Text}, true
}

// sendReply sends the reply text, split to fit Telegram limits.
// The inline keyboard goes with the last part.
func (b *TgBotServices) sendReply(chatID int64, reply models.Reply) error {
	parts := SplitMessage(reply.Text, TelegramMessageLimit)
	for i, part := range parts {
		var markup interface{}
		if i == len(parts)-1 && len(reply.Choices) > 0 {
			markup = InlineKeyboard(reply.Choices)
		}
		if err := b.sendMessage(chatID, part, markup); err != nil {
			return err
		}
	}
	return nil
}

// sendMessage sends a message to the specified chat with optional markup.
// Arguments:
//   - chatID: the ID of the chat to send the message to.
//   - text: the text content of the message.
//   - markup: an optional keyboard or inline markup (nil if none).
//
// Returns an error if the message fails to send.
func (b *TgBotServices) sendMessage(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	_, err := b.Bot.Send(msg)
	if err != nil {
		logrus.WithError(err).Errorf("Failed to send message to chat %d", chatID)
	}
	return err
}

// InlineKeyboard lays out choices one button per row.
func InlineKeyboard(choices []models.Choice) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(choices))
	for _, c := range choices {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(c.Label, c.Data)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// SplitMessage cuts text into parts of at most limit UTF-16 code units, the
// unit Telegram counts message length in. It prefers to cut after a newline in
// the second half of a part and never splits a rune.
func SplitMessage(text string, limit int) []string {
	if limit <= 0 || utf16Len(text) <= limit {
		return []string{text}
	}
	runes := []rune(text)
	var parts []string
	for len(runes) > 0 {
		end, units := 0, 0
		for end < len(runes) {
			n := utf16.RuneLen(runes[end])
			if n < 0 {
				n = 1
			}
			if units+n > limit {
				break
			}
			units += n
			end++
		}
		if end == len(runes) {
			parts = append(parts, string(runes))
			break
		}
		if end == 0 {
			end = 1
		}
		cut := end
		for i := end; i > end/2; i-- {
			if runes[i-1] == '\n' {
				cut = i
				break
			}
		}
		parts = append(parts, string(runes[:cut]))
		runes = runes[cut:]
	}
	return parts
}

func utf16Len(text string) int {
	n := 0
	for _, r := range text {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}
