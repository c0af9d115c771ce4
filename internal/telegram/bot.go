package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"sheet-alert-bot/internal/commands"
)

// NewBot creates new telegram bot
func NewBot(c BotConfig, handler *commands.Handler) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(c.Token)
	if err != nil {
		return nil, errors.Wrap(err, "could not create telegram bot")
	}

	bot.Debug = c.Debug

	return &Bot{
		Bot:      bot,
		Config:   c,
		Commands: handler,
	}, nil
}

// GetUpdatesChannel gets new updates
func (b *Bot) GetUpdatesChannel() (tgbotapi.UpdatesChannel, error) {
	updatesConfig := tgbotapi.NewUpdate(0)
	if b.Config.UpdatesTimeout > 0 {
		updatesConfig.Timeout = b.Config.UpdatesTimeout
	}
	return b.Bot.GetUpdatesChan(updatesConfig), nil
}

// SendMessage sends a telegram message
func (b *Bot) SendMessage(m Message) error {
	msg := tgbotapi.NewMessage(m.ChatID, m.Text)
	msg.ReplyToMessageID = m.MessageID
	msg.DisableWebPagePreview = true
	msg.ParseMode = "MarkdownV2"
	_, err := b.Bot.Send(msg)
	return errors.Wrapf(err, "could not send message: %v", m)
}

// Notify delivers an alert notification to a chat.
func (b *Bot) Notify(chatID int64, text string) error {
	return b.SendMessage(Message{ChatID: chatID, Text: text})
}

// HandleUpdate processes Telegram updates
func (b *Bot) HandleUpdate(u tgbotapi.Update) string {
	log.Debugf("received command: %s", u.Message.Command())

	chatID := u.Message.Chat.ID
	args := strings.Fields(u.Message.CommandArguments())

	switch u.Message.Command() {
	case "preco":
		return b.Commands.Price(args)
	case "alerta":
		return b.Commands.SetAlert(chatID, args)
	case "alertas":
		return b.Commands.ListAlerts(chatID)
	case "remover":
		return b.Commands.RemoveAlert(chatID, args)
	case "mapa":
		return b.Commands.Map()
	}

	return b.Commands.Start()
}
