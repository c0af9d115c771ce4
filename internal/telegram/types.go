package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"sheet-alert-bot/internal/commands"
)

// BotConfig configuration of the bot
type BotConfig struct {
	Token          string
	Debug          bool
	UpdatesTimeout int
}

// Bot telegram interaction client
type Bot struct {
	Bot      *tgbotapi.BotAPI
	Config   BotConfig
	Commands *commands.Handler
}

// Message a telegram message struct
type Message struct {
	ChatID    int64
	MessageID int
	Text      string
}
