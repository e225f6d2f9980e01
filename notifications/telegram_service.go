package notifications

import (
	"context"
	"log"
	"time"

	"github.com/go-telegram/bot"

	config "github.com/beinghouse/miniapp-backend/configs"
)

var tgBot *bot.Bot

func InitTelegramService() {
	token := config.Config("TELEGRAM_BOT_TOKEN")
	if token == "" {
		log.Println("Warning: TELEGRAM_BOT_TOKEN not set, user notifications disabled")
		return
	}

	b, err := bot.New(token)
	if err != nil {
		log.Printf("🔥 Failed to initialize Telegram bot: %v", err)
		return
	}

	tgBot = b
	log.Println("✅ Telegram notification service initialized")
}

// SendTelegramMessage DMs the user through the bot. Fire-and-forget: a failed
// notification never affects the triggering request.
func SendTelegramMessage(telegramID int64, text string) {
	if tgBot == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := tgBot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: telegramID,
		Text:   text,
	})
	if err != nil {
		log.Printf("Failed to send Telegram message to %d: %v", telegramID, err)
	}
}
