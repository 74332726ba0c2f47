package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Logging returns middleware that logs update processing time.
func Logging() bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			start := time.Now()

			var chatID, userID int64
			hasMedia := false
			if update.Message != nil {
				chatID = update.Message.Chat.ID
				if update.Message.From != nil {
					userID = update.Message.From.ID
				}
				hasMedia = update.Message.Voice != nil || update.Message.Audio != nil ||
					len(update.Message.Photo) > 0 || update.Message.Document != nil
			}

			next(ctx, b, update)

			slog.Debug("update processed",
				"chat_id", chatID,
				"user_id", userID,
				"has_media", hasMedia,
				"duration", time.Since(start),
			)
		}
	}
}
