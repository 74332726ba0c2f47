package middleware

import (
	"context"
	"log/slog"
	"runtime/debug"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Recover returns middleware that turns a handler panic into an error log,
// so one malformed update never stops the polling loop.
func Recover() bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			defer func() {
				if r := recover(); r != nil {
					var userID int64
					if update.Message != nil && update.Message.From != nil {
						userID = update.Message.From.ID
					}
					slog.Error("recovered panic while handling update",
						"panic", r,
						"user_id", userID,
						"stack", string(debug.Stack()),
					)
				}
			}()
			next(ctx, b, update)
		}
	}
}
