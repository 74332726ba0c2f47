package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/dremassist/obrabot/internal/engine"
)

// Handler bridges Telegram updates to the conversation engine.
type Handler struct {
	engine *engine.Engine
}

func NewHandler(e *engine.Engine) *Handler {
	return &Handler{engine: e}
}

// HandleUpdate converts an update into an engine message and processes it.
// Each update runs on its own goroutine; per-user serialization happens in
// the engine.
func (h *Handler) HandleUpdate(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	text := msg.Text
	if text == "" {
		text = msg.Caption
	}

	em := engine.Message{
		Sender:  strconv.FormatInt(msg.From.ID, 10),
		Name:    strings.TrimSpace(msg.From.FirstName + " " + msg.From.LastName),
		IsGroup: msg.Chat.Type != "private",
		Text:    text,
	}

	if media, err := extractMedia(ctx, b, msg); err != nil {
		slog.Error("download media", "error", err, "user_id", em.Sender)
	} else {
		em.Media = media
	}

	h.engine.HandleMessage(ctx, em, &replier{b: b, chatID: msg.Chat.ID})
}

func extractMedia(ctx context.Context, b *bot.Bot, msg *models.Message) (*engine.Media, error) {
	switch {
	case msg.Voice != nil:
		data, err := DownloadFile(ctx, b, msg.Voice.FileID)
		if err != nil {
			return nil, err
		}
		return &engine.Media{Data: data, MimeType: orDefault(msg.Voice.MimeType, "audio/ogg"), Voice: true}, nil
	case msg.Audio != nil:
		data, err := DownloadFile(ctx, b, msg.Audio.FileID)
		if err != nil {
			return nil, err
		}
		return &engine.Media{Data: data, MimeType: orDefault(msg.Audio.MimeType, "audio/mpeg"), Voice: true}, nil
	case len(msg.Photo) > 0:
		// Highest resolution is last
		photo := msg.Photo[len(msg.Photo)-1]
		data, err := DownloadFile(ctx, b, photo.FileID)
		if err != nil {
			return nil, err
		}
		return &engine.Media{Data: data, MimeType: "image/jpeg"}, nil
	case msg.Document != nil:
		data, err := DownloadFile(ctx, b, msg.Document.FileID)
		if err != nil {
			return nil, err
		}
		return &engine.Media{Data: data, MimeType: orDefault(msg.Document.MimeType, "application/octet-stream")}, nil
	}
	return nil, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

type replier struct {
	b      *bot.Bot
	chatID int64
}

func (r *replier) Reply(ctx context.Context, text string) error {
	return SendLongMessage(ctx, r.b, r.chatID, text)
}

func (r *replier) ReplyDocument(ctx context.Context, path, caption string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	_, err = r.b.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID:   r.chatID,
		Document: &models.InputFileUpload{Filename: filepath.Base(path), Data: f},
		Caption:  caption,
	})
	if err != nil {
		return fmt.Errorf("send document: %w", err)
	}
	return nil
}

func (r *replier) Typing(ctx context.Context) func() {
	cancel := StartTyping(ctx, r.b, r.chatID)
	return func() { cancel() }
}
