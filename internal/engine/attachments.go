package engine

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/dremassist/obrabot/internal/session"
)

// handleAwaitingAttachToRecord uploads each incoming file straight to
// remote storage and appends the URL to the selected purchase.
func (e *Engine) handleAwaitingAttachToRecord(ctx context.Context, msg Message, r Replier, data *session.Data) {
	if data.List == nil || data.List.Selected == nil {
		e.reply(ctx, r, sessionExpiredMsg)
		e.cleanup(msg.Sender, data)
		return
	}
	selected := data.List.Selected

	if msg.Media != nil {
		stop := r.Typing(ctx)
		defer stop()

		url, err := e.uploadMedia(ctx, msg.Media, msg.Sender)
		if err != nil {
			slog.Error("upload attachment", "error", err)
			e.reply(ctx, r, "❌ Falha ao salvar o anexo. Deseja tentar novamente?")
			return
		}

		if err := e.purchases.AddAttachment(ctx, selected.UserID, selected.ID, url); err != nil {
			slog.Error("append attachment", "error", err, "purchase_id", selected.ID)
			e.reply(ctx, r, "❌ Falha ao salvar o anexo. Deseja tentar novamente?")
			return
		}
		selected.Anexos = append(selected.Anexos, url)
		e.reply(ctx, r, "✅ Anexo salvo com sucesso! Deseja adicionar mais algum arquivo? (responda *sim* ou *não*)")
		return
	}

	lower := strings.ToLower(strings.TrimSpace(msg.Text))
	switch {
	case lower == "sim":
		e.reply(ctx, r, "Ok, aguardando o próximo anexo...")
	case isNo(lower):
		e.reply(ctx, r, "Operação finalizada.")
		e.cleanup(msg.Sender, data)
	default:
		e.reply(ctx, r, "Por favor, envie um anexo ou responda com *sim* ou *não*.")
	}
}

// uploadMedia stages the bytes, uploads them and removes the local file.
func (e *Engine) uploadMedia(ctx context.Context, media *Media, userID string) (string, error) {
	path, err := e.stageAttachment(media, userID)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			slog.Warn("remove staged attachment", "path", path, "error", err)
		}
	}()
	return e.uploader.Upload(ctx, path, userID)
}

// handleAwaitingAttachToDelete removes the chosen attachment URL via a
// partial update. Terminal either way.
func (e *Engine) handleAwaitingAttachToDelete(ctx context.Context, msg Message, r Replier, data *session.Data) {
	if data.List == nil || data.List.Selected == nil {
		e.reply(ctx, r, sessionExpiredMsg)
		e.cleanup(msg.Sender, data)
		return
	}
	selected := data.List.Selected

	index, err := strconv.Atoi(strings.TrimSpace(msg.Text))
	if err != nil || index < 1 || index > len(selected.Anexos) {
		e.reply(ctx, r, "❌ Número inválido. Por favor, digite um número da lista de anexos.")
		return
	}

	e.reply(ctx, r, "Removendo o anexo...")
	url := selected.Anexos[index-1]
	if err := e.purchases.RemoveAttachment(ctx, selected.UserID, selected.ID, url); err != nil {
		slog.Error("remove attachment", "error", err, "purchase_id", selected.ID)
		e.reply(ctx, r, "❌ Falha ao remover o anexo. Tente novamente.")
	} else {
		e.reply(ctx, r, "✅ Anexo removido com sucesso!")
	}
	e.cleanup(msg.Sender, data)
}
