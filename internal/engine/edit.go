package engine

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dremassist/obrabot/internal/domain"
	"github.com/dremassist/obrabot/internal/session"
)

// handleAwaitingEditDesc turns a text or voice description of desired
// changes into a merged preview of the selected purchase.
func (e *Engine) handleAwaitingEditDesc(ctx context.Context, msg Message, r Replier, data *session.Data) {
	if data.List == nil || data.List.Selected == nil {
		e.reply(ctx, r, sessionExpiredMsg)
		e.cleanup(msg.Sender, data)
		return
	}
	selected := data.List.Selected

	var text string
	if msg.Media != nil && msg.Media.Voice {
		e.reply(ctx, r, "Processando áudio...")
		transcribed, err := e.transcriber.Transcribe(ctx, msg.Media.Data, msg.Media.MimeType)
		if err != nil {
			slog.Error("transcribe edit audio", "error", err)
		}
		text = strings.TrimSpace(transcribed)
	} else {
		text = strings.TrimSpace(msg.Text)
	}
	if text == "" {
		e.reply(ctx, r, "❌ Não consegui entender a descrição.")
		return
	}

	e.reply(ctx, r, "Analisando as alterações...")
	changes, err := e.extractor.Extract(ctx, text)
	if err != nil || changes.Empty() {
		if err != nil {
			slog.Error("extract edit changes", "error", err)
		}
		e.reply(ctx, r, "❌ Não identifiquei nenhuma informação para alterar. Tente novamente.")
		return
	}

	original := selected.Fields()
	merged := domain.Merge(original, changes)
	data.List.Edited = &merged
	data.State = domain.StateAwaitingEditConfirm

	preview := FormatPurchaseComparison(original, merged, len(selected.Anexos), "*PREVIEW DA EDIÇÃO*") +
		"\nAs alterações estão *corretas*? Responda com *sim* para confirmar."
	e.reply(ctx, r, preview)
}

// handleAwaitingEditConfirm submits the merged fields as a partial update.
// Anything other than a confirmation discards the edit. Terminal.
func (e *Engine) handleAwaitingEditConfirm(ctx context.Context, msg Message, r Replier, data *session.Data) {
	if !isYes(msg.Text) {
		e.reply(ctx, r, "Ok, edição descartada.")
		e.cleanup(msg.Sender, data)
		return
	}

	if data.List == nil || data.List.Selected == nil || data.List.Edited == nil {
		e.reply(ctx, r, sessionExpiredMsg)
		e.cleanup(msg.Sender, data)
		return
	}
	selected := data.List.Selected

	e.reply(ctx, r, "✅ Confirmado! Salvando as alterações...")
	if err := e.purchases.Update(ctx, selected.UserID, selected.ID, *data.List.Edited); err != nil {
		slog.Error("update purchase", "error", err, "purchase_id", selected.ID)
		e.reply(ctx, r, "❌ Falha ao atualizar a compra.")
	} else {
		e.reply(ctx, r, "✨ *Compra atualizada com sucesso no sistema!*")
	}
	e.cleanup(msg.Sender, data)
}
