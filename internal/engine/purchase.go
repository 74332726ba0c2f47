package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dremassist/obrabot/internal/config"
	"github.com/dremassist/obrabot/internal/domain"
	"github.com/dremassist/obrabot/internal/session"
)

// handleAwaitingPurchase receives the opening message of the registration
// flow: voice (transcribed), media with caption (staged + described), or
// plain text.
func (e *Engine) handleAwaitingPurchase(ctx context.Context, msg Message, r Replier, data *session.Data) {
	var text string
	var staged string

	switch {
	case msg.Media != nil && msg.Media.Voice:
		stop := r.Typing(ctx)
		transcribed, err := e.transcriber.Transcribe(ctx, msg.Media.Data, msg.Media.MimeType)
		stop()
		if err != nil {
			slog.Error("transcribe purchase audio", "error", err)
		}
		text = strings.TrimSpace(transcribed)
	case msg.Media != nil:
		path, err := e.stageAttachment(msg.Media, msg.Sender)
		if err != nil {
			slog.Error("stage attachment", "error", err)
			e.reply(ctx, r, "❌ Falha ao salvar o anexo. Tente novamente?")
			return
		}
		staged = path
		text = strings.TrimSpace(msg.Text)
	default:
		text = strings.TrimSpace(msg.Text)
	}

	if text == "" {
		if staged != "" {
			data.Draft = &session.Draft{Anexos: []string{staged}}
			data.State = domain.StateAwaitingPurchaseDesc
			e.reply(ctx, r, "Anexo recebido. Envie agora a *descrição* da compra (material, valor, etc).")
			return
		}
		e.reply(ctx, r, "Por favor, descreva a compra por texto ou áudio.")
		return
	}

	draft := &session.Draft{Descricao: text}
	if staged != "" {
		draft.Anexos = []string{staged}
	}
	data.Draft = draft
	data.State = domain.StateAwaitingMoreAttachments

	ack := "Descrição entendida. "
	if staged != "" {
		ack += "Anexo salvo temporariamente. "
	}
	e.reply(ctx, r, ack+"Deseja adicionar mais algum anexo? (*sim* / *não*)")
}

func (e *Engine) handleAwaitingPurchaseDesc(ctx context.Context, msg Message, r Replier, data *session.Data) {
	if data.Draft == nil {
		data.Draft = &session.Draft{}
	}
	data.Draft.Descricao = strings.TrimSpace(msg.Text)
	data.State = domain.StateAwaitingMoreAttachments
	e.reply(ctx, r, "Descrição recebida. Deseja adicionar mais algum anexo a esta compra? (responda *sim* ou *não*)")
}

// handleAwaitingMoreAttachments stages incoming media; "não" closes the
// collection phase, runs structured extraction and moves to confirmation.
func (e *Engine) handleAwaitingMoreAttachments(ctx context.Context, msg Message, r Replier, data *session.Data) {
	if msg.Media != nil {
		path, err := e.stageAttachment(msg.Media, msg.Sender)
		if err != nil {
			slog.Error("stage attachment", "error", err)
			e.reply(ctx, r, "❌ Falha ao salvar o anexo. Tente novamente?")
			return
		}
		if data.Draft == nil {
			data.Draft = &session.Draft{}
		}
		data.Draft.Anexos = append(data.Draft.Anexos, path)
		e.reply(ctx, r, "✅ Anexo salvo temporariamente! Deseja adicionar mais algum? (*sim* / *não*)")
		return
	}

	lower := strings.ToLower(strings.TrimSpace(msg.Text))
	switch {
	case lower == "sim":
		e.reply(ctx, r, "Ok, aguardando o próximo anexo...")
	case isNo(lower):
		if data.Draft == nil || data.Draft.Descricao == "" {
			e.reply(ctx, r, "❌ A descrição da compra está faltando. Vamos cancelar e tentar de novo.")
			e.cleanup(msg.Sender, data)
			return
		}

		stop := r.Typing(ctx)
		fields, err := e.extractor.Extract(ctx, data.Draft.Descricao)
		stop()
		if err != nil || fields.Material == "" {
			if err != nil {
				slog.Error("extract purchase details", "error", err)
			}
			e.reply(ctx, r, "❌ Não consegui entender a descrição da compra. Vamos cancelar e tentar de novo.")
			e.cleanup(msg.Sender, data)
			return
		}

		data.Draft.Fields = fields
		data.State = domain.StateAwaitingConfirmation
		confirmation := FormatPurchaseDetails(fields, "🔍 *CONFIRA OS DADOS FINAIS:*") +
			fmt.Sprintf("📎 *Anexos:* %d arquivo(s) pronto(s) para upload.\n\n", len(data.Draft.Anexos)) +
			"Os dados estão *corretos*? Responda com *sim* para salvar tudo, ou *não* para corrigir algo."
		e.reply(ctx, r, confirmation)
	default:
		e.reply(ctx, r, "Resposta inválida. Por favor, envie outro anexo ou responda com *sim* ou *não*.")
	}
}

func (e *Engine) handleAwaitingConfirmation(ctx context.Context, msg Message, r Replier, data *session.Data) {
	if data.Draft == nil {
		e.reply(ctx, r, "Sessão expirada. Tente registrar a compra novamente.")
		e.cleanup(msg.Sender, data)
		return
	}

	switch {
	case isYes(msg.Text):
		e.reply(ctx, r, "✅ Confirmado! Salvando sua compra e fazendo upload dos anexos...")
		categoria, err := e.persistDraft(ctx, msg, data)
		if err != nil {
			slog.Error("persist purchase", "error", err, "user_id", msg.Sender)
			e.reply(ctx, r, "❌ Falha ao salvar a compra. Tente novamente.")
		} else {
			e.reply(ctx, r, "✨ *Compra registrada com sucesso no sistema!*")
			e.checkBudget(ctx, r, categoria)
		}
		e.cleanup(msg.Sender, data)
	case isNo(msg.Text):
		data.State = domain.StateAwaitingCorrection
		e.reply(ctx, r, `Ok. Por favor, me diga o que precisa ser corrigido (ex: "o valor total é 150 reais").`)
	default:
		e.reply(ctx, r, "❌ Resposta inválida. Por favor, responda com *sim* ou *não*.")
	}
}

// persistDraft uploads staged attachments and creates the purchase. Failed
// uploads are skipped, not fatal; the local file goes away either way.
// Returns the saved categoria for the budget check.
func (e *Engine) persistDraft(ctx context.Context, msg Message, data *session.Data) (string, error) {
	draft := data.Draft
	if draft == nil || draft.Fields.Material == "" {
		return "", domain.ErrNoMaterial
	}

	urls := make([]string, 0, len(draft.Anexos))
	for _, path := range draft.Anexos {
		url, err := e.uploader.Upload(ctx, path, msg.Sender)
		if err != nil {
			slog.Warn("upload staged attachment", "path", path, "error", err)
		} else {
			urls = append(urls, url)
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			slog.Warn("remove staged attachment", "path", path, "error", err)
		}
	}
	draft.Anexos = nil

	p := &domain.Purchase{
		UserID:        msg.Sender,
		UserName:      msg.Name,
		Material:      draft.Fields.Material,
		Quantidade:    draft.Fields.Quantidade,
		ValorUnitario: draft.Fields.ValorUnitario,
		ValorTotal:    draft.Fields.ValorTotal,
		Data:          draft.Fields.Data,
		Local:         draft.Fields.Local,
		Categoria:     draft.Fields.Categoria,
		Anexos:        urls,
	}
	if _, err := e.purchases.Create(ctx, p); err != nil {
		return "", err
	}
	slog.Info("purchase saved", "user_id", msg.Sender, "material", p.Material)
	return p.Categoria, nil
}

// checkBudget sends an alert when category spending crosses the configured
// thresholds. Alert failures never affect the save.
func (e *Engine) checkBudget(ctx context.Context, r Replier, categoria string) {
	if categoria == "" || e.budgets == nil {
		return
	}

	limit, err := e.budgets.CategoryBudget(ctx, categoria)
	if err != nil {
		if !errors.Is(err, domain.ErrBudgetNotSet) {
			slog.Error("get category budget", "error", err, "categoria", categoria)
		}
		return
	}
	if limit.IsZero() {
		return
	}

	spent, err := e.budgets.CategorySpending(ctx, categoria)
	if err != nil {
		slog.Error("get category spending", "error", err, "categoria", categoria)
		return
	}

	percent := spent.Div(limit).Mul(decimal.NewFromInt(100)).InexactFloat64()
	switch {
	case percent >= config.BudgetExceededPercent:
		e.reply(ctx, r, fmt.Sprintf(
			"🚨 *ALERTA DE ORÇAMENTO ESTOURADO* 🚨\n\nVocê ultrapassou o orçamento para a categoria *%s*.\n\n*Orçamento:* R$ %s\n*Gasto Atual:* R$ %s (%.0f%%)",
			categoria, limit.StringFixed(2), spent.StringFixed(2), percent))
	case percent >= config.BudgetWarnPercent:
		e.reply(ctx, r, fmt.Sprintf(
			"⚠️ *AVISO DE ORÇAMENTO* ⚠️\n\nVocê já utilizou *%.0f%%* do seu orçamento para a categoria *%s*.\n\n*Orçamento:* R$ %s\n*Gasto Atual:* R$ %s",
			percent, categoria, limit.StringFixed(2), spent.StringFixed(2)))
	}
}

// handleAwaitingCorrection merges extracted corrections over the draft and
// shows a before/after comparison.
func (e *Engine) handleAwaitingCorrection(ctx context.Context, msg Message, r Replier, data *session.Data) {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		e.reply(ctx, r, "Por favor, descreva a correção.")
		return
	}
	if data.Draft == nil {
		e.reply(ctx, r, "Sessão expirada. Tente registrar a compra novamente.")
		e.cleanup(msg.Sender, data)
		return
	}

	stop := r.Typing(ctx)
	corrections, err := e.extractor.Extract(ctx, text)
	stop()
	if err != nil {
		slog.Error("extract correction", "error", err)
		e.reply(ctx, r, "❌ Não consegui entender a correção. Tente novamente.")
		return
	}

	original := data.Draft.Fields
	merged := domain.Merge(original, corrections)
	data.Draft.Fields = merged
	data.State = domain.StateAwaitingConfirmation

	confirmation := FormatPurchaseComparison(original, merged, len(data.Draft.Anexos), "🔍 *CONFIRA OS DADOS CORRIGIDOS:*") +
		"\nAgora os dados estão *corretos*? (*sim* / *não*)"
	e.reply(ctx, r, confirmation)
}
