package engine

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"

	"github.com/dremassist/obrabot/internal/config"
	"github.com/dremassist/obrabot/internal/domain"
	"github.com/dremassist/obrabot/internal/session"
)

const queryFailedMsg = "Desculpe, tive um problema ao tentar entender sua pergunta. Tente novamente em instantes."

// handleIdle dispatches numeric/keyword commands; anything else is offered
// to the intent interceptor and then falls back to free conversation.
func (e *Engine) handleIdle(ctx context.Context, msg Message, r Replier, data *session.Data) {
	text := strings.TrimSpace(msg.Text)
	lower := strings.ToLower(text)

	switch lower {
	case "listar minhas":
		e.cleanup(msg.Sender, data)
		e.listPurchases(ctx, msg, r, data, domain.ScopeUser, false)
		return
	case "1", "listar":
		e.cleanup(msg.Sender, data)
		e.listPurchases(ctx, msg, r, data, domain.ScopeGroup, false)
		return
	case "2":
		data.State = domain.StateAwaitingPurchase
		e.reply(ctx, r, "🛒 *REGISTRO DE NOVA COMPRA*\n\n"+
			"Para registrar, descreva sua compra por *texto* ou *áudio*.\n\n"+
			"Para adicionar anexos, envie um arquivo e *descreva a compra na legenda*.")
		return
	case "3":
		stop := r.Typing(ctx)
		defer stop()
		e.exportPurchases(ctx, msg, r)
		return
	}

	stop := r.Typing(ctx)
	defer stop()

	answer, err := e.interceptor.TryAnswer(ctx, text)
	switch {
	case err == nil:
		e.reply(ctx, r, answer)
	case errors.Is(err, domain.ErrNotAQuery):
		response, chatErr := e.completer.Chat(ctx, nil, text)
		if chatErr != nil {
			slog.Error("conversational fallback", "error", chatErr)
			e.reply(ctx, r, "❌ Não consegui responder agora. Tente novamente.")
			return
		}
		slog.Info("no command matched, starting free chat", "user_id", msg.Sender)
		data.State = domain.StateFreeChat
		data.ChatHistory = []domain.ChatMessage{
			{Role: "user", Content: text},
			{Role: "assistant", Content: response},
		}
		e.reply(ctx, r, response)
	default:
		slog.Error("intent query", "error", err)
		e.reply(ctx, r, queryFailedMsg)
	}
}

// handleFreeChat keeps the bounded free conversation going. Every message
// is first offered to the interceptor so data questions short-circuit the
// chat without leaving it.
func (e *Engine) handleFreeChat(ctx context.Context, msg Message, r Replier, data *session.Data) {
	text := strings.TrimSpace(msg.Text)

	stop := r.Typing(ctx)
	defer stop()

	answer, err := e.interceptor.TryAnswer(ctx, text)
	if err == nil {
		e.reply(ctx, r, answer)
		return
	}
	if !errors.Is(err, domain.ErrNotAQuery) {
		slog.Error("intent query", "error", err)
		e.reply(ctx, r, queryFailedMsg)
		return
	}

	response, err := e.completer.Chat(ctx, data.ChatHistory, text)
	if err != nil {
		slog.Error("conversational response", "error", err)
		e.reply(ctx, r, "❌ Não consegui responder agora. Tente novamente.")
		return
	}

	e.reply(ctx, r, response)
	data.ChatHistory = append(data.ChatHistory,
		domain.ChatMessage{Role: "user", Content: text},
		domain.ChatMessage{Role: "assistant", Content: response},
	)
	if n := len(data.ChatHistory); n > config.ChatHistoryWindow {
		data.ChatHistory = data.ChatHistory[n-config.ChatHistoryWindow:]
	}
}

// exportPurchases renders the requester's purchases to a spreadsheet and
// delivers it as a document, then removes the temporary file.
func (e *Engine) exportPurchases(ctx context.Context, msg Message, r Replier) {
	purchases, err := e.purchases.ListAll(ctx, domain.ScopeUser, msg.Sender)
	if err != nil {
		slog.Error("list purchases for export", "error", err)
		e.reply(ctx, r, "❌ Erro ao buscar as compras para exportar. Tente novamente.")
		return
	}
	if len(purchases) == 0 {
		e.reply(ctx, r, "Você não possui compras para exportar.")
		return
	}

	path, err := e.exporter.Write(purchases)
	if err != nil {
		slog.Error("write spreadsheet", "error", err)
		e.reply(ctx, r, "❌ Falha ao gerar a planilha. Tente novamente.")
		return
	}
	defer os.Remove(path)

	if err := r.ReplyDocument(ctx, path, "🧾 Suas compras exportadas."); err != nil {
		slog.Error("send spreadsheet", "error", err)
		e.reply(ctx, r, "❌ Falha ao enviar a planilha. Tente novamente.")
	}
}
