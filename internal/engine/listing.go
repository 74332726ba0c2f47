package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/dremassist/obrabot/internal/domain"
	"github.com/dremassist/obrabot/internal/session"
)

const (
	sessionExpiredMsg = "Sessão expirada. Tente listar novamente."
	invalidNumberMsg  = "❌ Número inválido. Por favor, digite um número da lista."

	listActionMenu = "O que você deseja fazer?\n\n" +
		"*A* - Ver anexos de uma compra\n" +
		"*B* - Anexar novo documento\n" +
		"*C* - Editar uma compra\n" +
		"*D* - Remover anexo de uma compra\n\n" +
		"Você também pode fazer uma pergunta como *\"quanto gastei com cimento?\"*"
)

// listPurchases fetches and renders one page. The materialized list is
// append-only across "mais" pages so displayed indices stay stable.
func (e *Engine) listPurchases(ctx context.Context, msg Message, r Replier, data *session.Data, scope domain.ListScope, nextPage bool) {
	stop := r.Typing(ctx)
	defer stop()

	if data.List == nil || !nextPage || data.List.Scope != scope {
		data.List = &session.ListSession{Scope: scope, Page: 1}
	}
	list := data.List

	purchases, err := e.purchases.ListPage(ctx, scope, msg.Sender, list.Cursor, e.pageSize)
	if err != nil {
		slog.Error("list purchases", "error", err, "scope", scope)
		e.reply(ctx, r, "❌ Erro ao buscar as compras. Tente novamente.")
		return
	}

	if len(purchases) == 0 && list.Page == 1 {
		if scope == domain.ScopeUser {
			e.reply(ctx, r, "Você ainda não possui compras registradas.")
		} else {
			e.reply(ctx, r, "Nenhuma compra registrada no grupo ainda.")
		}
		e.cleanup(msg.Sender, data)
		return
	}

	if len(purchases) == 0 {
		e.reply(ctx, r, "Não há mais compras para mostrar.")
	} else {
		start := len(list.Purchases)
		list.Purchases = append(list.Purchases, purchases...)
		last := purchases[len(purchases)-1].CreatedAt
		list.Cursor = &last

		var b strings.Builder
		if list.Page == 1 {
			if scope == domain.ScopeUser {
				b.WriteString("🧾 *Suas compras registradas:*\n\n")
			} else {
				b.WriteString("🧾 *Compras de todo o grupo:*\n\n")
			}
		}
		for i, p := range purchases {
			material := p.Material
			if material == "" {
				material = "N/A"
			}
			fmt.Fprintf(&b, "*%d.* -----\n  *Material:* %s\n", start+i+1, material)
			if p.Data != "" {
				fmt.Fprintf(&b, "  *Data:* %s\n", p.Data)
			}
			if p.ValorTotal != nil {
				fmt.Fprintf(&b, "  *V. Total:* R$ %s\n", p.ValorTotal.StringFixed(2))
			}
			fmt.Fprintf(&b, "  *Anexos:* %d\n", len(p.Anexos))
			if scope == domain.ScopeGroup {
				buyer := p.UserName
				if buyer == "" {
					buyer = "Anônimo"
				}
				fmt.Fprintf(&b, "  *Comprador:* %s\n", buyer)
			}
			b.WriteString("\n")
		}
		e.reply(ctx, r, b.String())
	}

	var final strings.Builder
	if len(purchases) == e.pageSize {
		list.Page++
		fmt.Fprintf(&final, "Mostrando página %d. Digite *\"mais\"* para ver as próximas.\n\n", list.Page-1)
	}
	final.WriteString(listActionMenu)
	e.reply(ctx, r, final.String())

	data.State = domain.StateAwaitingListAction
}

// handleAwaitingListAction accepts a natural-language question, "mais", or
// an action letter.
func (e *Engine) handleAwaitingListAction(ctx context.Context, msg Message, r Replier, data *session.Data) {
	text := strings.TrimSpace(msg.Text)
	lower := strings.ToLower(text)

	answer, err := e.interceptor.TryAnswer(ctx, text)
	if err == nil {
		e.reply(ctx, r, answer)
		e.reply(ctx, r, "Você pode fazer outra pergunta ou escolher uma das opções (A, B, C, D, mais).")
		return
	}
	if !errors.Is(err, domain.ErrNotAQuery) {
		slog.Error("intent query", "error", err)
		e.reply(ctx, r, queryFailedMsg)
		e.reply(ctx, r, "Você pode fazer outra pergunta ou escolher uma das opções (A, B, C, D, mais).")
		return
	}

	if data.List == nil {
		e.reply(ctx, r, sessionExpiredMsg)
		e.cleanup(msg.Sender, data)
		return
	}

	if lower == "mais" {
		e.listPurchases(ctx, msg, r, data, data.List.Scope, true)
		return
	}

	actions := map[string]domain.ListAction{
		"a": domain.ActionViewAttachments,
		"b": domain.ActionAddAttachments,
		"c": domain.ActionEditPurchase,
		"d": domain.ActionDeleteAttachment,
	}
	prompts := map[string]string{
		"a": "Qual o *número* da compra cujos anexos você quer ver?",
		"b": "Qual o *número* da compra para adicionar novos anexos?",
		"c": "Qual o *número* da compra que você deseja *editar*?",
		"d": "De qual *número* de compra você quer remover um anexo?",
	}
	if action, ok := actions[lower]; ok {
		data.List.Action = action
		data.State = domain.StateAwaitingPurchaseNumber
		e.reply(ctx, r, prompts[lower])
		return
	}

	e.reply(ctx, r, `Opção inválida. Responda com a letra da opção, "mais" ou faça uma pergunta.`)
}

// handleAwaitingPurchaseNumber resolves a 1-based index into the
// materialized list and branches on the recorded action. Mutating actions
// require ownership of the selected purchase.
func (e *Engine) handleAwaitingPurchaseNumber(ctx context.Context, msg Message, r Replier, data *session.Data) {
	if data.List == nil || len(data.List.Purchases) == 0 || data.List.Action == "" {
		e.reply(ctx, r, sessionExpiredMsg)
		e.cleanup(msg.Sender, data)
		return
	}
	list := data.List

	index, err := strconv.Atoi(strings.TrimSpace(msg.Text))
	if err != nil || index < 1 || index > len(list.Purchases) {
		e.reply(ctx, r, invalidNumberMsg)
		return
	}
	selected := list.Purchases[index-1]
	list.Selected = &selected

	switch list.Action {
	case domain.ActionViewAttachments:
		if len(selected.Anexos) > 0 {
			var b strings.Builder
			fmt.Fprintf(&b, "*Anexos da compra de %s:*\n\n", selected.Material)
			for i, url := range selected.Anexos {
				fmt.Fprintf(&b, "%d. %s\n", i+1, url)
			}
			e.reply(ctx, r, b.String())
		} else {
			e.reply(ctx, r, "Esta compra não possui anexos.")
		}
		e.cleanup(msg.Sender, data)

	case domain.ActionAddAttachments:
		if selected.UserID != msg.Sender {
			e.reply(ctx, r, "❌ Você só pode adicionar anexos às compras que você mesmo registrou.")
			e.cleanup(msg.Sender, data)
			return
		}
		data.State = domain.StateAwaitingAttachToRecord
		e.reply(ctx, r, fmt.Sprintf("Ok. Por favor, envie o primeiro anexo para a compra de *%s*.", selected.Material))

	case domain.ActionEditPurchase:
		if selected.UserID != msg.Sender {
			e.reply(ctx, r, "❌ Você só pode editar as compras que você mesmo registrou.")
			e.cleanup(msg.Sender, data)
			return
		}
		data.State = domain.StateAwaitingEditDesc
		e.reply(ctx, r, FormatPurchaseDetails(selected.Fields(), "📝 *ESTES SÃO OS DADOS ATUAIS DA COMPRA:*"))
		e.reply(ctx, r, "Por favor, envie uma mensagem de texto ou um áudio descrevendo *como a compra deve ficar*.")

	case domain.ActionDeleteAttachment:
		if selected.UserID != msg.Sender {
			e.reply(ctx, r, "❌ Você só pode remover anexos das compras que você mesmo registrou.")
			e.cleanup(msg.Sender, data)
			return
		}
		if len(selected.Anexos) == 0 {
			e.reply(ctx, r, "Esta compra não possui anexos para remover.")
			e.cleanup(msg.Sender, data)
			return
		}
		var b strings.Builder
		b.WriteString("*Qual anexo você deseja remover?*\n\n")
		for i, url := range selected.Anexos {
			fmt.Fprintf(&b, "*%d.* %s\n", i+1, url[strings.LastIndex(url, "/")+1:])
		}
		e.reply(ctx, r, b.String())
		data.State = domain.StateAwaitingAttachToDelete
	}
}
