package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dremassist/obrabot/internal/config"
	"github.com/dremassist/obrabot/internal/domain"
	"github.com/dremassist/obrabot/internal/repository"
)

// PurchaseQuerier is the single data capability exposed to the query model.
type PurchaseQuerier interface {
	Aggregate(ctx context.Context, filter repository.QueryFilter) (repository.QueryResult, error)
}

// Interceptor resolves free-text financial questions ("quanto gastei com
// cimento?") against the persisted purchases. When the model does not call
// the data tool the message is not a query and domain.ErrNotAQuery is
// returned so the caller can fall through to generic conversation.
type Interceptor struct {
	client *Client
	data   PurchaseQuerier
}

func NewInterceptor(client *Client, data PurchaseQuerier) *Interceptor {
	return &Interceptor{client: client, data: data}
}

const querySystemPrompt = "Você é um assistente de finanças para uma obra. Sua tarefa é usar a " +
	"ferramenta 'getPurchaseData' para responder perguntas sobre gastos. É MUITO IMPORTANTE que " +
	"você execute a função mesmo que o usuário forneça apenas uma parte das informações (como " +
	"somente o material). NÃO peça por mais detalhes como o período; apenas execute a busca com a " +
	"informação que tiver. Após receber o resultado da ferramenta, liste cada compra " +
	"individualmente com todos os detalhes disponíveis."

var purchaseDataTool = Tool{
	Type: "function",
	Function: ToolFunction{
		Name: "getPurchaseData",
		Description: "Busca dados de compras de uma obra no banco de dados com base em filtros " +
			"como material, nome do comprador e período de tempo.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"material": map[string]any{
					"type":        "string",
					"description": `O nome do material ou produto a ser buscado. Ex: "cimento", "areia", "tijolos".`,
				},
				"userName": map[string]any{
					"type":        "string",
					"description": `O nome do usuário que fez a compra. Ex: "Ronaldo", "Maria".`,
				},
				"period": map[string]any{
					"type": "string",
					"description": `O período de tempo da busca. Pode ser "hoje", "este mês", ` +
						`"este ano" ou um mês específico como "junho".`,
				},
			},
		},
	},
}

type purchaseDataArgs struct {
	Material string `json:"material"`
	UserName string `json:"userName"`
	Period   string `json:"period"`
}

type purchaseDataResult struct {
	TotalAmount float64               `json:"totalAmount"`
	Count       int                   `json:"count"`
	Purchases   []purchaseDataSummary `json:"purchases"`
}

type purchaseDataSummary struct {
	Material   string  `json:"material"`
	ValorTotal float64 `json:"valor_total"`
	Data       string  `json:"data"`
	UserName   string  `json:"userName"`
	Quantidade float64 `json:"quantidade"`
}

// TryAnswer resolves text as a data query or returns domain.ErrNotAQuery.
func (i *Interceptor) TryAnswer(ctx context.Context, text string) (string, error) {
	messages := []Message{
		{Role: "system", Content: querySystemPrompt},
		{Role: "user", Content: text},
	}

	resp, err := i.client.complete(ctx, config.QueryModel, messages, []Tool{purchaseDataTool})
	if err != nil {
		return "", fmt.Errorf("query completion: %w", err)
	}

	call := findToolCall(resp.ToolCalls, "getPurchaseData")
	if call == nil {
		return "", domain.ErrNotAQuery
	}

	var args purchaseDataArgs
	if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
		return "", fmt.Errorf("parse tool arguments: %w", err)
	}
	slog.Info("purchase data query", "material", args.Material, "user_name", args.UserName, "period", args.Period)

	result, err := i.fetch(ctx, args)
	if err != nil {
		return "", fmt.Errorf("fetch purchase data: %w", err)
	}

	toolResult, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("marshal tool result: %w", err)
	}

	messages = append(messages,
		Message{Role: "assistant", Content: "", ToolCalls: resp.ToolCalls},
		Message{Role: "tool", Content: string(toolResult), ToolCallID: call.ID},
	)

	final, err := i.client.complete(ctx, config.QueryModel, messages, []Tool{purchaseDataTool})
	if err != nil {
		return "", fmt.Errorf("query summary: %w", err)
	}
	if strings.TrimSpace(final.Content) == "" {
		return "Consegui os dados, mas não consegui formular a frase final.", nil
	}
	return final.Content, nil
}

func (i *Interceptor) fetch(ctx context.Context, args purchaseDataArgs) (purchaseDataResult, error) {
	filter := repository.QueryFilter{
		Material: strings.TrimSpace(args.Material),
		UserName: capitalizeName(args.UserName),
		Since:    periodStart(args.Period, time.Now()),
	}

	agg, err := i.data.Aggregate(ctx, filter)
	if err != nil {
		return purchaseDataResult{}, err
	}

	result := purchaseDataResult{
		TotalAmount: agg.TotalAmount.InexactFloat64(),
		Count:       agg.Count,
		Purchases:   make([]purchaseDataSummary, 0, len(agg.Purchases)),
	}
	for _, p := range agg.Purchases {
		s := purchaseDataSummary{Material: p.Material, Data: p.Data, UserName: p.UserName}
		if p.ValorTotal != nil {
			s.ValorTotal = p.ValorTotal.InexactFloat64()
		}
		if p.Quantidade != nil {
			s.Quantidade = p.Quantidade.InexactFloat64()
		}
		result.Purchases = append(result.Purchases, s)
	}
	return result, nil
}

func findToolCall(calls []ToolCall, name string) *ToolCall {
	for idx := range calls {
		if calls[idx].Function.Name == name {
			return &calls[idx]
		}
	}
	return nil
}

// periodStart maps a period keyword to the start of its range. Unknown
// periods yield nil and the query runs unbounded.
func periodStart(period string, now time.Time) *time.Time {
	var start time.Time
	switch strings.ToLower(strings.TrimSpace(period)) {
	case "hoje":
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case "este mês", "este mes":
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	case "este ano":
		start = time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
	default:
		return nil
	}
	return &start
}

func capitalizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return strings.ToUpper(name[:1]) + strings.ToLower(name[1:])
}
