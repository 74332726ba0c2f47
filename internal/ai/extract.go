package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dremassist/obrabot/internal/config"
	"github.com/dremassist/obrabot/internal/domain"
)

// Extract runs structured extraction of purchase details over free text.
// Only fields the model identified come back set; whichever of quantidade,
// valor_unitario and valor_total is derivable from the other two is filled
// in locally so the arithmetic never depends on the model.
func (c *Client) Extract(ctx context.Context, text string) (domain.PurchaseFields, error) {
	today := time.Now().Format("02/01/2006")
	prompt := fmt.Sprintf(`Extraia dados de compra da mensagem: %q. O campo "material" é obrigatório.
- Se a quantidade e o valor_unitario forem fornecidos, calcule o valor_total.
- Se o valor_total e a quantidade forem fornecidos, calcule o valor_unitario.
- Retorne APENAS um objeto JSON válido, sem markdown.
- Use este formato: {"material":"","quantidade":0,"valor_total":0,"valor_unitario":0,"local":"","categoria":"","data":"%s"}`, text, today)

	resp, err := c.complete(ctx, config.ExtractModel, []Message{{Role: "user", Content: prompt}}, nil)
	if err != nil {
		return domain.PurchaseFields{}, err
	}

	fields, err := parseExtraction([]byte(stripFences(resp.Content)))
	if err != nil {
		return domain.PurchaseFields{}, fmt.Errorf("parse extraction: %w", err)
	}
	fields.DeriveMissing()
	return fields, nil
}

type extractionPayload struct {
	Material      string   `json:"material"`
	Quantidade    *float64 `json:"quantidade"`
	ValorTotal    *float64 `json:"valor_total"`
	ValorUnitario *float64 `json:"valor_unitario"`
	Local         string   `json:"local"`
	Categoria     string   `json:"categoria"`
	Data          string   `json:"data"`
}

func parseExtraction(raw []byte) (domain.PurchaseFields, error) {
	var p extractionPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return domain.PurchaseFields{}, err
	}

	fields := domain.PurchaseFields{
		Material:  strings.TrimSpace(p.Material),
		Local:     strings.TrimSpace(p.Local),
		Categoria: strings.TrimSpace(p.Categoria),
		Data:      strings.TrimSpace(p.Data),
	}
	// Zero means "not identified" in the model output
	if p.Quantidade != nil && *p.Quantidade != 0 {
		d := decimal.NewFromFloat(*p.Quantidade)
		fields.Quantidade = &d
	}
	if p.ValorUnitario != nil && *p.ValorUnitario != 0 {
		d := decimal.NewFromFloat(*p.ValorUnitario)
		fields.ValorUnitario = &d
	}
	if p.ValorTotal != nil && *p.ValorTotal != 0 {
		d := decimal.NewFromFloat(*p.ValorTotal)
		fields.ValorTotal = &d
	}
	return fields, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
