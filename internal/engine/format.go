package engine

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dremassist/obrabot/internal/domain"
)

// FormatPurchaseDetails renders purchase fields as a labeled block, money
// with two decimals and the currency marker, omitting absent fields.
func FormatPurchaseDetails(f domain.PurchaseFields, title string) string {
	var b strings.Builder
	b.WriteString(title + "\n\n")

	material := f.Material
	if material == "" {
		material = "N/A"
	}
	fmt.Fprintf(&b, "🏗️ *Material:* %s\n", material)
	if f.Quantidade != nil {
		fmt.Fprintf(&b, "🧮 *Quantidade:* %s\n", f.Quantidade.String())
	}
	if f.ValorUnitario != nil {
		fmt.Fprintf(&b, "💲 *Valor unitário:* R$ %s\n", f.ValorUnitario.StringFixed(2))
	}
	if f.ValorTotal != nil {
		fmt.Fprintf(&b, "💰 *Valor total:* R$ %s\n", f.ValorTotal.StringFixed(2))
	}
	if f.Data != "" {
		fmt.Fprintf(&b, "📅 *Data:* %s\n", f.Data)
	}
	if f.Local != "" {
		fmt.Fprintf(&b, "🏪 *Local:* %s\n", f.Local)
	}
	return b.String()
}

type comparisonRow struct {
	label   string
	orig    string // display form of the original value, "" when absent
	final   string // display form of the final value, "" when absent
	missing string // placeholder when the original was absent
	changed bool
}

// FormatPurchaseComparison renders original vs final fields: changed fields
// as strikethrough-old → bold-new, unchanged-but-present fields plainly,
// fields absent from the final version not at all.
func FormatPurchaseComparison(original, final domain.PurchaseFields, attachmentCount int, title string) string {
	rows := []comparisonRow{
		textRow("🏗️ *Material:*", original.Material, final.Material),
		quantityRow("🧮 *Quantidade:*", original.Quantidade, final.Quantidade),
		moneyRow("💲 *Valor unitário:*", original.ValorUnitario, final.ValorUnitario),
		moneyRow("💰 *Valor total:*", original.ValorTotal, final.ValorTotal),
		textRow("📅 *Data:*", original.Data, final.Data),
		textRow("🏪 *Local:*", original.Local, final.Local),
	}

	var b strings.Builder
	b.WriteString(title + "\n\n")
	for _, row := range rows {
		if row.final == "" {
			continue
		}
		if row.changed {
			orig := row.orig
			if orig == "" {
				orig = row.missing
			}
			fmt.Fprintf(&b, "%s ~%s~  ➡️  *%s*\n", row.label, orig, row.final)
		} else {
			fmt.Fprintf(&b, "%s %s\n", row.label, row.final)
		}
	}
	if attachmentCount > 0 {
		fmt.Fprintf(&b, "\n📎 *Anexos:* %d arquivo(s).\n", attachmentCount)
	}
	return b.String()
}

func textRow(label, orig, final string) comparisonRow {
	return comparisonRow{
		label:   label,
		orig:    orig,
		final:   final,
		missing: "N/A",
		changed: final != "" && orig != final,
	}
}

func quantityRow(label string, orig, final *decimal.Decimal) comparisonRow {
	row := comparisonRow{label: label, missing: "N/A"}
	if orig != nil {
		row.orig = orig.String()
	}
	if final != nil {
		row.final = final.String()
		row.changed = orig == nil || !orig.Equal(*final)
	}
	return row
}

func moneyRow(label string, orig, final *decimal.Decimal) comparisonRow {
	row := comparisonRow{label: label, missing: "R$ 0.00"}
	if orig != nil {
		row.orig = "R$ " + orig.StringFixed(2)
	}
	if final != nil {
		row.final = "R$ " + final.StringFixed(2)
		row.changed = orig == nil || !orig.Equal(*final)
	}
	return row
}
