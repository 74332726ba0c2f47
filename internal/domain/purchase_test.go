package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) *decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return &d
}

func TestMergeOverlaysOnlyNonEmptyFields(t *testing.T) {
	base := PurchaseFields{
		Material:   "Cimento",
		Quantidade: dec("10"),
		ValorTotal: dec("500"),
		Local:      "Depósito Central",
	}
	patch := PurchaseFields{
		ValorTotal: dec("450"),
		Data:       "12/08/2026",
	}

	out := Merge(base, patch)

	require.Equal(t, "Cimento", out.Material)
	require.True(t, out.Quantidade.Equal(decimal.NewFromInt(10)))
	require.True(t, out.ValorTotal.Equal(decimal.NewFromInt(450)))
	require.Equal(t, "12/08/2026", out.Data)
	require.Equal(t, "Depósito Central", out.Local)

	// Inputs untouched
	require.True(t, base.ValorTotal.Equal(decimal.NewFromInt(500)))
	require.Empty(t, patch.Material)
}

func TestDeriveMissingTotal(t *testing.T) {
	f := PurchaseFields{Quantidade: dec("10"), ValorUnitario: dec("50")}
	f.DeriveMissing()

	require.NotNil(t, f.ValorTotal)
	require.True(t, f.ValorTotal.Equal(decimal.NewFromInt(500)))
}

func TestDeriveMissingUnitPrice(t *testing.T) {
	f := PurchaseFields{Quantidade: dec("4"), ValorTotal: dec("100")}
	f.DeriveMissing()

	require.NotNil(t, f.ValorUnitario)
	require.True(t, f.ValorUnitario.Equal(decimal.NewFromInt(25)))
}

func TestDeriveMissingQuantity(t *testing.T) {
	f := PurchaseFields{ValorUnitario: dec("25"), ValorTotal: dec("100")}
	f.DeriveMissing()

	require.NotNil(t, f.Quantidade)
	require.True(t, f.Quantidade.Equal(decimal.NewFromInt(4)))
}

func TestDeriveMissingNeverOverwrites(t *testing.T) {
	f := PurchaseFields{Quantidade: dec("10"), ValorUnitario: dec("50"), ValorTotal: dec("499")}
	f.DeriveMissing()

	require.True(t, f.ValorTotal.Equal(decimal.NewFromInt(499)))
}

func TestDeriveMissingAvoidsDivisionByZero(t *testing.T) {
	f := PurchaseFields{Quantidade: dec("0"), ValorTotal: dec("100")}
	f.DeriveMissing()

	require.Nil(t, f.ValorUnitario)
}

func TestEmpty(t *testing.T) {
	require.True(t, PurchaseFields{}.Empty())
	require.False(t, PurchaseFields{Material: "areia"}.Empty())
	require.False(t, PurchaseFields{ValorTotal: dec("1")}.Empty())
}

func TestPurchaseFields(t *testing.T) {
	p := Purchase{
		ID:         "abc",
		UserID:     "5511999",
		Material:   "Tijolo",
		Quantidade: dec("1000"),
		Local:      "Casa do Construtor",
	}
	f := p.Fields()

	require.Equal(t, "Tijolo", f.Material)
	require.Equal(t, "Casa do Construtor", f.Local)
	require.True(t, f.Quantidade.Equal(decimal.NewFromInt(1000)))
}
