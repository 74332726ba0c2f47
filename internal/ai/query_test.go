package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPeriodStart(t *testing.T) {
	now := time.Date(2026, time.August, 28, 15, 30, 0, 0, time.UTC)

	start := periodStart("hoje", now)
	require.NotNil(t, start)
	require.Equal(t, time.Date(2026, time.August, 28, 0, 0, 0, 0, time.UTC), *start)

	start = periodStart("Este Mês", now)
	require.NotNil(t, start)
	require.Equal(t, time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC), *start)

	start = periodStart("este mes", now)
	require.NotNil(t, start)
	require.Equal(t, time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC), *start)

	start = periodStart("este ano", now)
	require.NotNil(t, start)
	require.Equal(t, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), *start)

	require.Nil(t, periodStart("junho", now))
	require.Nil(t, periodStart("", now))
}

func TestCapitalizeName(t *testing.T) {
	require.Equal(t, "Ronaldo", capitalizeName("ronaldo"))
	require.Equal(t, "Maria", capitalizeName(" MARIA "))
	require.Equal(t, "", capitalizeName("   "))
}

func TestFindToolCall(t *testing.T) {
	calls := []ToolCall{
		{ID: "1", Function: ToolCallFunction{Name: "other"}},
		{ID: "2", Function: ToolCallFunction{Name: "getPurchaseData", Arguments: `{"material":"cimento"}`}},
	}

	call := findToolCall(calls, "getPurchaseData")
	require.NotNil(t, call)
	require.Equal(t, "2", call.ID)

	require.Nil(t, findToolCall(calls, "missing"))
}
