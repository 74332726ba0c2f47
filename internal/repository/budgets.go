package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/dremassist/obrabot/internal/domain"
)

// CategoryBudget returns the configured spending limit for a category.
// Budgets are maintained outside the chat flow.
func (r *PurchaseRepo) CategoryBudget(ctx context.Context, categoria string) (decimal.Decimal, error) {
	var limite decimal.Decimal
	err := r.db.QueryRow(ctx,
		`SELECT limite FROM budgets WHERE group_id = $1 AND categoria = $2`,
		r.groupID, categoria,
	).Scan(&limite)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, domain.ErrBudgetNotSet
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("get budget: %w", err)
	}
	return limite, nil
}

// CategorySpending sums valor_total across the group for one category.
func (r *PurchaseRepo) CategorySpending(ctx context.Context, categoria string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(valor_total), 0) FROM purchases
		WHERE group_id = $1 AND categoria = $2`,
		r.groupID, categoria,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("category spending: %w", err)
	}
	return total, nil
}
