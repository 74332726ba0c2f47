package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/dremassist/obrabot/internal/domain"
)

// PurchaseRepo persists confirmed purchases. All operations are scoped to
// one group (tenant); single-row updates rely on Postgres atomicity.
type PurchaseRepo struct {
	db      *pgxpool.Pool
	groupID string
}

func NewPurchaseRepo(db *pgxpool.Pool, groupID string) *PurchaseRepo {
	return &PurchaseRepo{db: db, groupID: groupID}
}

const purchaseColumns = `id, group_id, user_id, user_name, material, quantidade,
	valor_unitario, valor_total, data, local, categoria, anexos, created_at`

func (r *PurchaseRepo) Create(ctx context.Context, p *domain.Purchase) (string, error) {
	var id string
	err := r.db.QueryRow(ctx, `
		INSERT INTO purchases (group_id, user_id, user_name, material, quantidade,
			valor_unitario, valor_total, data, local, categoria, anexos)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`,
		r.groupID, p.UserID, p.UserName, p.Material, p.Quantidade,
		p.ValorUnitario, p.ValorTotal, p.Data, p.Local, p.Categoria, p.Anexos,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("create purchase: %w", err)
	}
	return id, nil
}

// ListPage returns one page of purchases, newest first. A nil cursor fetches
// the first page; otherwise rows strictly older than the cursor are returned.
func (r *PurchaseRepo) ListPage(ctx context.Context, scope domain.ListScope, userID string, cursor *time.Time, size int) ([]domain.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE group_id = $1`
	args := []any{r.groupID}

	if scope == domain.ScopeUser {
		args = append(args, userID)
		query += fmt.Sprintf(" AND user_id = $%d", len(args))
	}
	if cursor != nil {
		args = append(args, *cursor)
		query += fmt.Sprintf(" AND created_at < $%d", len(args))
	}
	args = append(args, size)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()

	return scanPurchases(rows)
}

// ListAll returns every purchase in the scope, newest first. Used by the
// spreadsheet export.
func (r *PurchaseRepo) ListAll(ctx context.Context, scope domain.ListScope, userID string) ([]domain.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE group_id = $1`
	args := []any{r.groupID}
	if scope == domain.ScopeUser {
		args = append(args, userID)
		query += fmt.Sprintf(" AND user_id = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list all purchases: %w", err)
	}
	defer rows.Close()

	return scanPurchases(rows)
}

// Update applies the non-empty fields as a partial update. The owner filter
// guards against edits racing an ownership change upstream.
func (r *PurchaseRepo) Update(ctx context.Context, ownerID, purchaseID string, fields domain.PurchaseFields) error {
	sets := []string{}
	args := []any{purchaseID, ownerID}

	add := func(col string, val any) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if fields.Material != "" {
		add("material", fields.Material)
	}
	if fields.Quantidade != nil {
		add("quantidade", *fields.Quantidade)
	}
	if fields.ValorUnitario != nil {
		add("valor_unitario", *fields.ValorUnitario)
	}
	if fields.ValorTotal != nil {
		add("valor_total", *fields.ValorTotal)
	}
	if fields.Data != "" {
		add("data", fields.Data)
	}
	if fields.Local != "" {
		add("local", fields.Local)
	}
	if fields.Categoria != "" {
		add("categoria", fields.Categoria)
	}
	if len(sets) == 0 {
		return domain.ErrEmptyExtraction
	}

	tag, err := r.db.Exec(ctx,
		fmt.Sprintf("UPDATE purchases SET %s WHERE id = $1 AND user_id = $2", strings.Join(sets, ", ")),
		args...)
	if err != nil {
		return fmt.Errorf("update purchase: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPurchaseNotFound
	}
	return nil
}

func (r *PurchaseRepo) AddAttachment(ctx context.Context, ownerID, purchaseID, url string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE purchases SET anexos = array_append(anexos, $3)
		WHERE id = $1 AND user_id = $2`,
		purchaseID, ownerID, url)
	if err != nil {
		return fmt.Errorf("add attachment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPurchaseNotFound
	}
	return nil
}

func (r *PurchaseRepo) RemoveAttachment(ctx context.Context, ownerID, purchaseID, url string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE purchases SET anexos = array_remove(anexos, $3)
		WHERE id = $1 AND user_id = $2`,
		purchaseID, ownerID, url)
	if err != nil {
		return fmt.Errorf("remove attachment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPurchaseNotFound
	}
	return nil
}

// QueryFilter narrows an aggregate query. Material matches by
// case-insensitive substring, UserName by equality, Since by creation time.
type QueryFilter struct {
	Material string
	UserName string
	Since    *time.Time
}

// QueryResult is the aggregate answer handed to the intent interceptor.
type QueryResult struct {
	TotalAmount decimal.Decimal
	Count       int
	Purchases   []domain.Purchase
}

// Aggregate fetches the purchases matching the filter, group-scoped, and
// sums their valor_total.
func (r *PurchaseRepo) Aggregate(ctx context.Context, filter QueryFilter) (QueryResult, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE group_id = $1`
	args := []any{r.groupID}

	if filter.Material != "" {
		args = append(args, "%"+filter.Material+"%")
		query += fmt.Sprintf(" AND material ILIKE $%d", len(args))
	}
	if filter.UserName != "" {
		args = append(args, filter.UserName)
		query += fmt.Sprintf(" AND user_name = $%d", len(args))
	}
	if filter.Since != nil {
		args = append(args, *filter.Since)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return QueryResult{}, fmt.Errorf("aggregate purchases: %w", err)
	}
	defer rows.Close()

	purchases, err := scanPurchases(rows)
	if err != nil {
		return QueryResult{}, err
	}

	total := decimal.Zero
	for _, p := range purchases {
		if p.ValorTotal != nil {
			total = total.Add(*p.ValorTotal)
		}
	}

	return QueryResult{TotalAmount: total, Count: len(purchases), Purchases: purchases}, nil
}

func scanPurchases(rows pgx.Rows) ([]domain.Purchase, error) {
	var out []domain.Purchase
	for rows.Next() {
		var p domain.Purchase
		if err := rows.Scan(
			&p.ID, &p.GroupID, &p.UserID, &p.UserName, &p.Material,
			&p.Quantidade, &p.ValorUnitario, &p.ValorTotal,
			&p.Data, &p.Local, &p.Categoria, &p.Anexos, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate purchases: %w", err)
	}
	return out, nil
}
