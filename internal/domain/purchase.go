package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase is the persisted form of a purchase record. The conversation
// engine never mutates one directly; edits go through partial updates.
type Purchase struct {
	ID            string
	GroupID       string
	UserID        string
	UserName      string
	Material      string
	Quantidade    *decimal.Decimal
	ValorUnitario *decimal.Decimal
	ValorTotal    *decimal.Decimal
	Data          string
	Local         string
	Categoria     string
	Anexos        []string
	CreatedAt     time.Time
}

// Fields returns the mutable field subset of the purchase, used as the
// base for edit merges and comparison rendering.
func (p *Purchase) Fields() PurchaseFields {
	return PurchaseFields{
		Material:      p.Material,
		Quantidade:    p.Quantidade,
		ValorUnitario: p.ValorUnitario,
		ValorTotal:    p.ValorTotal,
		Data:          p.Data,
		Local:         p.Local,
		Categoria:     p.Categoria,
	}
}

// PurchaseFields is the partial form of a purchase: the working draft
// during registration, the output of structured extraction, and the
// payload of a partial update. Nil/empty means "not provided".
type PurchaseFields struct {
	Material      string
	Quantidade    *decimal.Decimal
	ValorUnitario *decimal.Decimal
	ValorTotal    *decimal.Decimal
	Data          string
	Local         string
	Categoria     string
}

// Empty reports whether no field carries a value.
func (f PurchaseFields) Empty() bool {
	return f.Material == "" && f.Quantidade == nil && f.ValorUnitario == nil &&
		f.ValorTotal == nil && f.Data == "" && f.Local == "" && f.Categoria == ""
}

// Merge overlays the non-empty fields of patch over base and returns the
// result. Neither argument is modified.
func Merge(base, patch PurchaseFields) PurchaseFields {
	out := base
	if patch.Material != "" {
		out.Material = patch.Material
	}
	if patch.Quantidade != nil {
		out.Quantidade = patch.Quantidade
	}
	if patch.ValorUnitario != nil {
		out.ValorUnitario = patch.ValorUnitario
	}
	if patch.ValorTotal != nil {
		out.ValorTotal = patch.ValorTotal
	}
	if patch.Data != "" {
		out.Data = patch.Data
	}
	if patch.Local != "" {
		out.Local = patch.Local
	}
	if patch.Categoria != "" {
		out.Categoria = patch.Categoria
	}
	return out
}

// DeriveMissing computes whichever of quantidade, valor_unitario and
// valor_total can be derived from the other two. It never overwrites a
// field that is already set.
func (f *PurchaseFields) DeriveMissing() {
	switch {
	case f.ValorTotal == nil && f.Quantidade != nil && f.ValorUnitario != nil:
		total := f.Quantidade.Mul(*f.ValorUnitario)
		f.ValorTotal = &total
	case f.ValorUnitario == nil && f.Quantidade != nil && f.ValorTotal != nil && !f.Quantidade.IsZero():
		unit := f.ValorTotal.DivRound(*f.Quantidade, 2)
		f.ValorUnitario = &unit
	case f.Quantidade == nil && f.ValorTotal != nil && f.ValorUnitario != nil && !f.ValorUnitario.IsZero():
		qty := f.ValorTotal.DivRound(*f.ValorUnitario, 2)
		f.Quantidade = &qty
	}
}

// ListScope selects whether a listing or query targets one user's own
// purchases or the whole group's.
type ListScope string

const (
	ScopeGroup ListScope = "group"
	ScopeUser  ListScope = "user"
)

// ListAction is the follow-up action chosen from the listing menu.
type ListAction string

const (
	ActionViewAttachments  ListAction = "view_attachments"
	ActionAddAttachments   ListAction = "add_attachments"
	ActionEditPurchase     ListAction = "edit_purchase"
	ActionDeleteAttachment ListAction = "delete_attachment"
)

// ChatMessage is one entry of the free-conversation rolling history.
type ChatMessage struct {
	Role    string // "user" or "assistant"
	Content string
}
