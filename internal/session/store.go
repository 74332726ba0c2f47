// Package session holds the in-memory, per-user conversation state. Nothing
// here survives a restart; purchases are the only durable data.
package session

import (
	"sync"
	"time"

	"github.com/dremassist/obrabot/internal/domain"
)

// Draft is the working purchase accumulated during the registration flow.
type Draft struct {
	Descricao string
	Fields    domain.PurchaseFields
	// Anexos are locally staged file paths pending upload.
	Anexos []string
}

// ListSession is the paging context of an active listing.
type ListSession struct {
	Scope  domain.ListScope
	Page   int
	Cursor *time.Time
	// Purchases is append-only across pages so the 1-based indices shown
	// to the user stay stable for the whole listing session.
	Purchases []domain.Purchase
	Selected  *domain.Purchase
	Edited    *domain.PurchaseFields
	Action    domain.ListAction
}

// Data is everything the engine keeps per user between messages. The zero
// value means no active flow.
type Data struct {
	State       domain.ConversationState
	Draft       *Draft
	List        *ListSession
	ChatHistory []domain.ChatMessage
}

// Store maps user identities to their conversation data. Acquire serializes
// all access for one identity, so a second rapid-fire message never sees a
// half-updated draft; distinct identities proceed in parallel.
type Store struct {
	mu    sync.Mutex
	users map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	data Data
}

func NewStore() *Store {
	return &Store{users: map[string]*entry{}}
}

// Acquire locks the identity and returns its data plus a release func. The
// returned pointer is only valid until release is called.
func (s *Store) Acquire(userID string) (*Data, func()) {
	s.mu.Lock()
	e, ok := s.users[userID]
	if !ok {
		e = &entry{}
		s.users[userID] = e
	}
	s.mu.Unlock()

	e.mu.Lock()
	return &e.data, e.mu.Unlock
}

// Reset clears all conversation data in place. Must be called while the
// identity is held via Acquire. Idempotent.
func (d *Data) Reset() {
	*d = Data{}
}

// Delete removes the identity entirely. Safe to call for unknown users.
func (s *Store) Delete(userID string) {
	s.mu.Lock()
	delete(s.users, userID)
	s.mu.Unlock()
}
