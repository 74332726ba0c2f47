// Package engine drives the per-user conversation state machine: purchase
// registration, listing with follow-up actions, edits, attachment
// management, the spreadsheet export and the free-conversation fallback.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dremassist/obrabot/internal/config"
	"github.com/dremassist/obrabot/internal/domain"
	"github.com/dremassist/obrabot/internal/session"
)

// Message is one inbound private-chat message, transport-neutral.
type Message struct {
	Sender  string // opaque user identity, keys all session state
	Name    string
	IsGroup bool
	Text    string
	Media   *Media
}

// Media is an attachment carried by a message, already downloaded.
type Media struct {
	Data     []byte
	MimeType string
	Voice    bool
}

// Replier is the outbound side of the transport.
type Replier interface {
	Reply(ctx context.Context, text string) error
	ReplyDocument(ctx context.Context, path, caption string) error
	// Typing shows a typing indicator until the returned stop func runs.
	Typing(ctx context.Context) func()
}

type PurchaseStore interface {
	Create(ctx context.Context, p *domain.Purchase) (string, error)
	ListPage(ctx context.Context, scope domain.ListScope, userID string, cursor *time.Time, size int) ([]domain.Purchase, error)
	ListAll(ctx context.Context, scope domain.ListScope, userID string) ([]domain.Purchase, error)
	Update(ctx context.Context, ownerID, purchaseID string, fields domain.PurchaseFields) error
	AddAttachment(ctx context.Context, ownerID, purchaseID, url string) error
	RemoveAttachment(ctx context.Context, ownerID, purchaseID, url string) error
}

type BudgetStore interface {
	CategoryBudget(ctx context.Context, categoria string) (decimal.Decimal, error)
	CategorySpending(ctx context.Context, categoria string) (decimal.Decimal, error)
}

type Extractor interface {
	Extract(ctx context.Context, text string) (domain.PurchaseFields, error)
}

type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}

type Completer interface {
	Chat(ctx context.Context, history []domain.ChatMessage, newMessage string) (string, error)
}

type Interceptor interface {
	// TryAnswer resolves text as a financial question or returns
	// domain.ErrNotAQuery.
	TryAnswer(ctx context.Context, text string) (string, error)
}

type Uploader interface {
	Upload(ctx context.Context, localPath, userID string) (string, error)
}

type Exporter interface {
	Write(purchases []domain.Purchase) (string, error)
}

// Deps contains everything the engine needs.
type Deps struct {
	Sessions    *session.Store
	Purchases   PurchaseStore
	Budgets     BudgetStore
	Extractor   Extractor
	Transcriber Transcriber
	Completer   Completer
	Interceptor Interceptor
	Uploader    Uploader
	Exporter    Exporter
	TempDir     string
}

type handlerFunc func(ctx context.Context, msg Message, r Replier, data *session.Data)

type Engine struct {
	sessions    *session.Store
	purchases   PurchaseStore
	budgets     BudgetStore
	extractor   Extractor
	transcriber Transcriber
	completer   Completer
	interceptor Interceptor
	uploader    Uploader
	exporter    Exporter
	tempDir     string
	pageSize    int

	handlers map[domain.ConversationState]handlerFunc
}

func New(deps Deps) *Engine {
	e := &Engine{
		sessions:    deps.Sessions,
		purchases:   deps.Purchases,
		budgets:     deps.Budgets,
		extractor:   deps.Extractor,
		transcriber: deps.Transcriber,
		completer:   deps.Completer,
		interceptor: deps.Interceptor,
		uploader:    deps.Uploader,
		exporter:    deps.Exporter,
		tempDir:     deps.TempDir,
		pageSize:    config.PageSize,
	}
	e.handlers = map[domain.ConversationState]handlerFunc{
		domain.StateFreeChat:                e.handleFreeChat,
		domain.StateAwaitingPurchase:        e.handleAwaitingPurchase,
		domain.StateAwaitingPurchaseDesc:    e.handleAwaitingPurchaseDesc,
		domain.StateAwaitingMoreAttachments: e.handleAwaitingMoreAttachments,
		domain.StateAwaitingConfirmation:    e.handleAwaitingConfirmation,
		domain.StateAwaitingCorrection:      e.handleAwaitingCorrection,
		domain.StateAwaitingListAction:      e.handleAwaitingListAction,
		domain.StateAwaitingPurchaseNumber:  e.handleAwaitingPurchaseNumber,
		domain.StateAwaitingAttachToRecord:  e.handleAwaitingAttachToRecord,
		domain.StateAwaitingAttachToDelete:  e.handleAwaitingAttachToDelete,
		domain.StateAwaitingEditDesc:        e.handleAwaitingEditDesc,
		domain.StateAwaitingEditConfirm:     e.handleAwaitingEditConfirm,
	}
	return e
}

var exitKeywords = map[string]struct{}{
	"menu": {}, "sair": {}, "xau": {}, "adeus": {},
	"voltar": {}, "cancelar": {}, "fim": {},
}

// HandleMessage processes one inbound message to completion. The sender's
// session is locked for the whole turn, so rapid-fire messages from the
// same user are serialized; distinct users proceed in parallel.
func (e *Engine) HandleMessage(ctx context.Context, msg Message, r Replier) {
	if msg.IsGroup || msg.Sender == "" {
		return
	}

	data, release := e.sessions.Acquire(msg.Sender)
	defer release()

	text := strings.TrimSpace(msg.Text)
	if _, exit := exitKeywords[strings.ToLower(text)]; exit {
		if data.State != domain.StateIdle {
			e.reply(ctx, r, "Ok, operação cancelada. Voltando ao menu principal.")
		}
		e.cleanup(msg.Sender, data)
		e.sendMainMenu(ctx, r, msg.Name)
		return
	}

	if h, ok := e.handlers[data.State]; ok {
		h(ctx, msg, r, data)
		return
	}
	e.handleIdle(ctx, msg, r, data)
}

// cleanup discards locally staged attachments and clears all session data
// for the user. Idempotent; missing files are tolerated.
func (e *Engine) cleanup(userID string, data *session.Data) {
	if data.Draft != nil {
		for _, path := range data.Draft.Anexos {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				slog.Warn("remove staged attachment", "path", path, "error", err)
			} else if err == nil {
				slog.Debug("staged attachment deleted", "path", path, "user_id", userID)
			}
		}
	}
	data.Reset()
}

func (e *Engine) sendMainMenu(ctx context.Context, r Replier, name string) {
	first := strings.SplitN(strings.TrimSpace(name), " ", 2)[0]
	if first == "" {
		first = "Sem nome"
	}
	menu := fmt.Sprintf("👷‍♂️ Olá *%s*! Sou seu assistente de compras para a obra.\n\n", first) +
		"*Como posso te ajudar hoje?*\n\n" +
		"1️⃣ - Listar compras do grupo\n" +
		"2️⃣ - Adicionar nova compra\n" +
		"3️⃣ - Exportar para planilha\n\n" +
		"Para ver apenas as suas compras, digite *\"listar minhas\"*."
	e.reply(ctx, r, menu)
}

func (e *Engine) reply(ctx context.Context, r Replier, text string) {
	if err := r.Reply(ctx, text); err != nil {
		slog.Warn("send reply", "error", err)
	}
}

// stageAttachment writes media to the temp dir and returns the local path.
// Staged files are owned by the session and removed by cleanup or after
// upload, whichever happens first.
func (e *Engine) stageAttachment(media *Media, userID string) (string, error) {
	if err := os.MkdirAll(e.tempDir, 0o755); err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	name := fmt.Sprintf("%s_%s.%s", userID, uuid.NewString(), extFromMime(media.MimeType))
	path := filepath.Join(e.tempDir, name)
	if err := os.WriteFile(path, media.Data, 0o644); err != nil {
		return "", fmt.Errorf("write staged file: %w", err)
	}
	return path, nil
}

func extFromMime(mimeType string) string {
	mt := mimeType
	if i := strings.Index(mt, ";"); i >= 0 {
		mt = mt[:i]
	}
	if i := strings.Index(mt, "/"); i >= 0 && i+1 < len(mt) {
		return mt[i+1:]
	}
	return "tmp"
}

func isYes(text string) bool {
	l := strings.ToLower(strings.TrimSpace(text))
	return l == "sim" || l == "s"
}

func isNo(text string) bool {
	l := strings.ToLower(strings.TrimSpace(text))
	return l == "não" || l == "nao"
}
