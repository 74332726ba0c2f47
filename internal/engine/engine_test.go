package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/dremassist/obrabot/internal/domain"
	"github.com/dremassist/obrabot/internal/session"
)

type fakeReplier struct {
	replies []string
	docs    []string
}

func (f *fakeReplier) Reply(_ context.Context, text string) error {
	f.replies = append(f.replies, text)
	return nil
}

func (f *fakeReplier) ReplyDocument(_ context.Context, path, caption string) error {
	f.docs = append(f.docs, path)
	return nil
}

func (f *fakeReplier) Typing(context.Context) func() { return func() {} }

func (f *fakeReplier) all() string { return strings.Join(f.replies, "\n---\n") }

type fakeStore struct {
	purchases []domain.Purchase // newest first
	created   []domain.Purchase
	updated   map[string]domain.PurchaseFields
	added     []string
	removed   []string

	createErr error
	updateErr error

	budgetLimit *decimal.Decimal
	budgetSpent decimal.Decimal
}

func (s *fakeStore) Create(_ context.Context, p *domain.Purchase) (string, error) {
	if s.createErr != nil {
		return "", s.createErr
	}
	if p.ID == "" {
		p.ID = fmt.Sprintf("created-%d", len(s.created)+1)
	}
	p.CreatedAt = time.Now()
	s.created = append(s.created, *p)
	s.purchases = append([]domain.Purchase{*p}, s.purchases...)
	return p.ID, nil
}

func (s *fakeStore) ListPage(_ context.Context, scope domain.ListScope, userID string, cursor *time.Time, size int) ([]domain.Purchase, error) {
	var out []domain.Purchase
	for _, p := range s.purchases {
		if scope == domain.ScopeUser && p.UserID != userID {
			continue
		}
		if cursor != nil && !p.CreatedAt.Before(*cursor) {
			continue
		}
		out = append(out, p)
		if len(out) == size {
			break
		}
	}
	return out, nil
}

func (s *fakeStore) ListAll(_ context.Context, scope domain.ListScope, userID string) ([]domain.Purchase, error) {
	var out []domain.Purchase
	for _, p := range s.purchases {
		if scope == domain.ScopeUser && p.UserID != userID {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *fakeStore) Update(_ context.Context, ownerID, purchaseID string, fields domain.PurchaseFields) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	for _, p := range s.purchases {
		if p.ID == purchaseID && p.UserID == ownerID {
			if s.updated == nil {
				s.updated = map[string]domain.PurchaseFields{}
			}
			s.updated[purchaseID] = fields
			return nil
		}
	}
	return domain.ErrPurchaseNotFound
}

func (s *fakeStore) AddAttachment(_ context.Context, ownerID, purchaseID, url string) error {
	s.added = append(s.added, purchaseID+"|"+url)
	return nil
}

func (s *fakeStore) RemoveAttachment(_ context.Context, ownerID, purchaseID, url string) error {
	s.removed = append(s.removed, purchaseID+"|"+url)
	return nil
}

func (s *fakeStore) CategoryBudget(_ context.Context, categoria string) (decimal.Decimal, error) {
	if s.budgetLimit == nil {
		return decimal.Zero, domain.ErrBudgetNotSet
	}
	return *s.budgetLimit, nil
}

func (s *fakeStore) CategorySpending(_ context.Context, categoria string) (decimal.Decimal, error) {
	return s.budgetSpent, nil
}

type fakeExtractor struct {
	fields domain.PurchaseFields
	err    error
}

func (f *fakeExtractor) Extract(context.Context, string) (domain.PurchaseFields, error) {
	return f.fields, f.err
}

type fakeTranscriber struct {
	text string
	err  error
}

func (f *fakeTranscriber) Transcribe(context.Context, []byte, string) (string, error) {
	return f.text, f.err
}

type fakeCompleter struct {
	response string
	err      error
}

func (f *fakeCompleter) Chat(context.Context, []domain.ChatMessage, string) (string, error) {
	return f.response, f.err
}

type fakeInterceptor struct {
	answer string
	err    error
	asked  []string
}

func (f *fakeInterceptor) TryAnswer(_ context.Context, text string) (string, error) {
	f.asked = append(f.asked, text)
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

type fakeUploader struct {
	url     string
	err     error
	uploads []string
}

func (f *fakeUploader) Upload(_ context.Context, localPath, userID string) (string, error) {
	f.uploads = append(f.uploads, localPath)
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

type fakeExporter struct {
	dir string
	err error
}

func (f *fakeExporter) Write([]domain.Purchase) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	path := filepath.Join(f.dir, "compras.xlsx")
	if err := os.WriteFile(path, []byte("xlsx"), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

type fixture struct {
	eng         *Engine
	store       *fakeStore
	extractor   *fakeExtractor
	transcriber *fakeTranscriber
	completer   *fakeCompleter
	interceptor *fakeInterceptor
	uploader    *fakeUploader
	replier     *fakeReplier
	tempDir     string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	f := &fixture{
		store:       &fakeStore{},
		extractor:   &fakeExtractor{},
		transcriber: &fakeTranscriber{},
		completer:   &fakeCompleter{response: "Claro, posso ajudar!"},
		interceptor: &fakeInterceptor{err: domain.ErrNotAQuery},
		uploader:    &fakeUploader{url: "https://files.example/u1/anexo.jpg"},
		replier:     &fakeReplier{},
		tempDir:     dir,
	}
	f.eng = New(Deps{
		Sessions:    session.NewStore(),
		Purchases:   f.store,
		Budgets:     f.store,
		Extractor:   f.extractor,
		Transcriber: f.transcriber,
		Completer:   f.completer,
		Interceptor: f.interceptor,
		Uploader:    f.uploader,
		Exporter:    &fakeExporter{dir: dir},
		TempDir:     dir,
	})
	return f
}

func (f *fixture) send(text string) {
	f.eng.HandleMessage(context.Background(), Message{Sender: "u1", Name: "Ronaldo Silva", Text: text}, f.replier)
}

func (f *fixture) sendMedia(caption string, voice bool) {
	f.eng.HandleMessage(context.Background(), Message{
		Sender: "u1", Name: "Ronaldo Silva", Text: caption,
		Media: &Media{Data: []byte("bytes"), MimeType: "image/jpeg", Voice: voice},
	}, f.replier)
}

func (f *fixture) state() domain.ConversationState {
	data, release := f.eng.sessions.Acquire("u1")
	defer release()
	return data.State
}

func (f *fixture) stagedPaths() []string {
	data, release := f.eng.sessions.Acquire("u1")
	defer release()
	if data.Draft == nil {
		return nil
	}
	return append([]string(nil), data.Draft.Anexos...)
}

func seedPurchases(store *fakeStore, n int) {
	base := time.Date(2026, time.August, 20, 12, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		total := decimal.NewFromInt(int64(100 + i))
		store.purchases = append(store.purchases, domain.Purchase{
			ID:         fmt.Sprintf("p%d", i+1),
			UserID:     "u1",
			UserName:   "Ronaldo",
			Material:   fmt.Sprintf("Material %d", i+1),
			ValorTotal: &total,
			CreatedAt:  base.Add(-time.Duration(i) * time.Hour),
		})
	}
}

func TestGroupAndAnonymousMessagesIgnored(t *testing.T) {
	f := newFixture(t)

	f.eng.HandleMessage(context.Background(), Message{Sender: "u1", IsGroup: true, Text: "menu"}, f.replier)
	f.eng.HandleMessage(context.Background(), Message{Sender: "", Text: "menu"}, f.replier)

	require.Empty(t, f.replier.replies)
}

func TestMenuGreetsByFirstName(t *testing.T) {
	f := newFixture(t)

	f.send("menu")

	require.Len(t, f.replier.replies, 1)
	require.Contains(t, f.replier.replies[0], "Olá *Ronaldo*")
	require.Contains(t, f.replier.replies[0], "1️⃣ - Listar compras do grupo")
	require.Contains(t, f.replier.replies[0], `"listar minhas"`)
}

func TestExitKeywordClearsSessionAndRemovesStagedFiles(t *testing.T) {
	f := newFixture(t)

	f.send("2")
	require.Equal(t, domain.StateAwaitingPurchase, f.state())

	f.sendMedia("10 sacos de cimento por 500 reais", false)
	require.Equal(t, domain.StateAwaitingMoreAttachments, f.state())

	staged := f.stagedPaths()
	require.Len(t, staged, 1)
	require.FileExists(t, staged[0])

	f.send("sair")

	require.Contains(t, f.replier.all(), "Ok, operação cancelada.")
	require.Contains(t, f.replier.all(), "Olá *Ronaldo*")
	require.Equal(t, domain.StateIdle, f.state())
	require.NoFileExists(t, staged[0])
}

func TestExitFromIdleSkipsCancellationNotice(t *testing.T) {
	f := newFixture(t)

	f.send("cancelar")

	require.Len(t, f.replier.replies, 1)
	require.NotContains(t, f.replier.replies[0], "cancelada")
	require.Contains(t, f.replier.replies[0], "Olá *Ronaldo*")
}

func TestRegistrationHappyPathWithDerivedTotal(t *testing.T) {
	f := newFixture(t)
	f.extractor.fields = domain.PurchaseFields{
		Material:      "Cimento",
		Quantidade:    dec("10"),
		ValorUnitario: dec("50"),
		ValorTotal:    dec("500"),
		Categoria:     "estrutura",
	}

	f.send("2")
	require.Contains(t, f.replier.all(), "REGISTRO DE NOVA COMPRA")

	f.sendMedia("10 sacos de cimento a 50 reais cada", false)
	require.Contains(t, f.replier.all(), "Deseja adicionar mais algum anexo?")
	staged := f.stagedPaths()
	require.Len(t, staged, 1)

	f.send("não")
	require.Equal(t, domain.StateAwaitingConfirmation, f.state())
	confirmation := f.replier.replies[len(f.replier.replies)-1]
	require.Contains(t, confirmation, "🔍 *CONFIRA OS DADOS FINAIS:*")
	require.Contains(t, confirmation, "💰 *Valor total:* R$ 500.00")
	require.Contains(t, confirmation, "1 arquivo(s) pronto(s) para upload")

	f.send("sim")
	require.Contains(t, f.replier.all(), "✨ *Compra registrada com sucesso no sistema!*")
	require.Equal(t, domain.StateIdle, f.state())

	require.Len(t, f.store.created, 1)
	created := f.store.created[0]
	require.Equal(t, "Cimento", created.Material)
	require.Equal(t, "u1", created.UserID)
	require.True(t, created.ValorTotal.Equal(decimal.NewFromInt(500)))
	require.Equal(t, []string{f.uploader.url}, created.Anexos)

	require.Len(t, f.uploader.uploads, 1)
	require.NoFileExists(t, staged[0])
}

func TestRegistrationByVoice(t *testing.T) {
	f := newFixture(t)
	f.transcriber.text = "comprei 5 sacos de areia"
	f.extractor.fields = domain.PurchaseFields{Material: "Areia"}

	f.send("2")
	f.sendMedia("", true)

	require.Equal(t, domain.StateAwaitingMoreAttachments, f.state())
	require.Contains(t, f.replier.all(), "Descrição entendida.")
}

func TestExtractionFailureAbortsAndCleans(t *testing.T) {
	f := newFixture(t)
	f.extractor.err = fmt.Errorf("model unavailable")

	f.send("2")
	f.sendMedia("compra qualquer", false)
	staged := f.stagedPaths()
	require.Len(t, staged, 1)

	f.send("não")

	require.Contains(t, f.replier.all(), "Não consegui entender a descrição da compra")
	require.Equal(t, domain.StateIdle, f.state())
	require.NoFileExists(t, staged[0])
}

func TestCorrectionShowsComparison(t *testing.T) {
	f := newFixture(t)
	f.extractor.fields = domain.PurchaseFields{Material: "Cimento", ValorTotal: dec("100")}

	f.send("2")
	f.send("um saco de cimento por 100")
	f.send("não") // closes attachment collection, runs extraction
	require.Equal(t, domain.StateAwaitingConfirmation, f.state())

	f.send("não") // rejects the extracted data
	require.Equal(t, domain.StateAwaitingCorrection, f.state())
	require.Contains(t, f.replier.all(), "o que precisa ser corrigido")

	f.extractor.fields = domain.PurchaseFields{ValorTotal: dec("150")}
	f.send("o valor total é 150 reais")

	require.Equal(t, domain.StateAwaitingConfirmation, f.state())
	comparison := f.replier.replies[len(f.replier.replies)-1]
	require.Contains(t, comparison, "🔍 *CONFIRA OS DADOS CORRIGIDOS:*")
	require.Contains(t, comparison, "💰 *Valor total:* ~R$ 100.00~  ➡️  *R$ 150.00*")
	require.Contains(t, comparison, "🏗️ *Material:* Cimento\n")
	require.NotContains(t, comparison, "~Cimento~")
}

func TestConfirmationWithoutDraftExpiresSession(t *testing.T) {
	f := newFixture(t)
	data, release := f.eng.sessions.Acquire("u1")
	data.State = domain.StateAwaitingConfirmation
	release()

	f.send("sim")

	require.Contains(t, f.replier.all(), "Sessão expirada. Tente registrar a compra novamente.")
	require.NotContains(t, f.replier.all(), "Salvando sua compra")
	require.Equal(t, domain.StateIdle, f.state())
	require.Empty(t, f.store.created)
}

func TestListActionWithoutListExpiresSession(t *testing.T) {
	f := newFixture(t)
	data, release := f.eng.sessions.Acquire("u1")
	data.State = domain.StateAwaitingListAction
	release()

	f.send("b")

	require.Contains(t, f.replier.all(), "Sessão expirada. Tente listar novamente.")
	require.Equal(t, domain.StateIdle, f.state())
}

func TestBudgetWarningAfterSave(t *testing.T) {
	f := newFixture(t)
	limit := decimal.NewFromInt(1000)
	f.store.budgetLimit = &limit
	f.store.budgetSpent = decimal.NewFromInt(850)
	f.extractor.fields = domain.PurchaseFields{Material: "Cimento", Categoria: "estrutura"}

	f.send("2")
	f.send("cimento")
	f.send("não")
	f.send("sim")

	require.Contains(t, f.replier.all(), "⚠️ *AVISO DE ORÇAMENTO* ⚠️")
	require.Contains(t, f.replier.all(), "*estrutura*")
}

func TestBudgetExceededAfterSave(t *testing.T) {
	f := newFixture(t)
	limit := decimal.NewFromInt(1000)
	f.store.budgetLimit = &limit
	f.store.budgetSpent = decimal.NewFromInt(1200)
	f.extractor.fields = domain.PurchaseFields{Material: "Cimento", Categoria: "estrutura"}

	f.send("2")
	f.send("cimento")
	f.send("não")
	f.send("sim")

	require.Contains(t, f.replier.all(), "🚨 *ALERTA DE ORÇAMENTO ESTOURADO* 🚨")
}

func TestPaginationKeepsIndicesStable(t *testing.T) {
	f := newFixture(t)
	seedPurchases(f.store, 7)

	f.send("1")
	require.Equal(t, domain.StateAwaitingListAction, f.state())
	page1 := f.replier.all()
	require.Contains(t, page1, "*Compras de todo o grupo:*")
	require.Contains(t, page1, "*1.*")
	require.Contains(t, page1, "*5.*")
	require.NotContains(t, page1, "*6.*")
	require.Contains(t, page1, `Mostrando página 1. Digite *"mais"*`)

	f.replier.replies = nil
	f.send("mais")
	page2 := f.replier.all()
	require.Contains(t, page2, "*6.*")
	require.Contains(t, page2, "*7.*")
	require.NotContains(t, page2, "Mostrando página")
	require.Contains(t, page2, "*A* - Ver anexos de uma compra")
	require.Equal(t, domain.StateAwaitingListAction, f.state())
}

func TestPaginationPastTheEnd(t *testing.T) {
	f := newFixture(t)
	seedPurchases(f.store, 5)

	f.send("1")
	require.Contains(t, f.replier.all(), `Mostrando página 1`)

	f.replier.replies = nil
	f.send("mais")

	require.Contains(t, f.replier.all(), "Não há mais compras para mostrar.")
	require.Equal(t, domain.StateAwaitingListAction, f.state())
}

func TestListUserScopeShowsOnlyOwnPurchases(t *testing.T) {
	f := newFixture(t)
	seedPurchases(f.store, 2)
	other := decimal.NewFromInt(999)
	f.store.purchases = append(f.store.purchases, domain.Purchase{
		ID: "px", UserID: "u2", UserName: "Maria", Material: "Tijolo",
		ValorTotal: &other, CreatedAt: time.Now(),
	})

	f.send("listar minhas")

	out := f.replier.all()
	require.Contains(t, out, "*Suas compras registradas:*")
	require.Contains(t, out, "Material 1")
	require.NotContains(t, out, "Tijolo")
	require.NotContains(t, out, "Comprador")
}

func TestListEmpty(t *testing.T) {
	f := newFixture(t)

	f.send("1")

	require.Contains(t, f.replier.all(), "Nenhuma compra registrada no grupo ainda.")
	require.Equal(t, domain.StateIdle, f.state())
}

func TestInvalidPurchaseNumberKeepsState(t *testing.T) {
	f := newFixture(t)
	seedPurchases(f.store, 2)

	f.send("1")
	f.send("a")
	require.Equal(t, domain.StateAwaitingPurchaseNumber, f.state())

	for _, bad := range []string{"99", "0", "abc"} {
		f.replier.replies = nil
		f.send(bad)
		require.Contains(t, f.replier.all(), "❌ Número inválido.")
		require.Equal(t, domain.StateAwaitingPurchaseNumber, f.state())
	}
}

func TestViewAttachments(t *testing.T) {
	f := newFixture(t)
	seedPurchases(f.store, 1)
	f.store.purchases[0].Anexos = []string{"https://files.example/u1/nota.pdf"}

	f.send("1")
	f.send("a")
	f.send("1")

	require.Contains(t, f.replier.all(), "https://files.example/u1/nota.pdf")
	require.Equal(t, domain.StateIdle, f.state())
}

func TestOwnershipRequiredForEdit(t *testing.T) {
	f := newFixture(t)
	seedPurchases(f.store, 1)
	f.store.purchases[0].UserID = "u2"

	f.send("1")
	f.send("c")
	f.send("1")

	require.Contains(t, f.replier.all(), "❌ Você só pode editar as compras que você mesmo registrou.")
	require.Equal(t, domain.StateIdle, f.state())

	// next message starts fresh from the menu dispatch
	f.replier.replies = nil
	f.send("2")
	require.Contains(t, f.replier.all(), "REGISTRO DE NOVA COMPRA")
}

func TestEditFlowUpdatesPurchase(t *testing.T) {
	f := newFixture(t)
	seedPurchases(f.store, 1)

	f.send("1")
	f.send("c")
	f.send("1")
	require.Equal(t, domain.StateAwaitingEditDesc, f.state())
	require.Contains(t, f.replier.all(), "📝 *ESTES SÃO OS DADOS ATUAIS DA COMPRA:*")

	f.extractor.fields = domain.PurchaseFields{ValorTotal: dec("150")}
	f.send("o valor total é 150")
	require.Equal(t, domain.StateAwaitingEditConfirm, f.state())
	require.Contains(t, f.replier.all(), "*PREVIEW DA EDIÇÃO*")
	require.Contains(t, f.replier.all(), "~R$ 100.00~  ➡️  *R$ 150.00*")

	f.send("sim")
	require.Contains(t, f.replier.all(), "✨ *Compra atualizada com sucesso no sistema!*")
	require.Equal(t, domain.StateIdle, f.state())

	fields, ok := f.store.updated["p1"]
	require.True(t, ok)
	require.True(t, fields.ValorTotal.Equal(decimal.NewFromInt(150)))
	require.Equal(t, "Material 1", fields.Material)
}

func TestEditDiscardedWithoutConfirmation(t *testing.T) {
	f := newFixture(t)
	seedPurchases(f.store, 1)

	f.send("1")
	f.send("c")
	f.send("1")
	f.extractor.fields = domain.PurchaseFields{ValorTotal: dec("150")}
	f.send("valor total 150")

	f.send("melhor não")

	require.Contains(t, f.replier.all(), "Ok, edição descartada.")
	require.Equal(t, domain.StateIdle, f.state())
	require.Empty(t, f.store.updated)
}

func TestAddAttachmentsToExistingPurchase(t *testing.T) {
	f := newFixture(t)
	seedPurchases(f.store, 1)

	f.send("1")
	f.send("b")
	f.send("1")
	require.Equal(t, domain.StateAwaitingAttachToRecord, f.state())

	f.sendMedia("", false)
	require.Contains(t, f.replier.all(), "✅ Anexo salvo com sucesso!")
	require.Equal(t, []string{"p1|" + f.uploader.url}, f.store.added)
	require.Equal(t, domain.StateAwaitingAttachToRecord, f.state())

	f.send("não")
	require.Contains(t, f.replier.all(), "Operação finalizada.")
	require.Equal(t, domain.StateIdle, f.state())
}

func TestDeleteAttachment(t *testing.T) {
	f := newFixture(t)
	seedPurchases(f.store, 1)
	f.store.purchases[0].Anexos = []string{
		"https://files.example/u1/nota1.pdf",
		"https://files.example/u1/nota2.pdf",
	}

	f.send("1")
	f.send("d")
	f.send("1")
	require.Equal(t, domain.StateAwaitingAttachToDelete, f.state())
	require.Contains(t, f.replier.all(), "*1.* nota1.pdf")
	require.Contains(t, f.replier.all(), "*2.* nota2.pdf")

	f.send("2")

	require.Contains(t, f.replier.all(), "✅ Anexo removido com sucesso!")
	require.Equal(t, []string{"p1|https://files.example/u1/nota2.pdf"}, f.store.removed)
	require.Equal(t, domain.StateIdle, f.state())
}

func TestIdleQuestionAnsweredByInterceptor(t *testing.T) {
	f := newFixture(t)
	f.interceptor.answer = "Você gastou R$ 500,00 com cimento."
	f.interceptor.err = nil

	f.send("quanto gastei com cimento?")

	require.Equal(t, []string{"Você gastou R$ 500,00 com cimento."}, f.replier.replies)
	require.Equal(t, domain.StateIdle, f.state())
}

func TestIdleFallsBackToFreeChat(t *testing.T) {
	f := newFixture(t)
	f.completer.response = "Bom dia! Como posso ajudar na obra?"

	f.send("bom dia")

	require.Equal(t, []string{"Bom dia! Como posso ajudar na obra?"}, f.replier.replies)
	require.Equal(t, domain.StateFreeChat, f.state())

	data, release := f.eng.sessions.Acquire("u1")
	require.Len(t, data.ChatHistory, 2)
	require.Equal(t, "bom dia", data.ChatHistory[0].Content)
	release()
}

func TestFreeChatAnswersDataQuestionsInline(t *testing.T) {
	f := newFixture(t)
	f.send("bom dia")

	f.interceptor.answer = "Você gastou R$ 500,00."
	f.interceptor.err = nil
	f.replier.replies = nil
	f.send("quanto gastei?")

	require.Equal(t, []string{"Você gastou R$ 500,00."}, f.replier.replies)
	require.Equal(t, domain.StateFreeChat, f.state())

	data, release := f.eng.sessions.Acquire("u1")
	require.Len(t, data.ChatHistory, 2, "data answers stay out of the chat history")
	release()
}

func TestFreeChatHistoryIsBounded(t *testing.T) {
	f := newFixture(t)

	for i := 0; i < 10; i++ {
		f.send(fmt.Sprintf("mensagem %d", i))
	}

	data, release := f.eng.sessions.Acquire("u1")
	defer release()
	require.Len(t, data.ChatHistory, 8)
	require.Equal(t, "mensagem 6", data.ChatHistory[0].Content)
}

func TestListActionAcceptsQuestions(t *testing.T) {
	f := newFixture(t)
	seedPurchases(f.store, 1)
	f.send("1")

	f.interceptor.answer = "Gastou R$ 100,00."
	f.interceptor.err = nil
	f.replier.replies = nil
	f.send("quanto gastei?")

	require.Contains(t, f.replier.replies[0], "Gastou R$ 100,00.")
	require.Contains(t, f.replier.replies[1], "escolher uma das opções (A, B, C, D, mais)")
	require.Equal(t, domain.StateAwaitingListAction, f.state())
}

func TestExportWithoutPurchases(t *testing.T) {
	f := newFixture(t)

	f.send("3")

	require.Contains(t, f.replier.all(), "Você não possui compras para exportar.")
	require.Empty(t, f.replier.docs)
}

func TestExportSendsSpreadsheet(t *testing.T) {
	f := newFixture(t)
	seedPurchases(f.store, 2)

	f.send("3")

	require.Len(t, f.replier.docs, 1)
	require.Contains(t, f.replier.docs[0], "compras.xlsx")
}
