package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"docmarket/internal/logger"
	"docmarket/internal/model"
	"docmarket/internal/notify"
	"docmarket/internal/repository"
	"docmarket/internal/repository/memory"
)

var (
	alice = model.Identity{Email: "alice@example.com", Name: "Alice", Role: model.RoleUser}
	bob   = model.Identity{Email: "bob@example.com", Name: "Bob", Role: model.RoleUser}
	admin = model.Identity{Email: "admin@example.com", Name: "Admin", Role: model.RoleAdmin}
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []notify.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e notify.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []notify.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]notify.EventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// flakyEntitlements fails Grant while failGrant is set.
type flakyEntitlements struct {
	repository.EntitlementRepository
	failGrant bool
}

func (f *flakyEntitlements) Grant(ctx context.Context, e *model.Entitlement) (*model.Entitlement, bool, error) {
	if f.failGrant {
		return nil, false, errors.New("connection reset by peer")
	}
	return f.EntitlementRepository.Grant(ctx, e)
}

type testEnv struct {
	store  *memory.Store
	ents   *flakyEntitlements
	ledger EntitlementLedger
	queue  ClaimQueue
	recon  Reconciler
	gate   AccessGate
	pub    *recordingPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore()
	ents := &flakyEntitlements{EntitlementRepository: store.Entitlements()}
	pub := &recordingPublisher{}
	log := logger.Discard()

	ledger := NewEntitlementLedger(ents, store.Documents(), nil, log)
	return &testEnv{
		store:  store,
		ents:   ents,
		ledger: ledger,
		queue:  NewClaimQueue(store.Claims(), store.Documents(), ledger, pub, nil, log),
		recon:  NewReconciler(store, store.Claims(), ledger, pub, nil, log),
		gate:   NewAccessGate(store.Documents(), ledger, nil),
		pub:    pub,
	}
}

func (e *testEnv) addDocument(t *testing.T, title string, priceMinor int64) *model.Document {
	t.Helper()
	doc, err := e.store.Documents().Create(context.Background(), &model.Document{
		ID:          uuid.New().String(),
		Title:       title,
		Author:      "Unknown",
		Category:    "notes",
		Price:       model.NewMoney(priceMinor, ""),
		BlobRef:     "documents/" + title + ".pdf",
		Filename:    title + ".pdf",
		ContentType: pdfContentType,
		CreatedAt:   time.Now().UTC(),
	})
	require.NoError(t, err)
	return doc
}

func (e *testEnv) submit(t *testing.T, who model.Identity, doc *model.Document, ref string) *model.PaymentClaim {
	t.Helper()
	c, err := e.queue.Submit(context.Background(), who, SubmitInput{
		DocumentID:     doc.ID,
		TransactionRef: ref,
		AmountMinor:    doc.Price.Amount,
	})
	require.NoError(t, err)
	return c
}
