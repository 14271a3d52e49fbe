package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"docmarket/internal/metrics"
	"docmarket/internal/model"
	"docmarket/internal/notify"
	"docmarket/internal/repository"
)

// SubmitInput is a user's proof of an out-of-band payment.
type SubmitInput struct {
	UserEmail      string
	UserName       string
	DocumentID     string
	DocumentTitle  string
	TransactionRef string
	AmountMinor    int64
	Currency       string
}

// ClaimQueue records payment claims awaiting reconciliation.
type ClaimQueue interface {
	// Submit creates a pending claim. A transaction reference already used by any claim,
	// whatever its status, yields ErrDuplicateReference.
	Submit(ctx context.Context, actor model.Identity, in SubmitInput) (*model.PaymentClaim, error)

	// LatestStatus returns the status of the newest claim for the pair, or nil when none exists.
	// A malformed document id has no claims.
	LatestStatus(ctx context.Context, userEmail, documentID string) (*model.ClaimStatus, error)

	// ListAll returns every claim, newest first.
	ListAll(ctx context.Context) ([]model.PaymentClaim, error)

	// Get returns one claim.
	Get(ctx context.Context, id int64) (*model.PaymentClaim, error)
}

type claimQueue struct {
	claims    repository.ClaimRepository
	docs      repository.DocumentRepository
	ledger    EntitlementLedger
	publisher notify.Publisher
	metrics   *metrics.Recorder
	logger    *slog.Logger
	now       func() time.Time
}

// NewClaimQueue constructs a new ClaimQueue.
func NewClaimQueue(
	claims repository.ClaimRepository,
	docs repository.DocumentRepository,
	ledger EntitlementLedger,
	publisher notify.Publisher,
	rec *metrics.Recorder,
	logger *slog.Logger,
) ClaimQueue {
	return &claimQueue{
		claims:    claims,
		docs:      docs,
		ledger:    ledger,
		publisher: publisher,
		metrics:   rec,
		logger:    logger,
		now:       time.Now,
	}
}

// NormalizeReference canonicalises a transaction reference so the same proof typed with
// different case or surrounding spaces collides on the uniqueness constraint.
func NormalizeReference(ref string) string {
	return strings.ToUpper(strings.TrimSpace(ref))
}

func validateSubmit(in *SubmitInput) error {
	return validation.ValidateStruct(in,
		validation.Field(&in.UserEmail, validation.Required, is.EmailFormat),
		validation.Field(&in.UserName, validation.Length(0, 120)),
		validation.Field(&in.DocumentID, validation.Required),
		validation.Field(&in.DocumentTitle, validation.Length(0, 200)),
		validation.Field(&in.TransactionRef, validation.Required, validation.Length(6, 64), is.Alphanumeric),
		validation.Field(&in.AmountMinor, validation.Min(int64(1)).Error("must be greater than zero")),
		validation.Field(&in.Currency, validation.Length(3, 3)),
	)
}

func (q *claimQueue) Submit(ctx context.Context, actor model.Identity, in SubmitInput) (*model.PaymentClaim, error) {
	claim, err := q.submit(ctx, actor, in)
	switch {
	case err == nil:
		q.metrics.ClaimSubmitted("accepted")
	case errors.Is(err, ErrDuplicateReference):
		q.metrics.ClaimSubmitted("duplicate_reference")
	case errors.Is(err, ErrStorageFailure):
		q.metrics.ClaimSubmitted("error")
	default:
		q.metrics.ClaimSubmitted("rejected")
	}
	if err != nil {
		return nil, err
	}

	q.logger.Info("payment claim submitted",
		"claim_id", claim.ID,
		"user", claim.UserEmail,
		"document_id", claim.DocumentID,
		"amount", claim.Amount.String(),
	)
	publish(ctx, q.publisher, q.metrics, q.logger, notify.NewClaimEvent(notify.ClaimSubmitted, claim, q.now().UTC()))
	return claim, nil
}

func (q *claimQueue) submit(ctx context.Context, actor model.Identity, in SubmitInput) (*model.PaymentClaim, error) {
	user, err := ResolveSubject(actor, in.UserEmail)
	if err != nil {
		return nil, err
	}
	in.UserEmail = user
	if in.UserName == "" && user == actor.Email {
		in.UserName = actor.Name
	}
	in.UserName = strings.TrimSpace(in.UserName)
	in.DocumentTitle = strings.TrimSpace(in.DocumentTitle)
	in.TransactionRef = NormalizeReference(in.TransactionRef)
	in.Currency = strings.ToLower(strings.TrimSpace(in.Currency))

	if err := validateSubmit(&in); err != nil {
		return nil, validationErr(err)
	}

	doc, err := findDocument(ctx, q.docs, in.DocumentID)
	if err != nil {
		return nil, err
	}
	if !doc.Locked() {
		return nil, ErrNotPayable
	}
	entitled, err := q.ledger.IsEntitled(ctx, user, doc.ID)
	if err != nil {
		return nil, err
	}
	if entitled {
		return nil, ErrAlreadyEntitled
	}

	if in.DocumentTitle == "" {
		in.DocumentTitle = doc.Title
	}
	if in.Currency == "" {
		in.Currency = doc.Price.Currency
	}

	claim, err := q.claims.Create(ctx, &model.PaymentClaim{
		UserEmail:      in.UserEmail,
		UserName:       in.UserName,
		DocumentID:     doc.ID,
		DocumentTitle:  in.DocumentTitle,
		TransactionRef: in.TransactionRef,
		Amount:         model.NewMoney(in.AmountMinor, in.Currency),
		Status:         model.ClaimPending,
		CreatedAt:      q.now().UTC(),
	})
	if err != nil {
		return nil, storageErr(err)
	}
	return claim, nil
}

func (q *claimQueue) LatestStatus(ctx context.Context, userEmail, documentID string) (*model.ClaimStatus, error) {
	if documentID == "" {
		return nil, validationErr(errDocumentIDRequired)
	}
	if !wellFormedID(documentID) {
		return nil, nil
	}
	st, err := q.claims.LatestStatus(ctx, model.NormalizeEmail(userEmail), documentID)
	if err != nil {
		return nil, storageErr(err)
	}
	return st, nil
}

func (q *claimQueue) ListAll(ctx context.Context) ([]model.PaymentClaim, error) {
	out, err := q.claims.List(ctx)
	if err != nil {
		return nil, storageErr(err)
	}
	return out, nil
}

func (q *claimQueue) Get(ctx context.Context, id int64) (*model.PaymentClaim, error) {
	if id <= 0 {
		return nil, ErrNotFound
	}
	c, err := q.claims.FindByID(ctx, id)
	if err != nil {
		return nil, storageErr(err)
	}
	return c, nil
}

// publish sends an event after its state change has committed. Failures are logged and counted.
func publish(ctx context.Context, p notify.Publisher, rec *metrics.Recorder, logger *slog.Logger, e notify.Event) {
	if err := p.Publish(ctx, e); err != nil {
		rec.PublishFailed(string(e.Type))
		logger.Warn("claim event not published",
			"event", e.Type,
			"claim_id", e.ClaimID,
			"error", err.Error(),
		)
	}
}
