package service

import (
	"context"
	"errors"

	"docmarket/internal/metrics"
	"docmarket/internal/model"
	"docmarket/internal/repository"
)

// DenyReason explains a refused access request.
type DenyReason string

const (
	DenyNotFound        DenyReason = "not_found"
	DenyPaymentRequired DenyReason = "payment_required"
)

// Decision is the Access Gate's answer. Price is set when payment is required.
type Decision struct {
	Allowed  bool
	Reason   DenyReason
	Document *model.Document
	Price    model.Money
}

// AccessGate decides per request whether a document may be served. Denial is a normal
// result; an error means the decision could not be made.
type AccessGate interface {
	// CanServe is document-granular: once allowed, every page is servable. page is accepted
	// for the caller's bookkeeping; 0 means no page was given and negative pages are rejected.
	CanServe(ctx context.Context, actor model.Identity, documentID string, page int) (Decision, error)
}

type accessGate struct {
	docs    repository.DocumentRepository
	ledger  EntitlementLedger
	metrics *metrics.Recorder
}

// NewAccessGate constructs a new AccessGate.
func NewAccessGate(docs repository.DocumentRepository, ledger EntitlementLedger, rec *metrics.Recorder) AccessGate {
	return &accessGate{docs: docs, ledger: ledger, metrics: rec}
}

func (g *accessGate) CanServe(ctx context.Context, actor model.Identity, documentID string, page int) (Decision, error) {
	if page < 0 {
		return Decision{}, validationErr(errors.New("page: must not be negative"))
	}
	d, err := g.decide(ctx, actor, documentID)
	if err != nil {
		g.metrics.AccessDecision("error")
		return Decision{}, err
	}
	if d.Allowed {
		g.metrics.AccessDecision("allowed")
	} else {
		g.metrics.AccessDecision(string(d.Reason))
	}
	return d, nil
}

func (g *accessGate) decide(ctx context.Context, actor model.Identity, documentID string) (Decision, error) {
	doc, err := findDocument(ctx, g.docs, documentID)
	if errors.Is(err, ErrNotFound) {
		return Decision{Reason: DenyNotFound}, nil
	}
	if err != nil {
		return Decision{}, err
	}

	if !doc.Locked() || actor.IsAdmin() {
		return Decision{Allowed: true, Document: doc}, nil
	}
	if actor.Email != "" {
		entitled, err := g.ledger.IsEntitled(ctx, actor.Email, doc.ID)
		if err != nil {
			return Decision{}, err
		}
		if entitled {
			return Decision{Allowed: true, Document: doc}, nil
		}
	}
	return Decision{Reason: DenyPaymentRequired, Document: doc, Price: doc.Price}, nil
}
