package service

import (
	"context"
	"log/slog"
	"time"

	"docmarket/internal/metrics"
	"docmarket/internal/model"
	"docmarket/internal/repository"
)

// GrantRequest names the pair to entitle and how the grant came about.
type GrantRequest struct {
	UserEmail  string
	DocumentID string
	Source     model.EntitlementSource
	ClaimID    *int64
}

// EntitlementLedger is the durable record of which users may read which documents.
type EntitlementLedger interface {
	// Grant is idempotent: an existing entitlement for the pair is returned unchanged with
	// created=false. It joins any transaction carried by ctx and records no metrics, so callers
	// count grants only once their unit of work has committed.
	Grant(ctx context.Context, req GrantRequest) (ent *model.Entitlement, created bool, err error)

	// IsEntitled reports whether a committed entitlement exists for the pair. A malformed
	// document id names no document and is never entitled.
	IsEntitled(ctx context.Context, userEmail, documentID string) (bool, error)

	// ListForUser returns the user's entitlements, most recent first.
	ListForUser(ctx context.Context, userEmail string) ([]model.Entitlement, error)

	// GrantDirect records access without a payment claim. Anyone may take a free document for
	// themselves; priced documents and grants to other users need an administrator.
	GrantDirect(ctx context.Context, actor model.Identity, userEmail, documentID string) (ent *model.Entitlement, created bool, err error)
}

type entitlementLedger struct {
	ents    repository.EntitlementRepository
	docs    repository.DocumentRepository
	metrics *metrics.Recorder
	logger  *slog.Logger
	now     func() time.Time
}

// NewEntitlementLedger constructs a new EntitlementLedger.
func NewEntitlementLedger(ents repository.EntitlementRepository, docs repository.DocumentRepository, rec *metrics.Recorder, logger *slog.Logger) EntitlementLedger {
	return &entitlementLedger{ents: ents, docs: docs, metrics: rec, logger: logger, now: time.Now}
}

func (l *entitlementLedger) Grant(ctx context.Context, req GrantRequest) (*model.Entitlement, bool, error) {
	ent, created, err := l.ents.Grant(ctx, &model.Entitlement{
		UserEmail:  model.NormalizeEmail(req.UserEmail),
		DocumentID: req.DocumentID,
		Source:     req.Source,
		ClaimID:    req.ClaimID,
		GrantedAt:  l.now().UTC(),
	})
	if err != nil {
		return nil, false, storageErr(err)
	}
	return ent, created, nil
}

func (l *entitlementLedger) IsEntitled(ctx context.Context, userEmail, documentID string) (bool, error) {
	if !wellFormedID(documentID) {
		return false, nil
	}
	ok, err := l.ents.Exists(ctx, model.NormalizeEmail(userEmail), documentID)
	if err != nil {
		return false, storageErr(err)
	}
	return ok, nil
}

func (l *entitlementLedger) ListForUser(ctx context.Context, userEmail string) ([]model.Entitlement, error) {
	out, err := l.ents.ListByUser(ctx, model.NormalizeEmail(userEmail))
	if err != nil {
		return nil, storageErr(err)
	}
	return out, nil
}

func (l *entitlementLedger) GrantDirect(ctx context.Context, actor model.Identity, userEmail, documentID string) (*model.Entitlement, bool, error) {
	user, err := ResolveSubject(actor, userEmail)
	if err != nil {
		return nil, false, err
	}
	if documentID == "" {
		return nil, false, validationErr(errDocumentIDRequired)
	}

	doc, err := findDocument(ctx, l.docs, documentID)
	if err != nil {
		return nil, false, err
	}
	if doc.Locked() && !actor.IsAdmin() {
		return nil, false, ErrForbidden
	}

	ent, created, err := l.Grant(ctx, GrantRequest{UserEmail: user, DocumentID: doc.ID, Source: model.SourceDirect})
	if err != nil {
		return nil, false, err
	}
	if created {
		l.metrics.EntitlementGranted(string(model.SourceDirect))
		l.logger.Info("entitlement granted",
			"user", user,
			"document_id", doc.ID,
			"source", model.SourceDirect,
			"granted_by", actor.Email,
		)
	}
	return ent, created, nil
}
