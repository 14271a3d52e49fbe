package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"docmarket/internal/metrics"
	"docmarket/internal/model"
	"docmarket/internal/notify"
	"docmarket/internal/repository"
)

const tracerName = "docmarket/internal/service"

// Outcome is the result of a reconciliation action. Changed is false when the claim was
// already in the requested state and nothing was written.
type Outcome struct {
	Claim   *model.PaymentClaim `json:"claim"`
	Changed bool                `json:"changed"`
}

// Reconciler moves payment claims out of pending.
type Reconciler interface {
	// Approve marks the claim approved and grants the entitlement in one transaction.
	// Approving an approved claim is a no-op; approving a rejected claim is ErrInvalidTransition.
	Approve(ctx context.Context, claimID int64) (*Outcome, error)

	// Reject marks the claim rejected. Rejecting a rejected claim is a no-op; rejecting an
	// approved claim is ErrInvalidTransition.
	Reject(ctx context.Context, claimID int64) (*Outcome, error)
}

type reconciler struct {
	tx        repository.TransactionManager
	claims    repository.ClaimRepository
	ledger    EntitlementLedger
	publisher notify.Publisher
	metrics   *metrics.Recorder
	logger    *slog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// NewReconciler constructs a new Reconciler.
func NewReconciler(
	tx repository.TransactionManager,
	claims repository.ClaimRepository,
	ledger EntitlementLedger,
	publisher notify.Publisher,
	rec *metrics.Recorder,
	logger *slog.Logger,
) Reconciler {
	return &reconciler{
		tx:        tx,
		claims:    claims,
		ledger:    ledger,
		publisher: publisher,
		metrics:   rec,
		logger:    logger,
		tracer:    otel.Tracer(tracerName),
		now:       time.Now,
	}
}

func (r *reconciler) Approve(ctx context.Context, claimID int64) (*Outcome, error) {
	return r.decide(ctx, "approve", claimID, model.ClaimApproved)
}

func (r *reconciler) Reject(ctx context.Context, claimID int64) (*Outcome, error) {
	return r.decide(ctx, "reject", claimID, model.ClaimRejected)
}

func (r *reconciler) decide(ctx context.Context, action string, claimID int64, to model.ClaimStatus) (*Outcome, error) {
	ctx, span := r.tracer.Start(ctx, "reconciler."+action, trace.WithAttributes(attribute.Int64("claim.id", claimID)))
	defer span.End()

	var (
		out     Outcome
		granted bool
	)
	err := r.tx.ExecTx(ctx, func(ctx context.Context) error {
		c, err := r.claims.FindByIDForUpdate(ctx, claimID)
		if err != nil {
			return err
		}
		if c.Status == to {
			out = Outcome{Claim: c}
			return nil
		}
		if !c.Status.CanTransition(to) {
			return fmt.Errorf("%w: claim %d is %s", ErrInvalidTransition, c.ID, c.Status)
		}

		at := r.now().UTC()
		if err := r.claims.UpdateStatus(ctx, c.ID, c.Status, to, at); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return fmt.Errorf("%w: claim %d changed concurrently", ErrInvalidTransition, c.ID)
			}
			return err
		}

		if to == model.ClaimApproved {
			id := c.ID
			_, created, err := r.ledger.Grant(ctx, GrantRequest{
				UserEmail:  c.UserEmail,
				DocumentID: c.DocumentID,
				Source:     model.SourceClaim,
				ClaimID:    &id,
			})
			if err != nil {
				return err
			}
			granted = created
		}

		c.Status = to
		c.DecidedAt = &at
		out = Outcome{Claim: c, Changed: true}
		return nil
	})
	if err != nil {
		err = storageErr(err)
		r.metrics.ClaimTransition(action, transitionResult(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, ErrStorageFailure) {
			r.logger.Error("claim reconciliation failed", "action", action, "claim_id", claimID, "error", err.Error())
		} else {
			r.logger.Warn("claim reconciliation refused", "action", action, "claim_id", claimID, "error", err.Error())
		}
		return nil, err
	}

	span.SetAttributes(attribute.Bool("claim.changed", out.Changed))
	if !out.Changed {
		r.metrics.ClaimTransition(action, "noop")
		r.logger.Info("claim already decided", "action", action, "claim_id", claimID, "status", out.Claim.Status)
		return &out, nil
	}

	r.metrics.ClaimTransition(action, "changed")
	if granted {
		r.metrics.EntitlementGranted(string(model.SourceClaim))
	}
	r.logger.Info("claim decided",
		"action", action,
		"claim_id", claimID,
		"user", out.Claim.UserEmail,
		"document_id", out.Claim.DocumentID,
		"status", out.Claim.Status,
	)

	eventType := notify.ClaimRejected
	if to == model.ClaimApproved {
		eventType = notify.ClaimApproved
	}
	publish(ctx, r.publisher, r.metrics, r.logger, notify.NewClaimEvent(eventType, out.Claim, *out.Claim.DecidedAt))
	return &out, nil
}

func transitionResult(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidTransition):
		return "invalid_transition"
	default:
		return "error"
	}
}
