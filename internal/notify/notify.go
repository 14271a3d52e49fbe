// Package notify publishes claim lifecycle events after their state change has committed.
package notify

import (
	"context"
	"time"

	"docmarket/internal/model"
)

// EventType names a claim lifecycle event.
type EventType string

const (
	ClaimSubmitted EventType = "claim.submitted"
	ClaimApproved  EventType = "claim.approved"
	ClaimRejected  EventType = "claim.rejected"
)

// Event is the message body sent to subscribers.
type Event struct {
	Type       EventType         `json:"type"`
	ClaimID    int64             `json:"claim_id"`
	UserEmail  string            `json:"user"`
	DocumentID string            `json:"document_id"`
	Status     model.ClaimStatus `json:"status"`
	Amount     model.Money       `json:"amount"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// NewClaimEvent builds an event describing the claim's current state.
func NewClaimEvent(t EventType, c *model.PaymentClaim, at time.Time) Event {
	return Event{
		Type:       t,
		ClaimID:    c.ID,
		UserEmail:  c.UserEmail,
		DocumentID: c.DocumentID,
		Status:     c.Status,
		Amount:     c.Amount,
		OccurredAt: at,
	}
}

// Publisher delivers events. Delivery is best effort; callers log failures and move on.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Noop discards events. It is used when no queue is configured.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
