package model

import "time"

// ClaimStatus is the lifecycle state of a PaymentClaim.
type ClaimStatus string

const (
	ClaimPending  ClaimStatus = "pending"
	ClaimApproved ClaimStatus = "approved"
	ClaimRejected ClaimStatus = "rejected"
)

// Valid reports whether s is a known status.
func (s ClaimStatus) Valid() bool {
	switch s {
	case ClaimPending, ClaimApproved, ClaimRejected:
		return true
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s ClaimStatus) Terminal() bool {
	return s == ClaimApproved || s == ClaimRejected
}

// CanTransition reports whether moving from s to next is a legal state change.
// Only pending -> approved and pending -> rejected are legal.
func (s ClaimStatus) CanTransition(next ClaimStatus) bool {
	return s == ClaimPending && next.Terminal()
}

// PaymentClaim is a user's assertion that an out-of-band payment was made for a document.
// TransactionRef is the proof of payment (e.g. a UPI UTR) and is unique across all claims.
type PaymentClaim struct {
	ID             int64       `json:"id"`
	UserEmail      string      `json:"user"`
	UserName       string      `json:"user_name"`
	DocumentID     string      `json:"document_id"`
	DocumentTitle  string      `json:"document_title"`
	TransactionRef string      `json:"transaction_ref"`
	Amount         Money       `json:"amount"`
	Status         ClaimStatus `json:"status"`
	CreatedAt      time.Time   `json:"created_at"`
	DecidedAt      *time.Time  `json:"decided_at,omitempty"`
}
