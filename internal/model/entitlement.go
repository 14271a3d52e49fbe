package model

import "time"

// EntitlementSource records how access was obtained.
type EntitlementSource string

const (
	SourceDirect EntitlementSource = "direct"
	SourceClaim  EntitlementSource = "claim"
)

// Entitlement is a confirmed grant of access to one document for one user.
// The user is keyed by verified email address. At most one exists per (user, document).
type Entitlement struct {
	UserEmail  string            `json:"user"`
	DocumentID string            `json:"document_id"`
	Source     EntitlementSource `json:"source"`
	ClaimID    *int64            `json:"claim_id,omitempty"`
	GrantedAt  time.Time         `json:"granted_at"`
}
