package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"docmarket/internal/model"
	"docmarket/internal/repository"
)

// ClaimStore implements repository.ClaimRepository.
type ClaimStore struct {
	s *Store
}

var _ repository.ClaimRepository = (*ClaimStore)(nil)

func (r *ClaimStore) Create(ctx context.Context, c *model.PaymentClaim) (*model.PaymentClaim, error) {
	var out model.PaymentClaim
	err := r.s.write(ctx, func(st *state) error {
		if _, dup := st.claimRefs[c.TransactionRef]; dup {
			return fmt.Errorf("%w: %s", repository.ErrDuplicateReference, c.TransactionRef)
		}
		st.nextClaimID++
		row := *c
		row.ID = st.nextClaimID
		row.Status = model.ClaimPending
		row.DecidedAt = nil
		st.claims[row.ID] = row
		st.claimRefs[row.TransactionRef] = row.ID
		out = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *ClaimStore) FindByID(ctx context.Context, id int64) (*model.PaymentClaim, error) {
	var out model.PaymentClaim
	err := r.s.read(ctx, func(st *state) error {
		c, ok := st.claims[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByIDForUpdate needs no row lock here: a transaction already owns the whole store.
func (r *ClaimStore) FindByIDForUpdate(ctx context.Context, id int64) (*model.PaymentClaim, error) {
	return r.FindByID(ctx, id)
}

func (r *ClaimStore) LatestStatus(ctx context.Context, userEmail, documentID string) (*model.ClaimStatus, error) {
	var latest *model.PaymentClaim
	err := r.s.read(ctx, func(st *state) error {
		for _, c := range st.claims {
			if c.UserEmail != userEmail || c.DocumentID != documentID {
				continue
			}
			if latest == nil || newer(c, *latest) {
				latest = &c
			}
		}
		return nil
	})
	if err != nil || latest == nil {
		return nil, err
	}
	s := latest.Status
	return &s, nil
}

func (r *ClaimStore) List(ctx context.Context) ([]model.PaymentClaim, error) {
	out := make([]model.PaymentClaim, 0)
	err := r.s.read(ctx, func(st *state) error {
		for _, c := range st.claims {
			out = append(out, c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return newer(out[i], out[j]) })
	return out, nil
}

func (r *ClaimStore) UpdateStatus(ctx context.Context, id int64, from, to model.ClaimStatus, at time.Time) error {
	return r.s.write(ctx, func(st *state) error {
		c, ok := st.claims[id]
		if !ok {
			return repository.ErrNotFound
		}
		if c.Status != from {
			return repository.ErrConflict
		}
		c.Status = to
		decided := at
		c.DecidedAt = &decided
		st.claims[id] = c
		return nil
	})
}

// newer orders claims by created_at descending, then id descending.
func newer(a, b model.PaymentClaim) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}
