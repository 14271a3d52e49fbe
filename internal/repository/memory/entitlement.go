package memory

import (
	"context"
	"sort"

	"docmarket/internal/model"
	"docmarket/internal/repository"
)

// EntitlementStore implements repository.EntitlementRepository.
type EntitlementStore struct {
	s *Store
}

var _ repository.EntitlementRepository = (*EntitlementStore)(nil)

func (r *EntitlementStore) Grant(ctx context.Context, e *model.Entitlement) (*model.Entitlement, bool, error) {
	var (
		out     model.Entitlement
		created bool
	)
	err := r.s.write(ctx, func(st *state) error {
		k := entKey{user: e.UserEmail, doc: e.DocumentID}
		if existing, ok := st.entitlements[k]; ok {
			out = existing
			return nil
		}
		row := *e
		if e.ClaimID != nil {
			id := *e.ClaimID
			row.ClaimID = &id
		}
		st.entitlements[k] = row
		out, created = row, true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &out, created, nil
}

func (r *EntitlementStore) Exists(ctx context.Context, userEmail, documentID string) (bool, error) {
	var ok bool
	err := r.s.read(ctx, func(st *state) error {
		_, ok = st.entitlements[entKey{user: userEmail, doc: documentID}]
		return nil
	})
	return ok, err
}

func (r *EntitlementStore) ListByUser(ctx context.Context, userEmail string) ([]model.Entitlement, error) {
	out := make([]model.Entitlement, 0)
	err := r.s.read(ctx, func(st *state) error {
		for k, e := range st.entitlements {
			if k.user == userEmail {
				out = append(out, e)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].GrantedAt.Equal(out[j].GrantedAt) {
			return out[i].GrantedAt.After(out[j].GrantedAt)
		}
		return out[i].DocumentID < out[j].DocumentID
	})
	return out, nil
}
