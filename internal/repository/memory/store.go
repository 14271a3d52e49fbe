// Package memory is an in-process implementation of every repository interface. It backs
// STORE_DRIVER=memory and the service scenario tests.
package memory

import (
	"context"
	"sync"

	"docmarket/internal/model"
	"docmarket/internal/repository"
)

type entKey struct {
	user string
	doc  string
}

type state struct {
	documents    map[string]model.Document
	entitlements map[entKey]model.Entitlement
	claims       map[int64]model.PaymentClaim
	claimRefs    map[string]int64
	roles        map[string]model.Role
	nextClaimID  int64
}

func newState() state {
	return state{
		documents:    make(map[string]model.Document),
		entitlements: make(map[entKey]model.Entitlement),
		claims:       make(map[int64]model.PaymentClaim),
		claimRefs:    make(map[string]int64),
		roles:        make(map[string]model.Role),
	}
}

func (s state) clone() state {
	c := newState()
	c.nextClaimID = s.nextClaimID
	for k, v := range s.documents {
		c.documents[k] = v
	}
	for k, v := range s.entitlements {
		c.entitlements[k] = v
	}
	for k, v := range s.claims {
		c.claims[k] = v
	}
	for k, v := range s.claimRefs {
		c.claimRefs[k] = v
	}
	for k, v := range s.roles {
		c.roles[k] = v
	}
	return c
}

// Store holds all rows behind one lock. A transaction holds the write lock from start to
// finish, so readers never observe a partially applied unit of work.
type Store struct {
	mu sync.RWMutex
	st state
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{st: newState()}
}

type txKey struct{}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// read runs fn under the read lock unless ctx already owns the write lock.
func (s *Store) read(ctx context.Context, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.inTx(ctx) {
		return fn(&s.st)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&s.st)
}

// write runs fn under the write lock unless ctx already owns it.
func (s *Store) write(ctx context.Context, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.inTx(ctx) {
		return fn(&s.st)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.st)
}

var _ repository.TransactionManager = (*Store)(nil)

// ExecTx runs fn with exclusive access. If fn fails or panics every change it made is undone.
func (s *Store) ExecTx(ctx context.Context, fn repository.TxFn) (err error) {
	if s.inTx(ctx) {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	defer func() {
		if p := recover(); p != nil {
			s.st = snapshot
			panic(p)
		}
		if err != nil {
			s.st = snapshot
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, s))
}

// PingContext always succeeds while ctx is live.
func (s *Store) PingContext(ctx context.Context) error {
	return ctx.Err()
}

// Documents returns the document repository view of the store.
func (s *Store) Documents() *DocumentStore { return &DocumentStore{s: s} }

// Entitlements returns the entitlement repository view of the store.
func (s *Store) Entitlements() *EntitlementStore { return &EntitlementStore{s: s} }

// Claims returns the claim repository view of the store.
func (s *Store) Claims() *ClaimStore { return &ClaimStore{s: s} }

// Roles returns the role repository view of the store.
func (s *Store) Roles() *RoleStore { return &RoleStore{s: s} }
