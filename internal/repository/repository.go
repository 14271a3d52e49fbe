package repository

// Package repository contains data access layer abstractions.
// Implementations live in subpackages (postgres, memory) inside this directory.

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a row addressed by key does not exist.
	ErrNotFound = errors.New("repository: not found")
	// ErrDuplicateReference is returned when a payment claim reuses a transaction reference.
	ErrDuplicateReference = errors.New("repository: duplicate transaction reference")
	// ErrConflict is returned when a conditional write did not match the expected state.
	ErrConflict = errors.New("repository: conflicting state")
)

// TxFn is the unit of work run inside a transaction. Repositories called with the
// context passed to fn take part in the same transaction.
type TxFn func(ctx context.Context) error

// TransactionManager runs a TxFn atomically: every write made through the transactional
// context commits together, or none does.
type TransactionManager interface {
	ExecTx(ctx context.Context, fn TxFn) error
}

// Pinger reports store availability for health checks.
type Pinger interface {
	PingContext(ctx context.Context) error
}
