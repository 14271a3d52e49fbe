package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"docmarket/internal/repository"
)

// DBTX is the query surface shared by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKey struct{}

// executor returns the transaction stored in ctx, or db when there is none.
// Repositories use it so they join a transaction opened by TransactionManager.
func executor(ctx context.Context, db *sql.DB) DBTX {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok && tx != nil {
		return tx
	}
	return db
}

func inTx(ctx context.Context) bool {
	tx, ok := ctx.Value(txKey{}).(*sql.Tx)
	return ok && tx != nil
}

// TransactionManager implements repository.TransactionManager on database/sql.
type TransactionManager struct {
	db *sql.DB
}

// NewTransactionManager creates a new transaction manager.
func NewTransactionManager(db *sql.DB) *TransactionManager {
	return &TransactionManager{db: db}
}

var _ repository.TransactionManager = (*TransactionManager)(nil)

// ExecTx runs fn inside a transaction. A nested call joins the outer transaction.
// Any error from fn, or a panic, rolls everything back.
func (tm *TransactionManager) ExecTx(ctx context.Context, fn repository.TxFn) (err error) {
	if inTx(ctx) {
		return fn(ctx)
	}

	tx, err := tm.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				err = fmt.Errorf("%w; rollback failed: %v", err, rbErr)
			}
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
