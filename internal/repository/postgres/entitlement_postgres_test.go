package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"docmarket/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var entitlementCols = []string{"user_email", "document_id", "source", "claim_id", "granted_at"}

func TestEntitlementPostgres_Grant(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	claimID := int64(7)

	t.Run("inserts new pair", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("INSERT INTO entitlements (.+) ON CONFLICT").
			WithArgs("a@example.com", "doc-1", "claim", int64(7), now).
			WillReturnRows(sqlmock.NewRows(entitlementCols).AddRow("a@example.com", "doc-1", "claim", int64(7), now))

		got, created, err := NewEntitlementPostgres(db).Grant(context.Background(), &model.Entitlement{
			UserEmail: "a@example.com", DocumentID: "doc-1", Source: model.SourceClaim, ClaimID: &claimID, GrantedAt: now,
		})

		require.NoError(t, err)
		assert.True(t, created)
		require.NotNil(t, got.ClaimID)
		assert.Equal(t, int64(7), *got.ClaimID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("existing pair is returned unchanged", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		earlier := now.Add(-time.Hour)
		mock.ExpectQuery("INSERT INTO entitlements").
			WillReturnRows(sqlmock.NewRows(entitlementCols))
		mock.ExpectQuery("SELECT (.+) FROM entitlements WHERE user_email = ?").
			WithArgs("a@example.com", "doc-1").
			WillReturnRows(sqlmock.NewRows(entitlementCols).AddRow("a@example.com", "doc-1", "direct", nil, earlier))

		got, created, err := NewEntitlementPostgres(db).Grant(context.Background(), &model.Entitlement{
			UserEmail: "a@example.com", DocumentID: "doc-1", Source: model.SourceClaim, ClaimID: &claimID, GrantedAt: now,
		})

		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, model.SourceDirect, got.Source)
		assert.Nil(t, got.ClaimID)
		assert.Equal(t, earlier, got.GrantedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("storage error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("INSERT INTO entitlements").WillReturnError(errors.New("connection reset"))

		_, _, err = NewEntitlementPostgres(db).Grant(context.Background(), &model.Entitlement{
			UserEmail: "a@example.com", DocumentID: "doc-1", Source: model.SourceDirect, GrantedAt: now,
		})
		assert.EqualError(t, err, "connection reset")
	})
}

func TestEntitlementPostgres_Exists(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewEntitlementPostgres(db)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("a@example.com", "doc-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("a@example.com", "doc-2").
		WillReturnError(sql.ErrConnDone)

	ok, err := repo.Exists(context.Background(), "a@example.com", "doc-1")
	assert.NoError(t, err)
	assert.True(t, ok)

	_, err = repo.Exists(context.Background(), "a@example.com", "doc-2")
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntitlementPostgres_ListByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT (.+) FROM entitlements WHERE user_email = ?").
		WithArgs("a@example.com").
		WillReturnRows(sqlmock.NewRows(entitlementCols).
			AddRow("a@example.com", "doc-2", "claim", int64(3), now).
			AddRow("a@example.com", "doc-1", "direct", nil, now.Add(-time.Minute)))

	got, err := NewEntitlementPostgres(db).ListByUser(context.Background(), "a@example.com")

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "doc-2", got[0].DocumentID)
	assert.Equal(t, model.SourceDirect, got[1].Source)
	assert.NoError(t, mock.ExpectationsWereMet())
}
