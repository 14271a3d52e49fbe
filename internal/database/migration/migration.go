package migration

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

// sentinelTable is created by the last step, so its presence means the schema is complete.
const sentinelTable = "public.user_roles"

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_documents",
		SQL: `CREATE TABLE IF NOT EXISTS documents (
  id           UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  title        TEXT        NOT NULL,
  author       TEXT        NOT NULL DEFAULT '',
  description  TEXT        NOT NULL DEFAULT '',
  category     TEXT        NOT NULL DEFAULT '',
  price_minor  BIGINT      NOT NULL DEFAULT 0 CHECK (price_minor >= 0),
  currency     TEXT        NOT NULL DEFAULT 'inr',
  blob_ref     TEXT        NOT NULL UNIQUE,
  filename     TEXT        NOT NULL,
  size         BIGINT      NOT NULL CHECK (size >= 0),
  content_type TEXT        NOT NULL,
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_documents_category",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_category ON documents (lower(category));`,
	},
	{
		Name: "create_index_documents_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents (created_at DESC, id DESC);`,
	},
	{
		Name: "create_table_payment_claims",
		SQL: `CREATE TABLE IF NOT EXISTS payment_claims (
  id              BIGSERIAL   PRIMARY KEY,
  user_email      TEXT        NOT NULL,
  user_name       TEXT        NOT NULL DEFAULT '',
  document_id     UUID        NOT NULL,
  document_title  TEXT        NOT NULL DEFAULT '',
  transaction_ref TEXT        NOT NULL,
  amount_minor    BIGINT      NOT NULL CHECK (amount_minor > 0),
  currency        TEXT        NOT NULL DEFAULT 'inr',
  status          TEXT        NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved', 'rejected')),
  created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
  decided_at      TIMESTAMPTZ,
  CONSTRAINT payment_claims_transaction_ref_key UNIQUE (transaction_ref)
);`,
	},
	{
		Name: "create_index_payment_claims_user_document",
		SQL: `CREATE INDEX IF NOT EXISTS idx_payment_claims_user_document
  ON payment_claims (user_email, document_id, created_at DESC, id DESC);`,
	},
	{
		Name: "create_table_entitlements",
		SQL: `CREATE TABLE IF NOT EXISTS entitlements (
  user_email  TEXT        NOT NULL,
  document_id UUID        NOT NULL,
  source      TEXT        NOT NULL CHECK (source IN ('direct', 'claim')),
  claim_id    BIGINT      REFERENCES payment_claims (id),
  granted_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
  PRIMARY KEY (user_email, document_id)
);`,
	},
	{
		Name: "create_table_user_roles",
		SQL: `CREATE TABLE IF NOT EXISTS user_roles (
  user_email TEXT PRIMARY KEY,
  role       TEXT NOT NULL CHECK (role IN ('user', 'admin'))
);`,
	},
}

// EnsureMigrated checks whether the schema exists and runs the migration steps if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *slog.Logger, dbHost string) error {
	start := time.Now()
	log = log.With("component", "database", "db_host", dbHost)

	log.Info("migration check", "event", "db_migration_check", "status", "starting")

	var exists bool
	query := fmt.Sprintf("SELECT to_regclass('%s') IS NOT NULL", sentinelTable)
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.Error("migration check failed",
			"event", "db_migration_failed",
			"status", "error",
			"error_message", fmt.Sprintf("failed to check sentinel table: %v", err),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("schema already exists, skipping migration",
			"event", "db_migration_skip",
			"status", "success",
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil
	}

	log.Info("migration started", "event", "db_migration_start", "status", "in_progress")

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("migration step failed",
				"event", "db_migration_failed",
				"status", "error",
				"migration_step", step.Name,
				"error_message", err.Error(),
				"duration_ms", time.Since(start).Milliseconds(),
				"step_duration_ms", time.Since(stepStart).Milliseconds(),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info("migration step applied",
			"event", "db_migration_step",
			"status", "success",
			"migration_step", step.Name,
			"step_duration_ms", time.Since(stepStart).Milliseconds(),
		)
	}

	log.Info("migration finished",
		"event", "db_migration_success",
		"status", "success",
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
