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

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id            UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  name          TEXT        NOT NULL,
  phone         TEXT        NOT NULL,
  email         TEXT        NOT NULL UNIQUE,
  password_hash TEXT        NOT NULL,
  profile_image TEXT,
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_admins",
		SQL: `CREATE TABLE IF NOT EXISTS admins (
  id             UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  name           TEXT        NOT NULL,
  email          TEXT        NOT NULL UNIQUE,
  password_hash  TEXT        NOT NULL,
  profile_image  TEXT,
  otp_code       TEXT,
  otp_expires_at TIMESTAMPTZ,
  created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
  CONSTRAINT admins_otp_pair CHECK ((otp_code IS NULL) = (otp_expires_at IS NULL))
);`,
	},
	{
		Name: "create_index_admins_otp_code",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_admins_otp_code ON admins (otp_code) WHERE otp_code IS NOT NULL;`,
	},
	{
		Name: "create_table_labels",
		SQL: `CREATE TABLE IF NOT EXISTS labels (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  name       TEXT        NOT NULL,
  color      TEXT,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_notes",
		SQL: `CREATE TABLE IF NOT EXISTS notes (
  id          UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  title       TEXT        NOT NULL,
  description TEXT        NOT NULL,
  label_id    UUID        REFERENCES labels (id) ON DELETE SET NULL,
  user_id     UUID        NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  color       TEXT,
  archived    BOOLEAN     NOT NULL DEFAULT false,
  pinned      BOOLEAN     NOT NULL DEFAULT false,
  files       JSONB       NOT NULL DEFAULT '[]'::jsonb CHECK (jsonb_array_length(files) <= 10),
  version     BIGINT      NOT NULL DEFAULT 1,
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_notes_user_id_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_notes_user_id_created_at ON notes (user_id, created_at DESC);`,
	},
	{
		Name: "create_index_notes_label_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_notes_label_id ON notes (label_id);`,
	},
}

// sentinelTable is created by the last table step; its presence means the
// schema is in place.
const sentinelTable = "public.notes"

// EnsureMigrated checks if the sentinel table exists and runs migrations if it doesn't.
// Every step is idempotent, so a partially applied schema is completed on the next start.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *slog.Logger, dbHost string) error {
	start := time.Now()
	log = log.With("component", "database", "db_host", dbHost)

	log.InfoContext(ctx, "db_migration_check", "status", "starting")

	var exists bool
	err := db.QueryRowContext(ctx, "SELECT to_regclass($1) IS NOT NULL", sentinelTable).Scan(&exists)
	if err != nil {
		log.ErrorContext(ctx, "db_migration_failed",
			"status", "error",
			"error_message", fmt.Sprintf("failed to check sentinel table: %v", err),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.InfoContext(ctx, "db_migration_skip",
			"status", "success",
			"detail", "schema already exists, skipping migration",
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil
	}

	log.InfoContext(ctx, "db_migration_start", "status", "in_progress")

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.ErrorContext(ctx, "db_migration_failed",
				"status", "error",
				"migration_step", step.Name,
				"error_message", err.Error(),
				"duration_ms", time.Since(start).Milliseconds(),
				"step_duration_ms", time.Since(stepStart).Milliseconds(),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.InfoContext(ctx, "db_migration_step",
			"status", "success",
			"migration_step", step.Name,
			"step_duration_ms", time.Since(stepStart).Milliseconds(),
		)
	}

	log.InfoContext(ctx, "db_migration_success",
		"status", "success",
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return nil
}
