// internal/database/schema.go
//
// Idempotent DDL for the ads and contact_submissions tables.
//
// Context
// -------
// The directory has two tables and no history worth a migration framework,
// so the schema is a short list of CREATE ... IF NOT EXISTS statements per
// dialect.  Statements run one at a time because the MySQL driver rejects
// multi-statement Exec unless multiStatements=true is set on the DSN.
//
// Notes
// -----
// • List columns hold JSON text; see ad.List.
// • public_id is store-assigned and unique; rows imported from the earlier
//   schema may carry NULL.
// • Oxford commas, two spaces after periods.

package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS ads (
		id           VARCHAR(64)  NOT NULL PRIMARY KEY,
		public_id    BIGINT       AUTO_INCREMENT UNIQUE,
		name         VARCHAR(120) NOT NULL,
		age          VARCHAR(8)   NOT NULL,
		gender       VARCHAR(32)  NOT NULL,
		city         VARCHAR(120) NOT NULL,
		country      VARCHAR(120) NOT NULL,
		phone        VARCHAR(40)  NOT NULL,
		email        VARCHAR(254) NOT NULL DEFAULT '',
		whatsapp     VARCHAR(40)  NOT NULL DEFAULT '',
		telegram     VARCHAR(64)  NOT NULL DEFAULT '',
		instagram    VARCHAR(64)  NOT NULL DEFAULT '',
		twitter      VARCHAR(64)  NOT NULL DEFAULT '',
		hair_color   VARCHAR(40)  NOT NULL DEFAULT '',
		languages    TEXT         NOT NULL,
		description  TEXT         NOT NULL,
		services     TEXT         NOT NULL,
		rates        TEXT         NOT NULL,
		images       TEXT         NOT NULL,
		status       VARCHAR(16)  NOT NULL,
		submitted_at DATETIME(3)  NOT NULL,
		KEY ads_listing (status, gender, submitted_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,
	`CREATE TABLE IF NOT EXISTS contact_submissions (
		id           VARCHAR(64)  NOT NULL PRIMARY KEY,
		name         VARCHAR(120) NOT NULL,
		subject      VARCHAR(200) NOT NULL,
		description  TEXT         NOT NULL,
		submitted_at DATETIME(3)  NOT NULL,
		status       VARCHAR(16)  NOT NULL,
		KEY contact_submitted (submitted_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS ads (
		id           VARCHAR(64)  PRIMARY KEY,
		public_id    BIGSERIAL    UNIQUE,
		name         VARCHAR(120) NOT NULL,
		age          VARCHAR(8)   NOT NULL,
		gender       VARCHAR(32)  NOT NULL,
		city         VARCHAR(120) NOT NULL,
		country      VARCHAR(120) NOT NULL,
		phone        VARCHAR(40)  NOT NULL,
		email        VARCHAR(254) NOT NULL DEFAULT '',
		whatsapp     VARCHAR(40)  NOT NULL DEFAULT '',
		telegram     VARCHAR(64)  NOT NULL DEFAULT '',
		instagram    VARCHAR(64)  NOT NULL DEFAULT '',
		twitter      VARCHAR(64)  NOT NULL DEFAULT '',
		hair_color   VARCHAR(40)  NOT NULL DEFAULT '',
		languages    TEXT         NOT NULL DEFAULT '[]',
		description  TEXT         NOT NULL,
		services     TEXT         NOT NULL DEFAULT '[]',
		rates        TEXT         NOT NULL DEFAULT '[]',
		images       TEXT         NOT NULL DEFAULT '[]',
		status       VARCHAR(16)  NOT NULL,
		submitted_at TIMESTAMPTZ  NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS ads_listing ON ads (status, gender, submitted_at)`,
	`CREATE TABLE IF NOT EXISTS contact_submissions (
		id           VARCHAR(64)  PRIMARY KEY,
		name         VARCHAR(120) NOT NULL,
		subject      VARCHAR(200) NOT NULL,
		description  TEXT         NOT NULL,
		submitted_at TIMESTAMPTZ  NOT NULL,
		status       VARCHAR(16)  NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS contact_submitted ON contact_submissions (submitted_at)`,
}

// Schema returns the DDL statements for driver.
func Schema(driver string) ([]string, error) {
	switch driver {
	case DriverMySQL, "":
		return mysqlSchema, nil
	case DriverPostgres, "postgres":
		return postgresSchema, nil
	}
	return nil, fmt.Errorf("database: no schema for driver %q", driver)
}

// Migrate creates missing tables and indexes.  Safe to run on every boot.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	stmts, err := Schema(db.DriverName())
	if err != nil {
		return err
	}
	for i, q := range stmts {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	zap.L().Info("schema migrated",
		zap.String("driver", db.DriverName()),
		zap.Int("statements", len(stmts)))
	return nil
}
