package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func Connect(dsn string) (*sqlx.DB, error) {
	return sqlx.Connect("postgres", dsn)
}

func DSN(host string, port int, user, pass, name, ssl string) string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, pass, name, ssl,
	)
}

const schema = `
CREATE TABLE IF NOT EXISTS verifications (
    "id"        TEXT PRIMARY KEY,
    "user"      TEXT        NOT NULL,
    "image"     TEXT        NOT NULL,
    "status"    TEXT        NOT NULL DEFAULT 'pending',
    "mod"       TEXT,
    "createdAt" TIMESTAMPTZ NOT NULL,
    "doneAt"    TIMESTAMPTZ,
    "isDone"    BOOLEAN     NOT NULL DEFAULT FALSE
);
CREATE INDEX IF NOT EXISTS verifications_pending_idx ON verifications ("isDone") WHERE "isDone" = FALSE;
`

// EnsureSchema creates the verifications table when it does not exist yet.
func EnsureSchema(conn *sqlx.DB) error {
	if _, err := conn.Exec(schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
