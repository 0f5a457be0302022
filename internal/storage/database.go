package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/AwesomeSam9523/muj-bot/internal/config"
	"github.com/AwesomeSam9523/muj-bot/internal/db"
	"github.com/AwesomeSam9523/muj-bot/internal/models"
)

var (
	// ErrDuplicateID is returned when a verification id already exists.
	ErrDuplicateID = errors.New("verification id already exists")

	// ErrAlreadyDecided is returned when a terminal transition is attempted
	// on a record that is no longer pending. Terminal records never change.
	ErrAlreadyDecided = errors.New("verification already decided")

	// ErrNotFound is returned when no record matches the given id.
	ErrNotFound = errors.New("verification not found")
)

// Database provides database operations for the application
type Database struct {
	db *sqlx.DB
}

// NewDatabase creates a new database connection
func NewDatabase(cfg config.DBConfig) (*Database, error) {
	conn, err := db.Connect(db.DSN(cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &Database{db: conn}, nil
}

// New wraps an existing connection.
func New(conn *sqlx.DB) *Database {
	return &Database{db: conn}
}

// Close closes the database connection
func (d *Database) Close() error {
	return d.db.Close()
}

// CreateVerification inserts a new pending record.
func (d *Database) CreateVerification(v models.VerificationRequest) error {
	_, err := d.db.Exec(`
		INSERT INTO verifications ("id", "user", "image", "status", "createdAt")
		VALUES ($1, $2, $3, $4, $5)
	`, v.ID, v.UserID, v.ImageURL, models.StatusPending, v.CreatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrDuplicateID
	}
	return err
}

// DecideVerification applies the terminal transition. The update is
// conditional on the record still being pending so a second decision for
// the same id cannot overwrite the first.
func (d *Database) DecideVerification(id, modID string, outcome models.Status, doneAt time.Time) error {
	if !outcome.Terminal() {
		return fmt.Errorf("outcome %q is not a terminal status", outcome)
	}

	res, err := d.db.Exec(`
		UPDATE verifications
		SET "status" = $1, "mod" = $2, "doneAt" = $3, "isDone" = true
		WHERE "id" = $4 AND "isDone" = false
	`, outcome, modID, doneAt, id)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists int
		if err := d.db.Get(&exists, `SELECT COUNT(*) FROM verifications WHERE "id" = $1`, id); err == nil && exists == 0 {
			return ErrNotFound
		}
		return ErrAlreadyDecided
	}
	return nil
}

// ListPendingVerifications returns every record that still awaits a
// moderator decision. Used at startup to rehydrate approval cards.
func (d *Database) ListPendingVerifications() ([]models.VerificationRequest, error) {
	var vs []models.VerificationRequest
	err := d.db.Select(&vs, `SELECT * FROM verifications WHERE "isDone" = false ORDER BY "createdAt"`)
	return vs, err
}

// ListVerifications returns all records, newest first. When status is
// non-empty only records in that state are returned.
func (d *Database) ListVerifications(status models.Status) ([]models.VerificationRequest, error) {
	var vs []models.VerificationRequest
	if status == "" {
		err := d.db.Select(&vs, `SELECT * FROM verifications ORDER BY "createdAt" DESC`)
		return vs, err
	}
	err := d.db.Select(&vs, `SELECT * FROM verifications WHERE "status" = $1 ORDER BY "createdAt" DESC`, status)
	return vs, err
}

// GetVerification returns a single record by id.
func (d *Database) GetVerification(id string) (models.VerificationRequest, error) {
	var v models.VerificationRequest
	err := d.db.Get(&v, `SELECT * FROM verifications WHERE "id" = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.VerificationRequest{}, ErrNotFound
	}
	return v, err
}

// CountByStatus returns how many records exist per status.
func (d *Database) CountByStatus() (map[models.Status]int, error) {
	var rows []struct {
		Status models.Status `db:"status"`
		Count  int           `db:"count"`
	}
	if err := d.db.Select(&rows, `SELECT "status", COUNT(*) AS count FROM verifications GROUP BY "status"`); err != nil {
		return nil, err
	}
	counts := make(map[models.Status]int, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}
