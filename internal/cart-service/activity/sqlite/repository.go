// Package sqlite provides a SQLite-backed implementation of activity.Repository.
//
// WAL mode is enabled on Open so that the status endpoint can read while
// request handlers append.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jcmexdev/ecommerce-cart/internal/cart-service/activity"

	// Pure-Go driver, no CGO.
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned by Latest when a cart has no recorded activity.
var ErrNotFound = fmt.Errorf("sqlite: %w", activity.ErrNoActivity)

const schema = `
CREATE TABLE IF NOT EXISTS cart_activity (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    cart_id      TEXT    NOT NULL,
    operation    TEXT    NOT NULL,
    product_id   TEXT    NOT NULL DEFAULT '',
    quantity     INTEGER NOT NULL DEFAULT 0,
    stage        TEXT    NOT NULL,
    outcome      TEXT    NOT NULL,
    detail       TEXT,
    trace_id     TEXT    NOT NULL DEFAULT '',
    span_id      TEXT    NOT NULL DEFAULT '',
    recorded_at  TEXT    NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_cart_activity_cart_id ON cart_activity(cart_id, id);
CREATE INDEX IF NOT EXISTS idx_cart_activity_trace_id ON cart_activity(trace_id);
`

// Repository is the SQLite implementation of activity.Repository.
type Repository struct {
	db *sql.DB
}

var _ activity.Repository = (*Repository)(nil)

// Open opens (or creates) the database at path and applies the schema.
//
//	repo, err := sqlite.Open("./data/cart-activity.db")
func Open(path string) (*Repository, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// SQLite performs best with a single writer connection.
	db.SetMaxOpenConns(1)

	if err := applySchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// Save appends an entry. It is safe to call concurrently.
func (r *Repository) Save(ctx context.Context, entry *activity.Entry) error {
	const q = `
		INSERT INTO cart_activity
			(cart_id, operation, product_id, quantity, stage, outcome, detail, trace_id, span_id, recorded_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		entry.CartID,
		string(entry.Operation),
		entry.ProductID,
		entry.Quantity,
		string(entry.Stage),
		string(entry.Outcome),
		nullableString(entry.Detail),
		entry.TraceID,
		entry.SpanID,
		entry.RecordedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save activity for %q: %w", entry.CartID, err)
	}
	return nil
}

// Latest returns the most recently appended entry for cartID.
func (r *Repository) Latest(ctx context.Context, cartID string) (*activity.Entry, error) {
	const q = `
		SELECT cart_id, operation, product_id, quantity, stage, outcome,
		       COALESCE(detail, ''), trace_id, span_id, recorded_at
		FROM   cart_activity
		WHERE  cart_id = ?
		ORDER  BY id DESC
		LIMIT  1`

	var (
		entry      activity.Entry
		recordedAt string
	)
	err := r.db.QueryRowContext(ctx, q, cartID).Scan(
		&entry.CartID,
		&entry.Operation,
		&entry.ProductID,
		&entry.Quantity,
		&entry.Stage,
		&entry.Outcome,
		&entry.Detail,
		&entry.TraceID,
		&entry.SpanID,
		&recordedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w %q", ErrNotFound, cartID)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: latest activity for %q: %w", cartID, err)
	}

	entry.RecordedAt, err = parseRFC3339(recordedAt)
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

// applySchema is idempotent due to IF NOT EXISTS.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
