package backup

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"go-helpdesk/internal/features/ticket"

	_ "github.com/lib/pq"
)

// TicketArchiver copies resolved tickets into long-term storage.
type TicketArchiver interface {
	ArchiveResolved(ctx context.Context, tickets []ticket.Ticket) (int64, error)
}

// PostgresArchiver writes resolved tickets into an external Postgres
// database, one row per ticket with the full document as JSON.
type PostgresArchiver struct {
	dsn string
}

func NewPostgresArchiver(dsn string) TicketArchiver {
	return &PostgresArchiver{dsn: dsn}
}

const archiveSchema = `
CREATE TABLE IF NOT EXISTS archived_tickets (
	id            TEXT PRIMARY KEY,
	ticket_number TEXT NOT NULL,
	subject       TEXT NOT NULL,
	status        TEXT NOT NULL,
	priority      TEXT NOT NULL,
	customer_email TEXT,
	created_at    TIMESTAMPTZ,
	resolved_at   TIMESTAMPTZ,
	payload       JSONB NOT NULL
)`

func (a *PostgresArchiver) ArchiveResolved(ctx context.Context, tickets []ticket.Ticket) (int64, error) {
	if a.dsn == "" {
		return 0, fmt.Errorf("archive DSN is not configured")
	}

	db, err := sql.Open("postgres", a.dsn)
	if err != nil {
		return 0, fmt.Errorf("failed to open archive database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return 0, fmt.Errorf("failed to ping archive database: %w", err)
	}
	if _, err := db.ExecContext(ctx, archiveSchema); err != nil {
		return 0, fmt.Errorf("failed to ensure archive table: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO archived_tickets
			(id, ticket_number, subject, status, priority, customer_email, created_at, resolved_at, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	var archived int64
	for i := range tickets {
		t := &tickets[i]
		payload, err := json.Marshal(t)
		if err != nil {
			return archived, fmt.Errorf("failed to serialize ticket %s: %w", t.TicketNumber, err)
		}

		result, err := stmt.ExecContext(ctx,
			t.ID.Hex(), t.TicketNumber, t.Subject, string(t.Status), string(t.Priority),
			t.CustomerEmail, t.CreatedAt, t.ResolvedAt, payload)
		if err != nil {
			return archived, fmt.Errorf("failed to archive ticket %s: %w", t.TicketNumber, err)
		}
		if n, err := result.RowsAffected(); err == nil {
			archived += n
		}
	}

	if err := tx.Commit(); err != nil {
		return archived, err
	}
	return archived, nil
}
