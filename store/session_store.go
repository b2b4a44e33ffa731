package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Aashish23092/payslip-verification/dto"
)

var ErrNotFound = errors.New("session not found")

// Document kinds stored per session.
const (
	KindPayslip  = "payslip"
	KindContract = "contract"
)

// SessionStore keeps analysis sessions in sqlite. A payslip and a contract are
// stored independently under (session_id, kind).
type SessionStore struct {
	db *sql.DB
}

func Open(path string) (*SessionStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id         TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_updated_at ON sessions(updated_at);

	CREATE TABLE IF NOT EXISTS session_documents (
		session_id TEXT NOT NULL,
		kind       TEXT NOT NULL,
		payload    TEXT NOT NULL,
		updated_at DATETIME NOT NULL,
		PRIMARY KEY (session_id, kind)
	);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &SessionStore{db: db}, nil
}

func (s *SessionStore) Close() error {
	return s.db.Close()
}

func (s *SessionStore) CreateSession(ctx context.Context, id string, now time.Time) error {
	now = normalizeTime(now)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, created_at, updated_at) VALUES (?, ?, ?)`,
		id, now, now,
	)
	return err
}

func (s *SessionStore) GetSession(ctx context.Context, id string) (dto.Session, error) {
	session := dto.Session{ID: id}
	err := s.db.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM sessions WHERE id = ?`, id,
	).Scan(&session.CreatedAt, &session.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return dto.Session{}, ErrNotFound
	}
	if err != nil {
		return dto.Session{}, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT kind, payload FROM session_documents WHERE session_id = ?`, id,
	)
	if err != nil {
		return dto.Session{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var kind, payload string
		if err := rows.Scan(&kind, &payload); err != nil {
			return dto.Session{}, err
		}
		switch kind {
		case KindPayslip:
			var record dto.PayslipRecord
			if err := json.Unmarshal([]byte(payload), &record); err != nil {
				return dto.Session{}, fmt.Errorf("decode stored payslip: %w", err)
			}
			session.Payslip = &record
		case KindContract:
			var contract dto.ContractBaseline
			if err := json.Unmarshal([]byte(payload), &contract); err != nil {
				return dto.Session{}, fmt.Errorf("decode stored contract: %w", err)
			}
			session.Contract = &contract
		}
	}
	return session, rows.Err()
}

func (s *SessionStore) SavePayslip(ctx context.Context, id string, record dto.PayslipRecord, now time.Time) error {
	return s.putDocument(ctx, id, KindPayslip, record, now)
}

func (s *SessionStore) SaveContract(ctx context.Context, id string, contract dto.ContractBaseline, now time.Time) error {
	return s.putDocument(ctx, id, KindContract, contract, now)
}

func (s *SessionStore) putDocument(ctx context.Context, id, kind string, doc any, now time.Time) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", kind, err)
	}
	now = normalizeTime(now)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `UPDATE sessions SET updated_at = ? WHERE id = ?`, now, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return ErrNotFound
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO session_documents (session_id, kind, payload, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(session_id, kind) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		id, kind, string(payload), now,
	)
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SessionStore) DeleteSession(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM session_documents WHERE session_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// PurgeBefore deletes every session last updated before cutoff and returns how
// many were removed.
func (s *SessionStore) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	cutoff = normalizeTime(cutoff)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM session_documents WHERE session_id IN (SELECT id FROM sessions WHERE updated_at < ?)`,
		cutoff,
	); err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE updated_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, tx.Commit()
}

// Timestamps are stored in UTC with second precision so that they compare
// correctly as text.
func normalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}
