package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-away-stress/model"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

const createRowsTable = `CREATE TABLE IF NOT EXISTS survey_rows (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	id         TEXT NOT NULL,
	created_at TEXT NOT NULL,
	payload    TEXT NOT NULL
)`

// SQLiteStore keeps rows in a single append-only table
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	stmts := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		createRowsTable,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("apply sqlite statement %q: %w", stmt, err)
		}
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Name() string { return "sqlite" }

func (s *SQLiteStore) Append(ctx context.Context, row model.Row) error {
	payload, err := json.Marshal(row.Record)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO survey_rows (id, created_at, payload) VALUES (?, ?, ?)`,
		row.ID, row.CreatedAt.UTC().Format(time.RFC3339Nano), string(payload))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *SQLiteStore) Rows(ctx context.Context) ([]model.Row, error) {
	rs, err := s.db.QueryContext(ctx, `SELECT id, created_at, payload FROM survey_rows ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer rs.Close()

	rows := make([]model.Row, 0)
	for rs.Next() {
		var id, createdAt, payload string
		if err := rs.Scan(&id, &createdAt, &payload); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		row := model.Row{ID: id}
		if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			row.CreatedAt = t
		}
		if err := json.Unmarshal([]byte(payload), &row.Record); err != nil {
			log.Warn().Err(err).Str("id", id).Msg("Skipping undecodable row")
			continue
		}
		rows = append(rows, row)
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return rows, nil
}

// Count agrees with Rows: payloads that do not decode are left out
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	rows, err := s.Rows(ctx)
	if err != nil {
		return 0, err
	}
	return int64(len(rows)), nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
