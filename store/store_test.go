package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"go-away-stress/config"
	"go-away-stress/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	s, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
	})

	return client, s
}

func setupTestSQLite(t *testing.T) *SQLiteStore {
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "rows.db"))
	if err != nil {
		t.Fatalf("Failed to open sqlite: %v", err)
	}
	st, err := NewSQLiteStore(db)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	return st
}

func testRow(id string, situation ...string) model.Row {
	return model.Row{
		ID:        id,
		CreatedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		Record: model.Record{
			StressSituation: situation,
			StressAction:    []string{},
			ContentService:  []string{},
			BestTime:        "evening",
		},
	}
}

// exerciseStore runs the behaviour every RowStore must share
func exerciseStore(t *testing.T, st RowStore) {
	ctx := context.Background()

	if err := st.Ping(ctx); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}

	n, err := st.Count(ctx)
	if err != nil || n != 0 {
		t.Fatalf("Count() on empty store = %d, %v", n, err)
	}
	rows, err := st.Rows(ctx)
	if err != nil {
		t.Fatalf("Rows() on empty store error = %v", err)
	}
	if rows == nil || len(rows) != 0 {
		t.Fatalf("Rows() on empty store = %v, want empty non-nil", rows)
	}

	// Duplicates are stored as separate rows
	for _, row := range []model.Row{testRow("r1", "A", "B"), testRow("r2", "A"), testRow("r2", "A")} {
		if err := st.Append(ctx, row); err != nil {
			t.Fatalf("Append(%s) error = %v", row.ID, err)
		}
	}

	n, err = st.Count(ctx)
	if err != nil || n != 3 {
		t.Errorf("Count() = %d, %v, want 3", n, err)
	}

	rows, err = st.Rows(ctx)
	if err != nil {
		t.Fatalf("Rows() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Rows() returned %d rows, want 3", len(rows))
	}
	if rows[0].ID != "r1" || rows[1].ID != "r2" {
		t.Errorf("Rows() order = %s, %s", rows[0].ID, rows[1].ID)
	}
	if got := rows[0].Record.StressSituation; len(got) != 2 || got[0] != "A" || got[1] != "B" {
		t.Errorf("Rows()[0].StressSituation = %q", got)
	}
	if !rows[0].CreatedAt.Equal(testRow("r1").CreatedAt) {
		t.Errorf("Rows()[0].CreatedAt = %v", rows[0].CreatedAt)
	}
}

func TestRedisStore(t *testing.T) {
	client, s := setupTestRedis(t)
	defer s.Close()

	st := NewRedisStore(client, "")
	defer st.Close()

	if st.Name() != "redis" {
		t.Errorf("Name() = %q", st.Name())
	}
	exerciseStore(t, st)

	if s.Exists(defaultRowsKey) == false {
		t.Errorf("expected rows under %q", defaultRowsKey)
	}
}

func TestRedisStore_SkipsCorruptEntries(t *testing.T) {
	client, s := setupTestRedis(t)
	defer s.Close()
	defer client.Close()

	st := NewRedisStore(client, "rows")
	ctx := context.Background()

	if err := st.Append(ctx, testRow("ok", "A")); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	s.RPush("rows", "{not json")

	rows, err := st.Rows(ctx)
	if err != nil {
		t.Fatalf("Rows() error = %v", err)
	}
	if len(rows) != 1 || rows[0].ID != "ok" {
		t.Errorf("Rows() = %+v, want only the valid row", rows)
	}
	if n, err := st.Count(ctx); err != nil || n != 1 {
		t.Errorf("Count() = %d, %v, want 1 to match Rows()", n, err)
	}
}

func TestSQLiteStore_SkipsCorruptEntries(t *testing.T) {
	st := setupTestSQLite(t)
	defer st.Close()
	ctx := context.Background()

	if err := st.Append(ctx, testRow("ok", "A")); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if _, err := st.db.ExecContext(ctx,
		`INSERT INTO survey_rows (id, created_at, payload) VALUES ('bad', '', '{not json')`); err != nil {
		t.Fatalf("insert corrupt row: %v", err)
	}

	rows, err := st.Rows(ctx)
	if err != nil {
		t.Fatalf("Rows() error = %v", err)
	}
	if len(rows) != 1 || rows[0].ID != "ok" {
		t.Errorf("Rows() = %+v, want only the valid row", rows)
	}
	if n, err := st.Count(ctx); err != nil || n != 1 {
		t.Errorf("Count() = %d, %v, want 1 to match Rows()", n, err)
	}
}

func TestRedisStore_Unavailable(t *testing.T) {
	client, s := setupTestRedis(t)
	defer client.Close()
	s.Close()

	st := NewRedisStore(client, "")
	err := st.Append(context.Background(), testRow("r1", "A"))
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Append() error = %v, want ErrUnavailable", err)
	}
	if _, err := st.Rows(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Rows() error = %v, want ErrUnavailable", err)
	}
}

func TestSQLiteStore(t *testing.T) {
	st := setupTestSQLite(t)
	defer st.Close()

	if st.Name() != "sqlite" {
		t.Errorf("Name() = %q", st.Name())
	}
	exerciseStore(t, st)
}

func TestOpen(t *testing.T) {
	s, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	defer s.Close()

	cfg := config.Defaults()
	cfg.Redis.Address = s.Addr()

	st, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open(redis) error = %v", err)
	}
	st.Close()

	cfg.Storage.Driver = "sqlite"
	cfg.Storage.SQLitePath = filepath.Join(t.TempDir(), "survey.db")
	st, err = Open(cfg)
	if err != nil {
		t.Fatalf("Open(sqlite) error = %v", err)
	}
	if st.Name() != "sqlite" {
		t.Errorf("Open(sqlite).Name() = %q", st.Name())
	}
	st.Close()

	cfg.Storage.Driver = "spreadsheet"
	if _, err := Open(cfg); err == nil {
		t.Error("Open() should reject unknown drivers")
	}
}
