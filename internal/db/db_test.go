package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := Open(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestGetMissingKey(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Get(context.Background(), "boardState")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPutOverwritesWholeValue(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if err := db.Put(ctx, "boardState", []byte(`{"tasks":[]}`)); err != nil {
		t.Fatalf("first put failed: %v", err)
	}
	if err := db.Put(ctx, "boardState", []byte(`{"tasks":[{"id":"t1"}]}`)); err != nil {
		t.Fatalf("second put failed: %v", err)
	}

	got, err := db.Get(ctx, "boardState")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(got) != `{"tasks":[{"id":"t1"}]}` {
		t.Fatalf("unexpected value %q", got)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM board_state`).Scan(&count); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one row, got %d", count)
	}
}

// TestReopenKeepsData checks that migrations are idempotent and the record
// survives closing the database.
func TestReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "test.db")
	ctx := context.Background()

	db, err := Open(ctx, dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	if err := db.Put(ctx, "boardState", []byte("persisted")); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	db.Close()

	db, err = Open(ctx, dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen database: %v", err)
	}
	defer db.Close()

	got, err := db.Get(ctx, "boardState")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(got) != "persisted" {
		t.Fatalf("unexpected value %q", got)
	}
}

func TestMigrationsApplied(t *testing.T) {
	db := openTestDB(t)

	var version int64
	err := db.QueryRow(`SELECT MAX(version_id) FROM goose_db_version`).Scan(&version)
	if err != nil {
		t.Fatalf("reading goose version failed: %v", err)
	}
	if version != 1 {
		t.Fatalf("expected schema version 1, got %d", version)
	}
}

// TestSequentialAccessNoDeadlock guards the single-connection pool: every
// Get and Put must release the connection before the next call, otherwise
// SetMaxOpenConns(1) makes the second call hang.
func TestSequentialAccessNoDeadlock(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		for i := 0; i < 50; i++ {
			if err := db.Put(ctx, "boardState", []byte("x")); err != nil {
				done <- err
				return
			}
			if _, err := db.Get(ctx, "boardState"); err != nil {
				done <- err
				return
			}
		}
		done <- nil
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("access failed: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Test timed out - possible deadlock detected")
	}
}
