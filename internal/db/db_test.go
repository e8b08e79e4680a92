package db

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

const failedToInitDB = "Failed to initialize database: %v"

func TestSetLogger(t *testing.T) {
	logger := zerolog.New(os.Stdout).Level(zerolog.InfoLevel)
	SetLogger(logger)

	// This test mainly ensures the function doesn't panic
}

func TestNewSQLite(t *testing.T) {
	db := NewSQLite(":memory:")

	if db == nil {
		t.Fatal("Expected non-nil SQLite instance")
	}
	if db.conn != nil {
		t.Error("Expected connection to be nil initially")
	}
	if err := db.Close(); err != nil {
		t.Errorf("Expected closing an unopened database to succeed, got %v", err)
	}
}

func TestSQLiteBasicOperations(t *testing.T) {
	SetLogger(zerolog.New(os.Stdout).Level(zerolog.ErrorLevel))

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")
	db := NewSQLite(path)
	defer db.Close()

	t.Run("InitDB creates the records table", func(t *testing.T) {
		if err := db.InitDB(); err != nil {
			t.Fatalf(failedToInitDB, err)
		}
		if err := db.Get().Ping(); err != nil {
			t.Errorf("Failed to ping database: %v", err)
		}

		var name string
		err := db.QueryRow(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name=?", "records").Scan(&name)
		if err != nil {
			t.Fatalf("Expected records table to exist: %v", err)
		}
	})

	t.Run("InitDB is idempotent", func(t *testing.T) {
		again := NewSQLite(path)
		defer again.Close()
		if err := again.InitDB(); err != nil {
			t.Fatalf(failedToInitDB, err)
		}
	})

	t.Run("Exec and Query round trip", func(t *testing.T) {
		res, err := db.Exec(ctx, "INSERT INTO records (key, value) VALUES (?, ?)", "k", []byte("v"))
		if err != nil {
			t.Fatalf("Failed to insert record: %v", err)
		}
		if n, _ := res.RowsAffected(); n != 1 {
			t.Errorf("Expected 1 row affected, got %d", n)
		}

		rows, err := db.Query(ctx, "SELECT key, value FROM records")
		if err != nil {
			t.Fatalf("Failed to query records: %v", err)
		}
		defer rows.Close()

		count := 0
		for rows.Next() {
			var key string
			var value []byte
			if err := rows.Scan(&key, &value); err != nil {
				t.Fatalf("Failed to scan record: %v", err)
			}
			if key != "k" || string(value) != "v" {
				t.Errorf("Expected k=v, got %s=%s", key, value)
			}
			count++
		}
		if count != 1 {
			t.Errorf("Expected 1 record, got %d", count)
		}
	})

	t.Run("Missing row reports ErrNoRows", func(t *testing.T) {
		var value []byte
		err := db.QueryRow(ctx, "SELECT value FROM records WHERE key = ?", "missing").Scan(&value)
		if err != sql.ErrNoRows {
			t.Errorf("Expected sql.ErrNoRows, got %v", err)
		}
	})
}
