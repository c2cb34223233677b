package migrate

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/pressly/goose/v3"
)

func TestFilesAreEmbeddedInOrder(t *testing.T) {
	names, err := Files()
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("expected 2 migrations, got %v", names)
	}
	if !strings.Contains(names[0], "users") || !strings.Contains(names[1], "gadgets") {
		t.Fatalf("unexpected order: %v", names)
	}
	for _, n := range names {
		data, err := migrations.ReadFile(migrationsDir + "/" + n)
		if err != nil {
			t.Fatalf("read %s: %v", n, err)
		}
		if !strings.Contains(string(data), "-- +goose Up") || !strings.Contains(string(data), "-- +goose Down") {
			t.Fatalf("%s lacks goose annotations", n)
		}
	}
}

func TestUpDelegatesToGoose(t *testing.T) {
	orig := gooseUp
	t.Cleanup(func() { gooseUp = orig })

	var gotDir string
	gooseUp = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		gotDir = dir
		return nil
	}
	if err := NewManager(nil).Up(context.Background()); err != nil {
		t.Fatalf("Up: %v", err)
	}
	if gotDir != migrationsDir {
		t.Fatalf("unexpected dir %q", gotDir)
	}
}

func TestUpWrapsGooseError(t *testing.T) {
	orig := gooseUp
	t.Cleanup(func() { gooseUp = orig })

	boom := errors.New("boom")
	gooseUp = func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error { return boom }
	if err := NewManager(nil).Up(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped boom, got %v", err)
	}
}
