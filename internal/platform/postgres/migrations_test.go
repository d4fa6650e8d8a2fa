package postgres

import (
	"strings"
	"testing"
)

func TestCollect_ParsesEmbeddedMigrations(t *testing.T) {
	migs, err := Collect()
	if err != nil {
		t.Fatalf("expected migrations to parse, got error: %v", err)
	}
	if len(migs) == 0 {
		t.Fatal("expected at least one migration")
	}
	if migs[0].Version != 1 {
		t.Fatalf("expected first migration version 1, got %d", migs[0].Version)
	}
}

func TestSQLMigrations_HaveGooseDirectives(t *testing.T) {
	names, err := Files()
	if err != nil {
		t.Fatalf("Files: %v", err)
	}

	for _, name := range names {
		if !strings.HasSuffix(name, ".sql") {
			continue
		}
		b, err := ReadFile(name)
		if err != nil {
			t.Fatalf("ReadFile(%s): %v", name, err)
		}
		s := string(b)
		if !strings.Contains(s, "-- +goose Up") {
			t.Fatalf("%s missing '-- +goose Up'", name)
		}
		if !strings.Contains(s, "-- +goose Down") {
			t.Fatalf("%s missing '-- +goose Down'", name)
		}
	}
}

func TestBooksMigration_EnforcesUniqueISBN(t *testing.T) {
	b, err := ReadFile("00001_create_books.sql")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(b), "CONSTRAINT books_isbn_key UNIQUE (isbn)") {
		t.Fatal("books migration must declare the unique isbn constraint")
	}
}

func TestBooksMigration_ISBNWidthMatchesTitle(t *testing.T) {
	b, err := ReadFile("00001_create_books.sql")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(b), "isbn   VARCHAR(255) NOT NULL") {
		t.Fatal("isbn column must be VARCHAR(255)")
	}
}
