package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMigrationFilePattern(t *testing.T) {
	tests := []struct {
		filename string
		version  string
		name     string
	}{
		{"0001_init_tables.sql", "0001", "init_tables"},
		{"0012_add_plan_table.sql", "0012", "add_plan_table"},
		{"001_short_version.sql", "", ""},
		{"0001_missing_ext", "", ""},
		{"0001.sql", "", ""},
		{"notes.txt", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			matches := migrationFilePattern.FindStringSubmatch(tt.filename)
			if tt.version == "" {
				if matches != nil {
					t.Fatalf("expected %q not to match, got %v", tt.filename, matches)
				}
				return
			}
			if matches == nil {
				t.Fatalf("expected %q to match", tt.filename)
			}
			if matches[1] != tt.version || matches[2] != tt.name {
				t.Errorf("got version %q name %q, want %q %q", matches[1], matches[2], tt.version, tt.name)
			}
		})
	}
}

func TestLoadMigrationsSortsAndSubstitutes(t *testing.T) {
	dir := t.TempDir()
	write := func(name, sql string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(sql), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("0002_second.sql", "SELECT 2")
	write("0001_first.sql", "CREATE TABLE `{{PROJECT_ID}}.{{DATASET_ID}}.t` (id STRING)")
	write("README.md", "not a migration")

	migrations, err := loadMigrations(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(migrations) != 2 {
		t.Fatalf("expected 2 migrations, got %d", len(migrations))
	}
	if migrations[0].version != 1 || migrations[1].version != 2 {
		t.Errorf("migrations out of order: %d then %d", migrations[0].version, migrations[1].version)
	}
	if migrations[0].checksum == migrations[1].checksum {
		t.Error("distinct files should have distinct checksums")
	}
}
