package db

import (
	"testing"
	"testing/fstest"
	"time"
)

func TestLoad(t *testing.T) {
	fsys := fstest.MapFS{
		"001_core.sql":    {Data: []byte("CREATE TABLE organisation (id UUID PRIMARY KEY);")},
		"002_profile.sql": {Data: []byte("CREATE TABLE profile (id UUID PRIMARY KEY);")},
		"010_result.sql":  {Data: []byte("CREATE TABLE result (id UUID PRIMARY KEY);")},
	}

	m, err := NewMigrator(nil, fsys, "")
	if err != nil {
		t.Fatalf("NewMigrator() error: %v", err)
	}
	migrations, err := m.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if len(migrations) != 3 {
		t.Fatalf("expected 3 migrations, got %d", len(migrations))
	}
	wantVersions := []int{1, 2, 10}
	for i, want := range wantVersions {
		if migrations[i].Version != want {
			t.Errorf("migration[%d]: expected version %d, got %d", i, want, migrations[i].Version)
		}
	}
	if migrations[0].Name != "001_core.sql" {
		t.Errorf("expected name 001_core.sql, got %s", migrations[0].Name)
	}
	if migrations[2].SQL != "CREATE TABLE result (id UUID PRIMARY KEY);" {
		t.Errorf("unexpected SQL content: %s", migrations[2].SQL)
	}
}

func TestLoad_SkipsInvalidNames(t *testing.T) {
	fsys := fstest.MapFS{
		"001_valid.sql":      {Data: []byte("SELECT 1;")},
		"readme.sql":         {Data: []byte("-- no version prefix")},
		"notes.txt":          {Data: []byte("not sql")},
		"abc_invalid.sql":    {Data: []byte("-- non-numeric prefix")},
		"002_also_valid.sql": {Data: []byte("SELECT 2;")},
		"sub/003_nested.sql": {Data: []byte("SELECT 3;")},
	}

	m, _ := NewMigrator(nil, fsys, "public")
	migrations, err := m.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(migrations) != 2 {
		t.Fatalf("expected 2 valid migrations, got %d", len(migrations))
	}
}

func TestLoad_DuplicateVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"001_a.sql": {Data: []byte("SELECT 1;")},
		"1_b.sql":   {Data: []byte("SELECT 1;")},
	}

	m, _ := NewMigrator(nil, fsys, "public")
	if _, err := m.Load(); err == nil {
		t.Fatal("expected error for duplicate versions")
	}
}

func TestNewMigrator_RejectsBadSchema(t *testing.T) {
	for _, schema := range []string{"public; DROP TABLE x", "1abc", "tenant-a"} {
		if _, err := NewMigrator(nil, fstest.MapFS{}, schema); err == nil {
			t.Errorf("expected error for schema %q", schema)
		}
	}
	if _, err := NewMigrator(nil, fstest.MapFS{}, "lab_results"); err != nil {
		t.Errorf("unexpected error for valid schema: %v", err)
	}
}

func TestStatusOf(t *testing.T) {
	migrations := []Migration{
		{Version: 1, Name: "001_core.sql"},
		{Version: 2, Name: "002_indexes.sql"},
	}
	at := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)

	statuses := statusOf(migrations, map[int]time.Time{1: at})
	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(statuses))
	}
	if !statuses[0].Applied || statuses[0].AppliedAt == nil || !statuses[0].AppliedAt.Equal(at) {
		t.Errorf("expected first migration applied at %v, got %+v", at, statuses[0])
	}
	if statuses[1].Applied || statuses[1].AppliedAt != nil {
		t.Errorf("expected second migration pending, got %+v", statuses[1])
	}
}
