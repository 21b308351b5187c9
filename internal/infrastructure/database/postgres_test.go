package database

import (
	"io/fs"
	"testing"

	"github.com/asakaida/groupperm/internal/infrastructure/config"
	"github.com/asakaida/groupperm/internal/infrastructure/database/migrations"
)

func TestPostgres_Close(t *testing.T) {
	tests := []struct {
		name    string
		pg      *Postgres
		wantErr bool
	}{
		{
			name:    "nil DB",
			pg:      &Postgres{DB: nil},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.pg.Close()
			if (err != nil) != tt.wantErr {
				t.Errorf("Postgres.Close() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewPostgres_InvalidConfig(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping connection attempt in short mode")
	}

	cfg := &config.DatabaseConfig{
		Host:     "invalid-host-that-does-not-exist",
		Port:     99999,
		User:     "invalid",
		Password: "invalid",
		Database: "invalid",
		SSLMode:  "disable",
	}

	pg, err := NewPostgres(cfg)
	if err == nil {
		if pg != nil && pg.DB != nil {
			pg.Close()
		}
		t.Error("NewPostgres() with invalid config should return error")
	}
}

func TestOpen_DoesNotConnect(t *testing.T) {
	db, err := Open("host=invalid-host-that-does-not-exist port=5432 sslmode=disable")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	if got := db.Stats().MaxOpenConnections; got != 25 {
		t.Errorf("MaxOpenConnections = %d, want 25", got)
	}
}

func TestMigrations_Embedded(t *testing.T) {
	files, err := fs.Glob(migrations.FS, migrations.Dir+"/*.sql")
	if err != nil {
		t.Fatalf("fs.Glob() error = %v", err)
	}

	want := map[string]bool{
		"postgres/000001_create_group_table.up.sql":    true,
		"postgres/000001_create_group_table.down.sql":  true,
		"postgres/000002_seed_default_groups.up.sql":   true,
		"postgres/000002_seed_default_groups.down.sql": true,
	}
	if len(files) != len(want) {
		t.Fatalf("expected %d migration files, got %v", len(want), files)
	}
	for _, f := range files {
		if !want[f] {
			t.Errorf("unexpected migration file %s", f)
		}
	}
}
