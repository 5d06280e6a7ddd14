package gormdb

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuildMySQLDSN(t *testing.T) {
	dsn, err := buildDSN(&DataSourceConfig{Driver: DriverMySQL, Host: "db", User: "app", Password: "p@ss", Database: "tasks",
		Params: map[string]string{"timeout": "5s"}})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	for _, want := range []string{"app:p@ss@tcp(db:3306)/tasks?", "parseTime=true", "charset=utf8mb4", "timeout=5s"} {
		if !strings.Contains(dsn, want) {
			t.Fatalf("dsn %q missing %q", dsn, want)
		}
	}
	if _, err := buildDSN(&DataSourceConfig{Driver: DriverMySQL, Host: "db"}); err == nil {
		t.Fatalf("expected missing fields error")
	}
}

func TestBuildPostgresDSN(t *testing.T) {
	dsn, err := buildDSN(&DataSourceConfig{Driver: DriverPostgres, Host: "pg", User: "app", Password: "it's", Database: "tasks",
		Params: map[string]string{"sslmode": "disable", "application_name": "taskmanager"}})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := `host=pg port=5432 user=app password='it\'s' dbname=tasks application_name=taskmanager sslmode=disable`
	if dsn != want {
		t.Fatalf("dsn\n got %s\nwant %s", dsn, want)
	}
}

func TestExplicitDSNWins(t *testing.T) {
	dsn, _ := buildDSN(&DataSourceConfig{Driver: DriverSQLite, DSN: "file:x.db", Database: "ignored.db"})
	if dsn != "file:x.db" {
		t.Fatalf("explicit dsn not used: %s", dsn)
	}
}

func TestFactoryValidatesDriver(t *testing.T) {
	_, err := NewFactory().Create(&Config{Enabled: true, DataSources: map[string]*DataSourceConfig{"x": {Driver: "oracle"}}})
	if err == nil || !strings.Contains(err.Error(), "unsupported driver") {
		t.Fatalf("expected driver error, got %v", err)
	}
	cfg := &Config{Enabled: true, DataSources: map[string]*DataSourceConfig{"x": {Driver: "SQLite", MigrateEnabled: true}}}
	if _, err := NewFactory().Create(cfg); err != nil {
		t.Fatalf("create: %v", err)
	}
	if ds := cfg.DataSources["x"]; ds.Driver != DriverSQLite || ds.MigrateDir != filepath.Join("migrations", "sqlite") {
		t.Fatalf("normalization failed: %+v", ds)
	}
}

func TestStartSQLiteRunsMigrations(t *testing.T) {
	dir := t.TempDir()
	migDir := filepath.Join(dir, "migrations")
	if err := os.MkdirAll(migDir, 0o755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		"0001_init.sql": "CREATE TABLE IF NOT EXISTS notes (id INTEGER PRIMARY KEY AUTOINCREMENT, body TEXT NOT NULL);",
		"0002_seed.sql": "INSERT INTO notes (body) VALUES ('a'); INSERT INTO notes (body) VALUES ('b');",
		"README.md":     "ignored",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(migDir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	comp, err := NewFactory().Create(&Config{Enabled: true, LogLevel: "silent", DataSources: map[string]*DataSourceConfig{
		"tasks": {Driver: DriverSQLite, Database: filepath.Join(dir, "t.db"), PingOnStart: true, MigrateEnabled: true, MigrateDir: migDir},
	}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	gc := comp.(*GormComponent)
	ctx := context.Background()
	if err := gc.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer gc.Stop(ctx)

	db, err := gc.GetDB("tasks")
	if err != nil {
		t.Fatalf("get db: %v", err)
	}
	var n int64
	if err := db.Table("notes").Count(&n).Error; err != nil || n != 2 {
		t.Fatalf("count=%d err=%v, want 2", n, err)
	}
	if err := gc.HealthCheck(); err != nil {
		t.Fatalf("health: %v", err)
	}
	if _, err := gc.GetDB("missing"); err == nil {
		t.Fatalf("expected unknown datasource error")
	}
}
