package gormdb

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	mysqlDriver "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// openDialector picks the gorm dialector for a datasource. Postgres pools go
// through pgx's database/sql adapter so the parsed config is validated early.
func openDialector(ds *DataSourceConfig, dsn string) (gorm.Dialector, error) {
	switch ds.Driver {
	case DriverMySQL:
		return mysqlDriver.New(mysqlDriver.Config{DSN: dsn}), nil
	case DriverPostgres:
		connCfg, err := pgx.ParseConfig(dsn)
		if err != nil {
			return nil, fmt.Errorf("parse postgres dsn: %w", err)
		}
		return postgres.New(postgres.Config{Conn: stdlib.OpenDB(*connCfg)}), nil
	case DriverSQLite:
		if err := ensureSQLiteDir(ds); err != nil {
			return nil, err
		}
		return sqlite.Open(dsn), nil
	}
	return nil, fmt.Errorf("unsupported driver %q", ds.Driver)
}

// ensureSQLiteDir creates the parent directory of a file-backed database.
func ensureSQLiteDir(ds *DataSourceConfig) error {
	if ds.DSN != "" || ds.Database == "" || strings.HasPrefix(ds.Database, ":memory:") {
		return nil
	}
	dir := filepath.Dir(ds.Database)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create sqlite dir %s: %w", dir, err)
	}
	return nil
}
