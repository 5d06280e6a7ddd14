package gormdb

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// buildDSN builds a driver specific DSN from datasource pieces if DSN not provided.
func buildDSN(ds *DataSourceConfig) (string, error) {
	if strings.TrimSpace(ds.DSN) != "" {
		return ds.DSN, nil
	}
	switch ds.Driver {
	case DriverMySQL:
		return buildMySQLDSN(ds)
	case DriverPostgres:
		return buildPostgresDSN(ds)
	case DriverSQLite:
		return buildSQLiteDSN(ds)
	}
	return "", fmt.Errorf("unsupported driver %q", ds.Driver)
}

func buildMySQLDSN(ds *DataSourceConfig) (string, error) {
	if ds.Host == "" || ds.User == "" || ds.Database == "" {
		return "", errors.New("host, user, database required when dsn not provided")
	}
	port := ds.Port
	if port == 0 {
		port = 3306
	}
	mc := mysql.NewConfig()
	mc.User = ds.User
	mc.Passwd = ds.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(ds.Host, strconv.Itoa(port))
	mc.DBName = ds.Database
	mc.ParseTime = true
	mc.Loc = time.UTC
	mc.Params = map[string]string{"charset": "utf8mb4"}
	for k, v := range ds.Params {
		mc.Params[k] = v
	}
	return mc.FormatDSN(), nil
}

// buildPostgresDSN produces a keyword/value DSN; params are sorted for stable output.
func buildPostgresDSN(ds *DataSourceConfig) (string, error) {
	if ds.Host == "" || ds.User == "" || ds.Database == "" {
		return "", errors.New("host, user, database required when dsn not provided")
	}
	port := ds.Port
	if port == 0 {
		port = 5432
	}
	parts := []string{
		"host=" + quotePG(ds.Host),
		"port=" + strconv.Itoa(port),
		"user=" + quotePG(ds.User),
		"password=" + quotePG(ds.Password),
		"dbname=" + quotePG(ds.Database),
	}
	keys := make([]string, 0, len(ds.Params))
	for k := range ds.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, k+"="+quotePG(ds.Params[k]))
	}
	return strings.Join(parts, " "), nil
}

func quotePG(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

func buildSQLiteDSN(ds *DataSourceConfig) (string, error) {
	if ds.Database == "" {
		return "", errors.New("database (file path or :memory:) required when dsn not provided")
	}
	q := url.Values{}
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "foreign_keys(1)")
	keys := make([]string, 0, len(ds.Params))
	for k := range ds.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		q.Add(k, ds.Params[k])
	}
	return "file:" + ds.Database + "?" + q.Encode(), nil
}
