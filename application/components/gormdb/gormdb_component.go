package gormdb

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/components/logging"
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/consts"
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/core"
)

// GormComponent manages one *gorm.DB per named datasource.
type GormComponent struct {
	*core.BaseComponent
	cfg   *Config
	dbs   map[string]*gorm.DB
	mutex sync.RWMutex
	log   logger.Interface
}

func NewGormComponent(cfg *Config) *GormComponent {
	return &GormComponent{
		BaseComponent: core.NewBaseComponent(consts.COMPONENT_GORM_DB, consts.COMPONENT_LOGGING),
		cfg:           cfg,
		dbs:           make(map[string]*gorm.DB),
		log:           newGormLogger(cfg),
	}
}

func (c *GormComponent) Start(ctx context.Context) error {
	if err := c.BaseComponent.Start(ctx); err != nil {
		return err
	}
	if c.cfg == nil || !c.cfg.Enabled {
		return fmt.Errorf("gorm_db component disabled or nil config")
	}
	if len(c.cfg.DataSources) == 0 {
		return fmt.Errorf("gorm_db no data_sources configured")
	}

	for _, name := range sortedKeys(c.cfg.DataSources) {
		gdb, err := c.open(ctx, name, c.cfg.DataSources[name])
		if err != nil {
			c.closeAll(ctx)
			return err
		}
		c.mutex.Lock()
		c.dbs[name] = gdb
		c.mutex.Unlock()
		logging.Infof(ctx, "[gorm_db] datasource %s (%s) initialized", name, c.cfg.DataSources[name].Driver)
	}
	logging.Infof(ctx, "[gorm_db] started. data sources=%v", c.listNames())
	return nil
}

func (c *GormComponent) open(ctx context.Context, name string, ds *DataSourceConfig) (*gorm.DB, error) {
	dsn, err := buildDSN(ds)
	if err != nil {
		return nil, fmt.Errorf("build dsn for %s failed: %w", name, err)
	}
	dialector, err := openDialector(ds, dsn)
	if err != nil {
		return nil, fmt.Errorf("datasource %s: %w", name, err)
	}
	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger:                                   c.log,
		SkipDefaultTransaction:                   ds.SkipDefaultTransaction,
		PrepareStmt:                              ds.PrepareStmt,
		DisableForeignKeyConstraintWhenMigrating: true,
		NowFunc:                                  func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open gorm db %s failed: %w", name, err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("get underlying sql.DB for %s failed: %w", name, err)
	}
	applyPool(sqlDB, ds)

	if ds.PingOnStart {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := sqlDB.PingContext(pingCtx)
		cancel()
		if err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("ping gorm db %s failed: %w", name, err)
		}
	}

	if ds.MigrateEnabled {
		migStart := time.Now()
		n, err := runMigrations(ctx, sqlDB, ds.MigrateDir)
		if err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("gorm_db datasource %s migrations failed: %w", name, err)
		}
		logging.Infof(ctx, "[gorm_db] datasource %s applied %d migration files from %s dur=%s", name, n, ds.MigrateDir, time.Since(migStart))
	}
	return gdb, nil
}

// applyPool sets pool limits; sqlite is pinned to one connection so an
// in-memory database is shared and writes are serialized.
func applyPool(sqlDB *sql.DB, ds *DataSourceConfig) {
	if ds.Driver == DriverSQLite {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
		return
	}
	if ds.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(ds.MaxOpenConns)
	} else {
		sqlDB.SetMaxOpenConns(50)
	}
	if ds.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(ds.MaxIdleConns)
	} else {
		sqlDB.SetMaxIdleConns(10)
	}
	if ds.ConnMaxLife > 0 {
		sqlDB.SetConnMaxLifetime(ds.ConnMaxLife)
	} else {
		sqlDB.SetConnMaxLifetime(60 * time.Minute)
	}
	if ds.ConnMaxIdle > 0 {
		sqlDB.SetConnMaxIdleTime(ds.ConnMaxIdle)
	}
}

func (c *GormComponent) Stop(ctx context.Context) error {
	defer func() { _ = c.BaseComponent.Stop(ctx) }()
	c.closeAll(ctx)
	return nil
}

func (c *GormComponent) closeAll(ctx context.Context) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	for name, gdb := range c.dbs {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
		delete(c.dbs, name)
		logging.Infof(ctx, "[gorm_db] datasource %s closed", name)
	}
}

func (c *GormComponent) HealthCheck() error {
	if err := c.BaseComponent.HealthCheck(); err != nil {
		return err
	}
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	for name, gdb := range c.dbs {
		sqlDB, err := gdb.DB()
		if err != nil {
			return fmt.Errorf("datasource %s get sql.DB failed: %w", name, err)
		}
		if err := sqlDB.Ping(); err != nil {
			return fmt.Errorf("datasource %s ping failed: %w", name, err)
		}
	}
	return nil
}

func (c *GormComponent) GetDB(name string) (*gorm.DB, error) {
	c.mutex.RLock()
	db, ok := c.dbs[name]
	c.mutex.RUnlock()
	if !ok {
		return nil, fmt.Errorf("gorm_db datasource %s not found", name)
	}
	return db, nil
}

func (c *GormComponent) listNames() []string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return sortedKeys(c.dbs)
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
