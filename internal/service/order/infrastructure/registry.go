package infrastructure

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"bazaar/internal/pkg/logger"
	"bazaar/internal/pkg/metrics"
	"bazaar/internal/service/order/domain"
	"bazaar/internal/service/order/domain/apperr"
)

// OpenFunc opens a storage connection for one DSN. Injectable for tests.
type OpenFunc func(dsn string) (*gorm.DB, error)

// Registry lazily creates and caches one storage connection per tenant.
// The tenant name is the database name in the DSN template, so every tenant
// gets its own schema and no query can cross tenants.
//
// Connections live for the process lifetime; Close tears them all down.
// Failed dials are not cached, so a later request may retry.
type Registry struct {
	dsnTemplate string
	open        OpenFunc
	redis       *redis.Client

	mu    sync.RWMutex
	conns map[string]*gorm.DB
	group singleflight.Group
}

// NewRegistry creates a registry over the given DSN template (one %s,
// replaced by the tenant name). rdb is optional; when present, resolved
// repositories are wrapped with a read-through cache.
func NewRegistry(dsnTemplate string, rdb *redis.Client) *Registry {
	return &Registry{
		dsnTemplate: dsnTemplate,
		open:        defaultOpen,
		redis:       rdb,
		conns:       make(map[string]*gorm.DB),
	}
}

// NewRegistryWithOpen is NewRegistry with a custom open function.
func NewRegistryWithOpen(dsnTemplate string, rdb *redis.Client, open OpenFunc) *Registry {
	r := NewRegistry(dsnTemplate, rdb)
	r.open = open
	return r
}

func defaultOpen(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	// Tenants are provisioned implicitly on first reference; migrating here
	// keeps that behavior while the schema stays explicit.
	if err := db.AutoMigrate(&domain.Order{}); err != nil {
		return nil, err
	}
	return db, nil
}

// Get returns the tenant's connection, dialing it on first use. Concurrent
// first-time callers for the same tenant are collapsed into a single dial;
// the losers receive the winner's connection.
func (r *Registry) Get(ctx context.Context, tenant string) (*gorm.DB, error) {
	r.mu.RLock()
	db, ok := r.conns[tenant]
	r.mu.RUnlock()
	if ok {
		return db, nil
	}

	v, err, _ := r.group.Do(tenant, func() (any, error) {
		r.mu.RLock()
		db, ok := r.conns[tenant]
		r.mu.RUnlock()
		if ok {
			return db, nil
		}

		db, err := r.open(fmt.Sprintf(r.dsnTemplate, tenant))
		if err != nil {
			return nil, apperr.Connection(tenant, err)
		}
		metrics.TenantConnectionsOpened.Inc()
		logger.Ctx(ctx).Info().Str("tenant", tenant).Msg("tenant storage connection opened")

		r.mu.Lock()
		r.conns[tenant] = db
		r.mu.Unlock()
		return db, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*gorm.DB), nil
}

// Resolve returns the tenant's order repository, wrapped with the redis
// read cache when one is configured.
func (r *Registry) Resolve(ctx context.Context, tenant string) (domain.OrderRepository, error) {
	db, err := r.Get(ctx, tenant)
	if err != nil {
		return nil, err
	}
	repo := domain.OrderRepository(NewGormOrderRepository(db))
	if r.redis != nil {
		repo = NewCachedOrderRepository(repo, r.redis, tenant)
	}
	return repo, nil
}

// Ping verifies the tenant's storage is reachable, dialing it if needed.
func (r *Registry) Ping(ctx context.Context, tenant string) error {
	db, err := r.Get(ctx, tenant)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return apperr.Connection(tenant, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return apperr.Connection(tenant, err)
	}
	return nil
}

// Close closes every cached connection. Called once at shutdown.
func (r *Registry) Close(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for tenant, db := range r.conns {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.Close()
		}
		if err != nil {
			logger.Ctx(ctx).Error().Err(err).Str("tenant", tenant).Msg("error closing tenant storage connection")
			continue
		}
		logger.Ctx(ctx).Info().Str("tenant", tenant).Msg("tenant storage connection closed")
	}
	r.conns = make(map[string]*gorm.DB)
}
