package appServer

import (
	"database/sql"

	"github.com/ds124wfegd/bgremove/config"
	"github.com/ds124wfegd/bgremove/internal/database"
	"github.com/ds124wfegd/bgremove/internal/database/postgres"
	rediscache "github.com/ds124wfegd/bgremove/internal/database/redis"
	pgconn "github.com/ds124wfegd/bgremove/internal/pkg/postgres"
	redisconn "github.com/ds124wfegd/bgremove/internal/pkg/redis"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// dependencies holds the optional backends. Each one falls back to a no-op
// implementation when disabled or unreachable.
type dependencies struct {
	cache   database.ImageCache
	history database.HistoryRepository

	redisClient *goredis.Client
	db          *sql.DB
}

func openDependencies(cfg *config.Config) *dependencies {
	deps := &dependencies{
		cache:   database.NoopCache{},
		history: database.NoopHistory{},
	}

	if cfg.Redis.Enabled {
		client, err := redisconn.NewRedisClient(&cfg.Redis)
		if err != nil {
			logrus.Warnf("Redis unavailable, status cache disabled: %v", err)
		} else {
			deps.redisClient = client
			deps.cache = rediscache.NewCacheRepository(client, cfg.Redis.CacheTTL)
		}
	}

	if cfg.Database.Enabled {
		db, err := pgconn.NewPostgresDB(cfg)
		if err != nil {
			logrus.Warnf("PostgreSQL unavailable, history disabled: %v", err)
		} else if err := pgconn.RunMigrations(db); err != nil {
			logrus.Warnf("Migrations failed, history disabled: %v", err)
			db.Close()
		} else {
			deps.db = db
			deps.history = postgres.NewHistoryRepository(db)
		}
	}

	return deps
}

func (d *dependencies) Close() {
	if d.redisClient != nil {
		if err := d.redisClient.Close(); err != nil {
			logrus.Errorf("error closing redis: %v", err)
		}
	}
	if d.db != nil {
		if err := d.db.Close(); err != nil {
			logrus.Errorf("error closing database: %v", err)
		}
	}
}
