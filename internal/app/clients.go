package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/courseware-backend/internal/data/db"
	"github.com/yungbote/courseware-backend/internal/platform/logger"
	"github.com/yungbote/courseware-backend/internal/realtime/bus"
)

type Clients struct {
	Database *db.Service
	Redis    goredis.UniversalClient
	Bus      bus.Bus
}

// redisPinger lets the health check treat redis like the database.
type redisPinger struct {
	rdb goredis.UniversalClient
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.rdb.Ping(ctx).Err()
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	database, err := db.NewService(log, cfg.DB())
	if err != nil {
		return Clients{}, fmt.Errorf("init database: %w", err)
	}
	if err := database.AutoMigrateAll(); err != nil {
		_ = database.Close()
		return Clients{}, fmt.Errorf("database automigrate: %w", err)
	}

	// Redis is optional; without it realtime events stay inside this process.
	if strings.TrimSpace(cfg.Redis.Addr) == "" {
		log.Info("REDIS_ADDR not set; using in-process realtime bus")
		return Clients{Database: database, Bus: bus.NewMemoryBus()}, nil
	}

	rdb := goredis.NewUniversalClient(&goredis.UniversalOptions{
		Addrs:    []string{strings.TrimSpace(cfg.Redis.Addr)},
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		_ = database.Close()
		return Clients{}, fmt.Errorf("redis ping: %w", err)
	}
	b, err := bus.NewRedisBus(log, rdb, cfg.Redis.Channel)
	if err != nil {
		_ = rdb.Close()
		_ = database.Close()
		return Clients{}, fmt.Errorf("init redis bus: %w", err)
	}
	return Clients{Database: database, Redis: rdb, Bus: b}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Bus != nil {
		_ = c.Bus.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.Database != nil {
		_ = c.Database.Close()
	}
}
