package database

import (
	"context"
	"fmt"

	"balance_scale_backend/internal/config"
	"balance_scale_backend/internal/repository"
	"balance_scale_backend/internal/repository/gormstore"
	"balance_scale_backend/internal/repository/memory"
	"balance_scale_backend/internal/repository/mongostore"
	"balance_scale_backend/internal/repository/redisstore"
	"balance_scale_backend/internal/util"
)

// OpenStore 连接配置的存储后端，migrate 为 true 时先迁移表结构和 mongo 索引
func OpenStore(ctx context.Context, cfg *config.Config, migrate bool) (*repository.Store, error) {
	switch cfg.Storage.Driver {
	case util.DriverMemory:
		return memory.NewStore(), nil
	case util.DriverMySQL, util.DriverSQLite:
		db, err := InitDB(cfg)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		if migrate {
			if err := AutoMigrate(db); err != nil {
				return nil, fmt.Errorf("migrate database: %w", err)
			}
		}
		return gormstore.NewStore(db, cfg.Storage.Driver), nil
	case util.DriverMongo:
		client, err := InitMongo(ctx, &cfg.Mongo)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		if migrate {
			if err := mongostore.EnsureIndexes(ctx, client, cfg.Mongo.Database); err != nil {
				return nil, fmt.Errorf("create mongo indexes: %w", err)
			}
		}
		return mongostore.NewStore(client, cfg.Mongo.Database), nil
	case util.DriverRedis:
		rdb, err := InitRedis(ctx, &cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		return redisstore.NewStore(rdb, cfg.Redis.KeyPrefix), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver: %q", cfg.Storage.Driver)
	}
}
