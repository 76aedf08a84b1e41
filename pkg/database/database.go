package database

import (
	"fmt"
	"strings"

	"balance_scale_backend/internal/config"
	"balance_scale_backend/internal/repository/gormstore"
	"balance_scale_backend/internal/util"
	"balance_scale_backend/pkg/logger"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// InitDB 根据 cfg.Storage.Driver 打开关系型数据库
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Storage.Driver {
	case util.DriverMySQL:
		db := cfg.Database
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=UTC",
			db.User,
			db.Password,
			db.Host,
			db.Port,
			db.DBName,
			db.Charset,
			db.ParseTime,
		)
		dialector = mysql.Open(dsn)
	case util.DriverSQLite:
		dialector = sqlite.Open(cfg.SQLite.Path)
	default:
		return nil, fmt.Errorf("storage driver %q is not relational", cfg.Storage.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormLogLevel(cfg.Database.LogLevel)),
	})
	if err != nil {
		return nil, err
	}

	if cfg.Storage.Driver == util.DriverSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// SQLite 写入串行，单连接避免 SQLITE_BUSY
		sqlDB.SetMaxOpenConns(1)
	}

	logger.Log.Info("Database connection established", zap.String("driver", cfg.Storage.Driver))
	return db, nil
}

// AutoMigrate 创建或更新游戏相关表
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(gormstore.Models()...); err != nil {
		return err
	}
	logger.Log.Info("Database migration completed")
	return nil
}

func gormLogLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
