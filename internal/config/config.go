package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Storage   StorageConfig
	Database  DatabaseConfig
	SQLite    SQLiteConfig `mapstructure:"sqlite"`
	Mongo     MongoConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Auth      AuthConfig
	Object    ObjectStorageConfig `mapstructure:"object_storage"`
	Tracing   TracingConfig       `mapstructure:"tracing"`
	CORS      CORSConfig          `mapstructure:"cors"`
	RateLimit RateLimitConfig     `mapstructure:"rate_limit"`
	Seed      SeedConfig

	// 运行时标志（非配置文件，通过命令行参数设置）
	ConfigFile   string `mapstructure:"-"`
	ForceMigrate bool   `mapstructure:"-"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type LogConfig struct {
	Level string
	File  string
}

// StorageConfig 选择所有仓库使用的持久化后端
type StorageConfig struct {
	Driver string
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
	LogLevel  string `mapstructure:"log_level"`
}

type SQLiteConfig struct {
	Path string
}

type MongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host      string
	Port      int
	Password  string
	DB        int
	KeyPrefix string `mapstructure:"key_prefix"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

// AuthConfig 关闭时所有请求以匿名玩家身份执行
type AuthConfig struct {
	Enabled bool
}

type ObjectStorageConfig struct {
	Type          string `mapstructure:"type"`
	LocalPath     string `mapstructure:"local_path"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
	MinioSecure   bool   `mapstructure:"minio_secure"`
	OSSEndpoint   string `mapstructure:"oss_endpoint"`
	OSSAccessKey  string `mapstructure:"oss_access_key"`
	OSSSecretKey  string `mapstructure:"oss_secret_key"`
	OSSBucket     string `mapstructure:"oss_bucket"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
	ServiceName       string `mapstructure:"service_name"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

type SeedConfig struct {
	Enabled bool
	File    string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.mode", "release")
	v.SetDefault("log.file", "logs/app.log")
	v.SetDefault("storage.driver", "memory")
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.parsetime", true)
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("sqlite.path", "balance_scale.db")
	v.SetDefault("mongo.database", "balance_scale")
	v.SetDefault("mongo.timeout", 10*time.Second)
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.key_prefix", "balance")
	v.SetDefault("object_storage.type", "local")
	v.SetDefault("object_storage.local_path", "exports")
	v.SetDefault("tracing.service_name", "balance-scale-backend")
	v.SetDefault("rate_limit.max_requests", 6000)
	v.SetDefault("rate_limit.window_minutes", 1)
	v.SetDefault("seed.enabled", true)
}

// LoadConfig 从 path 读取 config.yaml，每次调用使用独立的 viper 实例，
// 便于配置热更新时与读取方并发
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("BALANCE_SCALE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// 存储后端
	v.BindEnv("storage.driver", "STORAGE_DRIVER")

	// 数据库配置
	v.BindEnv("database.host", "DATABASE_HOST")
	v.BindEnv("database.port", "DATABASE_PORT")
	v.BindEnv("database.user", "DATABASE_USER")
	v.BindEnv("database.password", "DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "DATABASE_NAME")

	// MongoDB 配置
	v.BindEnv("mongo.uri", "MONGO_URI")

	// Redis 配置
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// JWT 配置
	v.BindEnv("jwt.secret", "JWT_SECRET")

	// 服务器配置
	v.BindEnv("server.mode", "SERVER_MODE")
	v.BindEnv("server.port", "PORT")

	// 对象存储配置
	v.BindEnv("object_storage.type", "OBJECT_STORAGE_TYPE")
	v.BindEnv("object_storage.minio_endpoint", "MINIO_ENDPOINT")
	v.BindEnv("object_storage.minio_access_key", "MINIO_ACCESS_KEY")
	v.BindEnv("object_storage.minio_secret_key", "MINIO_SECRET_KEY")
	v.BindEnv("object_storage.minio_bucket", "MINIO_BUCKET")
	v.BindEnv("object_storage.oss_endpoint", "OSS_ENDPOINT")
	v.BindEnv("object_storage.oss_access_key", "OSS_ACCESS_KEY")
	v.BindEnv("object_storage.oss_secret_key", "OSS_SECRET_KEY")
	v.BindEnv("object_storage.oss_bucket", "OSS_BUCKET")

	// 链路追踪配置
	v.BindEnv("tracing.enabled", "TRACING_ENABLED")
	v.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.ConfigFile = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Object.Type == "local" {
		if _, err := os.Stat(cfg.Object.LocalPath); os.IsNotExist(err) {
			os.MkdirAll(cfg.Object.LocalPath, 0755)
		}
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "memory", "mysql", "sqlite", "mongo", "redis":
	default:
		return fmt.Errorf("unsupported storage driver: %q", c.Storage.Driver)
	}

	// 生产环境校验 JWT Secret 强度
	if c.Auth.Enabled && c.Server.Mode == "release" && len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(c.JWT.Secret))
	}
	if c.Auth.Enabled && c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required when auth is enabled")
	}
	return nil
}

// ShouldMigrate 启动时是否执行数据库迁移
func (c *Config) ShouldMigrate() bool {
	return c.ForceMigrate || c.Server.Mode == "debug"
}

// RateWindow 返回限流窗口时长
func (c *Config) RateWindow() time.Duration {
	if c.RateLimit.WindowMinutes <= 0 {
		return time.Minute
	}
	return time.Duration(c.RateLimit.WindowMinutes) * time.Minute
}
