package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/waffle-wala/services"
	"github.com/yeremiapane/waffle-wala/storage"
	"github.com/yeremiapane/waffle-wala/utils"
)

const defaultAdminKey = "cravecoboss"

type Config struct {
	Port          string
	GinMode       string
	LogLevel      string
	DBDriver      string
	DBDSN         string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
	AdminKey      string
	JWTSecret     string
	UPIID         string
	AllowedOrigin string

	PaymentHoldTimeout time.Duration
	MonitorInterval    time.Duration
}

// Load reads .env when present and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		utils.InfoLogger.Println("Warning: .env file not found, using environment")
	}

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		GinMode:            getEnv("GIN_MODE", "debug"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		DBDriver:           getEnv("DB_DRIVER", "sqlite"),
		DBDSN:              getEnv("DB_DSN", "waffle.db"),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:            getEnvInt("REDIS_DB", 0),
		RedisPrefix:        getEnv("REDIS_PREFIX", storage.DefaultRedisPrefix),
		AdminKey:           getEnv("ADMIN_KEY", defaultAdminKey),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		UPIID:              getEnv("UPI_ID", "wafflewala@upi"),
		AllowedOrigin:      os.Getenv("ALLOWED_ORIGIN"),
		PaymentHoldTimeout: getEnvDuration("PAYMENT_HOLD_TIMEOUT", services.DefaultHoldTimeout),
		MonitorInterval:    getEnvDuration("MONITOR_INTERVAL", 500*time.Millisecond),
	}

	if cfg.AdminKey == defaultAdminKey {
		utils.InfoLogger.Warn("ADMIN_KEY not set, using the default key")
	}
	return cfg
}

// InitDB opens the document database with the configured driver.
func InitDB(cfg *Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "mysql":
		dialector = mysql.Open(cfg.DBDSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DBDSN)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	gormLogger := logger.Default.LogMode(logger.Warn)
	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, err
	}

	if cfg.DBDriver == "sqlite" {
		// sqlite allows one writer
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	utils.InfoLogger.Printf("Connected to %s database", cfg.DBDriver)
	return db, nil
}

// InitStorage returns Redis-backed session storage when REDIS_ADDR is set,
// in-memory storage otherwise.
func InitStorage(ctx context.Context, cfg *Config) (storage.Storage, error) {
	if cfg.RedisAddr == "" {
		utils.InfoLogger.Println("REDIS_ADDR not set, session storage kept in memory")
		return storage.NewMemoryStorage(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect redis %s: %w", cfg.RedisAddr, err)
	}
	utils.InfoLogger.Printf("Session storage on redis %s", cfg.RedisAddr)
	var opts []storage.RedisOption
	if cfg.RedisPrefix != "" {
		opts = append(opts, storage.WithPrefix(cfg.RedisPrefix))
	}
	return storage.NewRedisStorage(client, opts...), nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		utils.ErrorLogger.Printf("Invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		utils.ErrorLogger.Printf("Invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}
