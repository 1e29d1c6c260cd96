// Package config provides runtime configuration values for the service.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds configuration knobs for the storefront engine and its stores.
type Config struct {
	HTTPAddr          string
	LogMode           string
	MySQLDSN          string
	RedisAddr         string
	RedisPoolSize     int
	CustomIDThreshold int64
	CustomKitTTL      time.Duration
	ShutdownTimeout   time.Duration
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func durenvs(key string, defSec int) time.Duration {
	return time.Duration(atoienv(key, defSec)) * time.Second
}

// Load collects configuration from environment with defaults.
func Load() Config {
	return Config{
		HTTPAddr:          getenv("HTTP_ADDR", ":8080"),
		LogMode:           getenv("LOG_MODE", "dev"),
		MySQLDSN:          getenv("MYSQL_DSN", "root:root@tcp(localhost:3306)/kitstore?parseTime=true"),
		RedisAddr:         getenv("REDIS_ADDR", "localhost:6379"),
		RedisPoolSize:     atoienv("REDIS_POOL_SIZE", 100),
		CustomIDThreshold: int64(atoienv("CUSTOM_ID_THRESHOLD", 1000)),
		CustomKitTTL:      durenvs("CUSTOM_KIT_TTL", 24*3600),
		ShutdownTimeout:   durenvs("SHUTDOWN_TIMEOUT", 5),
	}
}
