// Package config 讀取服務啟動所需的環境變數
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPAddr      string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	JWTSecret     string
	StorageDir    string
	PublicBaseURL string
	FrontendURL   string
	WorkerCount   int
	TokenTTL      time.Duration
	LogLevel      string
	// AuthRate 是每個 IP 每秒可呼叫 /register、/login 的次數
	AuthRate float64
}

func required(key string) (string, error) {
	v := os.Getenv(key)
	if v == "" {
		return "", fmt.Errorf("環境變數 %s 未設定", key)
	}
	return v, nil
}

func withDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func positiveInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("無效的 %s: %q", key, v)
	}
	return n, nil
}

// Load 從環境變數組出 Config，缺少必要值或格式錯誤時回傳錯誤
func Load() (*Config, error) {
	cfg := &Config{
		HTTPAddr:      withDefault("HTTP_ADDR", ":8080"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		StorageDir:    withDefault("STORAGE_DIR", "storage"),
		PublicBaseURL: withDefault("PUBLIC_BASE_URL", "http://localhost:8080/storage"),
		FrontendURL:   withDefault("FRONTEND_URL", "http://localhost:3000"),
		LogLevel:      withDefault("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.DatabaseURL, err = required("DATABASE_URL"); err != nil {
		return nil, err
	}
	if cfg.RedisAddr, err = required("REDIS_ADDR"); err != nil {
		return nil, err
	}
	redisDB, err := required("REDIS_DB")
	if err != nil {
		return nil, err
	}
	if cfg.RedisDB, err = strconv.Atoi(redisDB); err != nil || cfg.RedisDB < 0 {
		return nil, fmt.Errorf("無效的 REDIS_DB: %q", redisDB)
	}
	if cfg.JWTSecret, err = required("JWT_SECRET"); err != nil {
		return nil, err
	}

	if cfg.WorkerCount, err = positiveInt("WORKER_COUNT", 1); err != nil {
		return nil, err
	}
	hours, err := positiveInt("TOKEN_TTL_HOURS", 24)
	if err != nil {
		return nil, err
	}
	cfg.TokenTTL = time.Duration(hours) * time.Hour

	cfg.AuthRate = 5
	if v := os.Getenv("AUTH_RATE_LIMIT"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil || r < 0 {
			return nil, fmt.Errorf("無效的 AUTH_RATE_LIMIT: %q", v)
		}
		cfg.AuthRate = r
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "off":
	default:
		return nil, fmt.Errorf("無效的 LOG_LEVEL: %q", cfg.LogLevel)
	}
	return cfg, nil
}
