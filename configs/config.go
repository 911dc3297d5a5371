package config

import (
	"os"
	"strconv"
	"time"
)

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
}

type RateLimits struct {
	Window    time.Duration
	Facebook  int
	Instagram int
	Tiktok    int
	Twitter   int
}

type Queue struct {
	MaxRetry    int
	BackoffBase time.Duration
	Concurrency int
}

type Config struct {
	FacebookClientID      string
	FacebookClientSecret  string
	InstagramClientID     string
	InstagramClientSecret string
	TiktokClientKey       string
	TiktokClientSecret    string
	TwitterClientID       string
	TwitterClientSecret   string
	PostgresURI           string
	RedisURI              string
	FrontendURL           string
	ShopDomain            string
	R2                    R2
	RateLimits            RateLimits
	Queue                 Queue
	SecretKey             string
	CookieName            string
}

func LoadConfig() *Config {
	return &Config{
		FacebookClientID:      getEnv("FACEBOOK_CLIENT_ID", ""),
		FacebookClientSecret:  getEnv("FACEBOOK_CLIENT_SECRET", ""),
		InstagramClientID:     getEnv("INSTAGRAM_CLIENT_ID", ""),
		InstagramClientSecret: getEnv("INSTAGRAM_CLIENT_SECRET", ""),
		TiktokClientKey:       getEnv("TIKTOK_CLIENT_KEY", ""),
		TiktokClientSecret:    getEnv("TIKTOK_CLIENT_SECRET", ""),
		TwitterClientID:       getEnv("TWITTER_CLIENT_ID", ""),
		TwitterClientSecret:   getEnv("TWITTER_CLIENT_SECRET", ""),
		PostgresURI:           getEnv("POSTGRES_URI", ""),
		RedisURI:              getEnv("REDIS_URI", ""),
		FrontendURL:           getEnv("FRONTEND_URL", "http://localhost:5173"),
		ShopDomain:            getEnv("SHOP_DOMAIN", "shop.example.com"),
		R2: R2{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
		},
		RateLimits: RateLimits{
			Window:    getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
			Facebook:  getEnvInt("RATE_LIMIT_FACEBOOK", 200),
			Instagram: getEnvInt("RATE_LIMIT_INSTAGRAM", 100),
			Tiktok:    getEnvInt("RATE_LIMIT_TIKTOK", 30),
			Twitter:   getEnvInt("RATE_LIMIT_TWITTER", 50),
		},
		Queue: Queue{
			MaxRetry:    getEnvInt("QUEUE_MAX_RETRY", 3),
			BackoffBase: getEnvDuration("QUEUE_BACKOFF_BASE", 2*time.Second),
			Concurrency: getEnvInt("QUEUE_CONCURRENCY", 10),
		},
		SecretKey:  getEnv("SECRET_KEY", ""),
		CookieName: getEnv("COOKIE_NAME", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
