package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	DatabaseURL  string
	AllowOrigins []string

	LogstashTCPAddr string

	SessionTTL string
	ResetTTL   string

	AuthProviderURL       string
	AuthProviderAPIKey    string
	AuthProviderJWTSecret string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MinIOEndpoint   string
	MinIOAccessKey  string
	MinIOSecretKey  string
	MinIOUseSSL     bool
	MinIOBucketLogo string
	MinIOPublicURL  string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	ResetBaseURL string

	LogoMaxBytes     int64
	LogoMaxDimension int

	LoginRateLimit int
	ResetRateLimit int
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	logoMax := int64(2 * 1024 * 1024)
	if v, err := strconv.ParseInt(getenv("LOGO_MAX_BYTES", "2097152"), 10, 64); err == nil && v > 0 {
		logoMax = v
	}

	return Config{
		Port:         getenv("PORT", "8080"),
		DatabaseURL:  must("DATABASE_URL"),
		AllowOrigins: splitAndTrim(getenv("ALLOW_ORIGINS", "*")),

		LogstashTCPAddr: getenv("LOGSTASH_TCP_ADDR", ""),

		SessionTTL: getenv("SESSION_TTL", "24h"),
		ResetTTL:   getenv("PASSWORD_RESET_TTL", "1h"),

		AuthProviderURL:       must("AUTH_PROVIDER_URL"),
		AuthProviderAPIKey:    getenv("AUTH_PROVIDER_API_KEY", ""),
		AuthProviderJWTSecret: getenv("AUTH_PROVIDER_JWT_SECRET", ""),

		RedisAddr:     getenv("REDIS_ADDR", ""),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       intEnv("REDIS_DB", 0),

		MinIOEndpoint:   must("MINIO_ENDPOINT"),
		MinIOAccessKey:  must("MINIO_ACCESS_KEY"),
		MinIOSecretKey:  must("MINIO_SECRET_KEY"),
		MinIOUseSSL:     getenv("MINIO_USE_SSL", "false") == "true",
		MinIOBucketLogo: getenv("MINIO_BUCKET_LOGOS", "client-logos"),
		MinIOPublicURL:  getenv("MINIO_PUBLIC_URL", ""),

		SMTPHost:     getenv("SMTP_HOST", ""),
		SMTPPort:     getenv("SMTP_PORT", ""),
		SMTPUsername: getenv("SMTP_USERNAME", ""),
		SMTPPassword: getenv("SMTP_PASSWORD", ""),
		SMTPFrom:     getenv("SMTP_FROM", ""),
		ResetBaseURL: getenv("RESET_BASE_URL", ""),

		LogoMaxBytes:     logoMax,
		LogoMaxDimension: intEnv("LOGO_MAX_DIMENSION", 512),

		LoginRateLimit: intEnv("LOGIN_RATE_LIMIT", 10),
		ResetRateLimit: intEnv("RESET_RATE_LIMIT", 5),
	}
}

func splitAndTrim(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func intEnv(k string, d int) int {
	if v, err := strconv.Atoi(getenv(k, strconv.Itoa(d))); err == nil {
		return v
	}
	return d
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("missing env: " + k)
	}
	return v
}
