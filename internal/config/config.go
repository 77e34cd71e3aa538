package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	HTTPAddr string

	MySQLDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AccessSecret  string
	RefreshSecret string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	KafkaBrokers []string
	KafkaTopic   string

	S3Region   string
	S3Bucket   string
	S3Endpoint string

	N8NBaseURL       string
	N8NWebhookPath   string
	N8NSigningSecret string
}

func Load() Config {
	return Config{
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),

		MySQLDSN: getEnv("MYSQL_DSN", "user:password@tcp(127.0.0.1:3306)/neighborhood?charset=utf8mb4&parseTime=True"),

		RedisAddr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		AccessSecret:  getEnv("JWT_ACCESS_SECRET", "secret-key"),
		RefreshSecret: getEnv("JWT_REFRESH_SECRET", "refresh-key"),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", "NoReply <no-reply@example.com>"),

		KafkaBrokers: splitList(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "hub.activity"),

		S3Region:   getEnv("S3_REGION", "us-east-1"),
		S3Bucket:   getEnv("S3_BUCKET", ""),
		S3Endpoint: getEnv("S3_ENDPOINT", ""),

		N8NBaseURL:       getEnv("N8N_BASE_URL", ""),
		N8NWebhookPath:   getEnv("N8N_WEBHOOK_PATH", "/webhook/chat"),
		N8NSigningSecret: getEnv("N8N_SIGNING_SECRET", ""),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
