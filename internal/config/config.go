package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT (back-office endpoints)
	JWTSecret   string
	JWTIssuer   string
	JWTAudience string
	JWTExpiry   time.Duration

	// Mail
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPass     string
	MailFrom     string
	MailFromName string
	AdminEmail   string

	// CAPTCHA
	CaptchaRedisAddr string
	CaptchaExpiry    time.Duration

	// Reports
	UploadDir      string
	CategoryStrict bool

	// Admin bootstrap account
	AdminBootstrapEmail    string
	AdminBootstrapPassword string

	// Server
	Port        string
	CORSOrigins string
	PublicURL   string
}

func Load() *Config {
	// Best effort; real env vars win over .env values.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not load .env file", "error", err)
	}

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "lenbersih"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:   getEnv("JWT_SECRET", ""),
		JWTIssuer:   getEnv("JWT_ISSUER", "lenbersih-api"),
		JWTAudience: getEnv("JWT_AUDIENCE", "lenbersih-web"),
		JWTExpiry:   parseDuration(getEnv("JWT_EXPIRY", "12h")),

		SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     parseInt(getEnv("SMTP_PORT", "587"), 587),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPass:     getEnv("SMTP_PASS", ""),
		MailFrom:     getEnv("MAIL_FROM", "noreply@lenbersih.id"),
		MailFromName: getEnv("MAIL_FROM_NAME", "Len Bersih System"),
		AdminEmail:   getEnv("ADMIN_NOTIFY_EMAIL", ""),

		CaptchaRedisAddr: getEnv("CAPTCHA_REDIS_ADDR", ""),
		CaptchaExpiry:    parseDuration(getEnv("CAPTCHA_EXPIRY", "10m")),

		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		CategoryStrict: parseBool(getEnv("CATEGORY_STRICT", "false")),

		AdminBootstrapEmail:    getEnv("ADMIN_BOOTSTRAP_EMAIL", ""),
		AdminBootstrapPassword: getEnv("ADMIN_BOOTSTRAP_PASSWORD", ""),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		PublicURL:   getEnv("PUBLIC_URL", "http://localhost:8080"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 15 * time.Minute
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false
	}
	return b
}
