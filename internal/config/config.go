package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Notification modes for report alerts.
const (
	NotifyModeEmail    = "email"
	NotifyModeTelegram = "telegram"
	NotifyModeLog      = "log"
	NotifyModeOff      = "off"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis (optional; empty disables cross-instance event fan-out)
	RedisURL string

	// Security
	JWTSecret       string
	InviteJWTSecret string

	// Application
	AppEnv   string
	AppPort  string
	LogLevel string

	// Uploads
	UploadDir     string
	UploadMaxSize int64

	// Rate Limiting
	RateLimitPerUser int
	RateLimitPerIP   int

	// Report notifications
	ReportsNotifyMode   string
	ResendAPIKey        string
	ReportsEmailFrom    string
	ReportsEmailTo      string
	TelegramBotToken    string
	TelegramAdminChatID int64

	// Web Push
	VAPIDPublicKey    string
	VAPIDPrivateKey   string
	VAPIDSubject      string
	PushWebhookSecret string

	// Unread reconciliation
	UnreadReconcileSeconds int
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "trymed"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "trymed_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		RedisURL: getEnv("REDIS_URL", ""),

		JWTSecret:       getEnv("JWT_SECRET_KEY", ""),
		InviteJWTSecret: getEnv("INVITE_JWT_SECRET", ""),

		AppEnv:   getEnv("APP_ENV", "development"),
		AppPort:  getEnv("APP_PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		UploadDir:     getEnv("UPLOAD_DIR", "./uploads"),
		UploadMaxSize: getEnvInt64("UPLOAD_MAX_SIZE", 10485760),

		RateLimitPerUser: getEnvInt("RATE_LIMIT_PER_USER", 60),
		RateLimitPerIP:   getEnvInt("RATE_LIMIT_PER_IP", 200),

		ReportsNotifyMode: getEnv("REPORTS_NOTIFY_MODE", NotifyModeLog),
		ResendAPIKey:      getEnv("RESEND_API_KEY", ""),
		ReportsEmailFrom:  getEnv("REPORTS_EMAIL_FROM", ""),
		ReportsEmailTo:    getEnv("REPORTS_EMAIL_TO", ""),
		TelegramBotToken:  getEnv("TELEGRAM_BOT_TOKEN", ""),

		VAPIDPublicKey:    getEnv("VAPID_PUBLIC_KEY", ""),
		VAPIDPrivateKey:   getEnv("VAPID_PRIVATE_KEY", ""),
		VAPIDSubject:      getEnv("VAPID_SUBJECT", "mailto:support@trymedating.com"),
		PushWebhookSecret: getEnv("PUSH_WEBHOOK_SECRET", ""),

		UnreadReconcileSeconds: getEnvInt("UNREAD_RECONCILE_SECONDS", 120),
	}

	// Parse admin chat id for the telegram notify channel
	chatIDStr := getEnv("TELEGRAM_ADMIN_CHAT_ID", "")
	if chatIDStr != "" {
		id, err := strconv.ParseInt(chatIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_ADMIN_CHAT_ID: %w", err)
		}
		cfg.TelegramAdminChatID = id
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DBPassword == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET_KEY must be at least 32 characters")
	}
	if c.InviteJWTSecret == "" {
		return fmt.Errorf("INVITE_JWT_SECRET is required")
	}

	switch c.ReportsNotifyMode {
	case NotifyModeEmail, NotifyModeTelegram, NotifyModeLog, NotifyModeOff:
	default:
		return fmt.Errorf("REPORTS_NOTIFY_MODE must be one of email, telegram, log, off")
	}

	if c.ReportsNotifyMode == NotifyModeEmail {
		if c.ResendAPIKey == "" || c.ReportsEmailFrom == "" || c.ReportsEmailTo == "" {
			return fmt.Errorf("email notify mode requires RESEND_API_KEY, REPORTS_EMAIL_FROM and REPORTS_EMAIL_TO")
		}
	}
	if c.ReportsNotifyMode == NotifyModeTelegram {
		if c.TelegramBotToken == "" || c.TelegramAdminChatID == 0 {
			return fmt.Errorf("telegram notify mode requires TELEGRAM_BOT_TOKEN and TELEGRAM_ADMIN_CHAT_ID")
		}
	}

	return nil
}

func (c *Config) ValidateProductionSecurity() error {
	if c.AppEnv != "production" {
		return nil
	}

	if c.DBSSLMode != "require" {
		return fmt.Errorf("DB_SSLMODE must be 'require' in production")
	}
	if c.JWTSecret == "your_jwt_secret_minimum_32_chars_here_change_this" {
		return fmt.Errorf("JWT_SECRET_KEY must be changed from default in production")
	}
	if c.InviteJWTSecret == c.JWTSecret {
		return fmt.Errorf("INVITE_JWT_SECRET must differ from JWT_SECRET_KEY in production")
	}
	if c.PushWebhookSecret == "" && (c.VAPIDPublicKey != "" || c.VAPIDPrivateKey != "") {
		return fmt.Errorf("PUSH_WEBHOOK_SECRET must be set when web push is configured in production")
	}

	return nil
}

func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// ReportsEmailRecipients splits the comma-separated REPORTS_EMAIL_TO list.
func (c *Config) ReportsEmailRecipients() []string {
	var out []string
	for _, s := range strings.Split(c.ReportsEmailTo, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (c *Config) GetUnreadReconcileInterval() time.Duration {
	return time.Duration(c.UnreadReconcileSeconds) * time.Second
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}
