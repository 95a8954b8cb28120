package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// SubmissionNotifyPolicy decides what a notification failure does to complaint submission.
type SubmissionNotifyPolicy string

const (
	SubmissionNotifyIsolate SubmissionNotifyPolicy = "isolate" // log and keep the complaint
	SubmissionNotifyStrict  SubmissionNotifyPolicy = "strict"  // fail the submission
)

// StatusEmailPolicy decides what a failed submitter email does to a status change.
type StatusEmailPolicy string

const (
	StatusEmailAbort  StatusEmailPolicy = "abort"
	StatusEmailIgnore StatusEmailPolicy = "ignore"
)

type Policy struct {
	SubmissionNotify SubmissionNotifyPolicy
	StatusEmail      StatusEmailPolicy
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Channel  string
}

// OperatorConfig holds the platform operator's credentials.
type OperatorConfig struct {
	Email    string
	Password string
}

type Config struct {
	Port        string
	JWTSecret   string
	MongoURI    string
	DBName      string
	SkipAuth    bool
	Environment string
	AppId       string
	CORSOrigins string

	OutboxBuffer         int
	SessionSweepInterval time.Duration
	SessionTTL           time.Duration

	SMTP     SMTPConfig
	Redis    RedisConfig
	Operator OperatorConfig
	Policy   Policy
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file successfully")
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		JWTSecret:   getEnv("JWT_SECRET", "secret"),
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:      getEnv("DB_NAME", "bighil"),
		SkipAuth:    getEnv("SKIP_AUTH", "false") == "true",
		Environment: getEnv("ENVIRONMENT", "development"),
		AppId:       getEnv("APP_ID", "go-bighil"),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000, http://localhost:3001"),

		OutboxBuffer:         getEnvInt("OUTBOX_BUFFER", 1024),
		SessionSweepInterval: getEnvDuration("SESSION_SWEEP_INTERVAL", 15*time.Minute),
		SessionTTL:           getEnvDuration("SESSION_TTL", 72*time.Hour),

		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvInt("SMTP_PORT", 587),
			User:     getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			Channel:  getEnv("REALTIME_CHANNEL", "bighil:realtime"),
		},
		Operator: OperatorConfig{
			Email:    getEnv("BIGHIL_EMAIL", ""),
			Password: getEnv("BIGHIL_PASSWORD", ""),
		},
		Policy: Policy{
			SubmissionNotify: SubmissionNotifyPolicy(getEnv("SUBMISSION_NOTIFY_POLICY", string(SubmissionNotifyIsolate))),
			StatusEmail:      StatusEmailPolicy(getEnv("STATUS_EMAIL_POLICY", string(StatusEmailAbort))),
		},
	}, nil
}

// DefaultPolicy reproduces the historical behaviour.
func DefaultPolicy() Policy {
	return Policy{SubmissionNotify: SubmissionNotifyIsolate, StatusEmail: StatusEmailAbort}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
