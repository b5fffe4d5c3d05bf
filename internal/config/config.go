package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Storage   StorageConfig
	Secrets   SecretsConfig
	Condo     CondoConfig
	Scheduler SchedulerConfig
	Interview InterviewConfig
	Server    ServerConfig
}

// StorageConfig holds document-store configuration
type StorageConfig struct {
	Type          string // "mongodb", "dynamodb", "postgresql"
	MongoDBURI    string
	MongoDatabase string
	Region        string // For AWS DynamoDB
	TableName     string
	Endpoint      string // Custom endpoint for local testing
	PostgresURI   string
}

// SecretsConfig holds secret-source configuration
type SecretsConfig struct {
	Provider string // "aws" or "env"
	Region   string
}

// CondoConfig holds the upstream resort endpoints and request settings
type CondoConfig struct {
	LoginURL      string
	MembershipURL string
	BookingURL    string
	SearchPayload string // raw JSON body for the room-search call
	Timeout       time.Duration
}

// SchedulerConfig holds the cron trigger settings
type SchedulerConfig struct {
	CronSpec string
	Timezone string
}

// InterviewConfig holds exit-interview AI settings
type InterviewConfig struct {
	APIBaseURL  string
	APIKey      string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port int
}

// Load loads configuration from environment variables with defaults
func Load() (*Config, error) {
	cfg := &Config{
		Storage: StorageConfig{
			Type:          getEnv("STORAGE_TYPE", "mongodb"),
			MongoDBURI:    getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			MongoDatabase: getEnv("MONGODB_DATABASE", "hr_selfservice"),
			Region:        getEnv("AWS_REGION", "ap-northeast-2"),
			TableName:     getEnv("TABLE_NAME", "hr_documents"),
			Endpoint:      getEnv("DYNAMODB_ENDPOINT", ""), // For local DynamoDB
			PostgresURI:   getEnv("POSTGRES_URI", ""),
		},
		Secrets: SecretsConfig{
			Provider: getEnv("SECRETS_PROVIDER", "aws"),
			Region:   getEnv("AWS_REGION", "ap-northeast-2"),
		},
		Condo: CondoConfig{
			LoginURL:      getEnv("HANWHA_LOGIN_URL", "https://www.hanwharesort.co.kr/irsweb/resort3/member/login.do"),
			MembershipURL: getEnv("HANWHA_MEMBERSHIP_URL", "https://www.hanwharesort.co.kr/irsweb/resort3/member/login_membership_password.do"),
			BookingURL:    getEnv("HANWHA_BOOKING_URL", "https://booking.hanwharesort.co.kr/rst/rst0010/doExecute.mvc"),
			SearchPayload: getEnv("HANWHA_SEARCH_PAYLOAD", `{"ds_search":[{}]}`),
			Timeout:       getEnvDuration("HANWHA_TIMEOUT", 30*time.Second),
		},
		Scheduler: SchedulerConfig{
			CronSpec: getEnv("CONDO_SYNC_CRON", "0 3 * * *"),
			Timezone: getEnv("CONDO_SYNC_TIMEZONE", "Asia/Seoul"),
		},
		Interview: InterviewConfig{
			APIBaseURL:  getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			Model:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			Temperature: 0.7,
			Timeout:     getEnvDuration("OPENAI_TIMEOUT", 60*time.Second),
		},
		Server: ServerConfig{
			Port: getEnvInt("SERVER_PORT", 8080),
		},
	}

	return cfg, nil
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

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
