package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Supported storage drivers
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// Supported chat providers
const (
	ProviderMock    = "mock"
	ProviderTalkJS  = "talkjs"
	ProviderLiveKit = "livekit"
)

// Config holds application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Postgres PostgresConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Invite   InviteConfig
	Chat     ChatConfig
	TalkJS   TalkJSConfig
	LiveKit  LiveKitConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string   `envconfig:"PORT" default:"8080"`
	Host            string   `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string   `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout int      `envconfig:"SHUTDOWN_TIMEOUT" default:"10"`
}

// DatabaseConfig selects the document store backing invites and chat sessions
type DatabaseConfig struct {
	Driver      string `envconfig:"DB_DRIVER" default:"postgres"`
	AutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"false"`
}

// PostgresConfig holds PostgreSQL configuration
type PostgresConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name     string `envconfig:"DB_NAME" default:"becopy"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns int    `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns int    `envconfig:"DB_MIN_CONNS" default:"5"`
}

// MongoConfig holds MongoDB configuration
type MongoConfig struct {
	URI      string        `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	Database string        `envconfig:"MONGO_DATABASE" default:"becopy"`
	Timeout  time.Duration `envconfig:"MONGO_TIMEOUT" default:"10s"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// JWTConfig holds JWT configuration used to authenticate API callers
type JWTConfig struct {
	AccessSecret string        `envconfig:"JWT_ACCESS_SECRET" default:"your-access-secret-change-in-production"`
	AccessExpiry time.Duration `envconfig:"JWT_ACCESS_EXPIRY" default:"15m"`
}

// InviteConfig holds the invite lifecycle domain constants
type InviteConfig struct {
	Expiry                   time.Duration `envconfig:"INVITE_EXPIRY" default:"168h"`
	MessageMin               int           `envconfig:"INVITE_MESSAGE_MIN" default:"5"`
	MessageMax               int           `envconfig:"INVITE_MESSAGE_MAX" default:"500"`
	AutoProvision            bool          `envconfig:"INVITE_AUTO_PROVISION" default:"true"`
	RatePerMinute            int           `envconfig:"INVITE_RATE_PER_MINUTE" default:"10"`
	RequireVerifiedRecipient bool          `envconfig:"INVITE_REQUIRE_VERIFIED_RECIPIENT" default:"false"`
}

// ChatConfig holds chat session and provider selection configuration
type ChatConfig struct {
	Provider          string        `envconfig:"CHAT_PROVIDER" default:"mock"`
	TokenTTL          time.Duration `envconfig:"CHAT_TOKEN_TTL" default:"1h"`
	WebhookSecret     string        `envconfig:"CHAT_WEBHOOK_SECRET" default:""`
	ReconcileInterval time.Duration `envconfig:"PROVISION_RECONCILE_INTERVAL" default:"5m"`
	RetryMaxElapsed   time.Duration `envconfig:"CHAT_PROVIDER_RETRY_MAX_ELAPSED" default:"10s"`
}

// TalkJSConfig holds credentials for the TalkJS REST API
type TalkJSConfig struct {
	AppID   string `envconfig:"TALKJS_APP_ID" default:""`
	Secret  string `envconfig:"TALKJS_SECRET" default:""`
	BaseURL string `envconfig:"TALKJS_BASE_URL" default:"https://api.talkjs.com"`
}

// LiveKitConfig holds LiveKit configuration
type LiveKitConfig struct {
	URL       string `envconfig:"LIVEKIT_URL" default:"http://localhost:7880"`
	APIKey    string `envconfig:"LIVEKIT_API_KEY" default:""`
	APISecret string `envconfig:"LIVEKIT_API_SECRET" default:""`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	var config Config
	// Sections are processed one by one so keys stay flat (PORT, not SERVER_PORT).
	sections := []interface{}{
		&config.Server, &config.Database, &config.Postgres, &config.Mongo, &config.Redis,
		&config.JWT, &config.Invite, &config.Chat, &config.TalkJS, &config.LiveKit,
	}
	for _, section := range sections {
		if err := envconfig.Process("", section); err != nil {
			return nil, fmt.Errorf("failed to process environment: %w", err)
		}
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverMongo:
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverPostgres, DriverMongo, c.Database.Driver)
	}

	if c.Invite.Expiry <= 0 {
		return fmt.Errorf("INVITE_EXPIRY must be positive")
	}
	if c.Invite.MessageMin < 1 || c.Invite.MessageMax < c.Invite.MessageMin {
		return fmt.Errorf("INVITE_MESSAGE_MIN/MAX must satisfy 1 <= min <= max")
	}

	switch strings.ToLower(c.Chat.Provider) {
	case ProviderMock:
	case ProviderTalkJS:
		if c.TalkJS.AppID == "" || c.TalkJS.Secret == "" {
			return fmt.Errorf("TALKJS_APP_ID and TALKJS_SECRET are required for the talkjs provider")
		}
	case ProviderLiveKit:
		if c.LiveKit.APIKey == "" || c.LiveKit.APISecret == "" {
			return fmt.Errorf("LIVEKIT_API_KEY and LIVEKIT_API_SECRET are required for the livekit provider")
		}
	default:
		return fmt.Errorf("unknown CHAT_PROVIDER %q", c.Chat.Provider)
	}

	if c.Server.Environment == "production" && c.Chat.WebhookSecret == "" {
		return fmt.Errorf("CHAT_WEBHOOK_SECRET is required in production")
	}
	return nil
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Postgres.Host,
		c.Postgres.Port,
		c.Postgres.User,
		c.Postgres.Password,
		c.Postgres.Name,
		c.Postgres.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}
