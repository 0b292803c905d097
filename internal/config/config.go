package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the process configuration read from the environment.
type Config struct {
	Port        int    `envconfig:"PORT" default:"8080"`
	APIKey      string `envconfig:"API_KEY"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat   string `envconfig:"LOG_FORMAT" default:"text"`
	Environment string `envconfig:"ENVIRONMENT" default:"dev"`
	Version     string `envconfig:"APP_VERSION" default:"dev"`
	// LogDir adds a per-session log file next to stdout when set.
	LogDir string `envconfig:"LOG_DIR"`

	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD" default:"postgres"`
	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBName     string `envconfig:"DB_NAME" default:"economybot"`

	DBMaxConns        int           `envconfig:"DB_MAX_CONNS" default:"20"`
	DBMaxConnIdleTime time.Duration `envconfig:"DB_MAX_CONN_IDLE_TIME" default:"5m"`
	DBMaxConnLifetime time.Duration `envconfig:"DB_MAX_CONN_LIFETIME" default:"30m"`

	GameConfigPath string `envconfig:"GAME_CONFIG_PATH"`

	DiscordToken                 string `envconfig:"DISCORD_TOKEN"`
	DiscordAppID                 string `envconfig:"DISCORD_APP_ID"`
	DiscordAnnouncementChannelID string `envconfig:"DISCORD_ANNOUNCEMENT_CHANNEL_ID"`

	// RedisAddr enables the shared cooldown store when set.
	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	WorkerCount          int           `envconfig:"WORKER_COUNT" default:"4"`
	WorkerQueueSize      int           `envconfig:"WORKER_QUEUE_SIZE" default:"100"`
	InterestInterval     time.Duration `envconfig:"INTEREST_INTERVAL" default:"1h"`
	RestockSweepInterval time.Duration `envconfig:"RESTOCK_SWEEP_INTERVAL" default:"1m"`
	StreakSweepInterval  time.Duration `envconfig:"STREAK_SWEEP_INTERVAL" default:"1h"`
	CharmSweepInterval   time.Duration `envconfig:"CHARM_SWEEP_INTERVAL" default:"5m"`
	VoiceTickInterval    time.Duration `envconfig:"VOICE_TICK_INTERVAL" default:"30s"`
	LeaderboardInterval  time.Duration `envconfig:"LEADERBOARD_INTERVAL" default:"15m"`

	// CooldownDevMode disables cooldown checks. Never set it in production.
	CooldownDevMode bool `envconfig:"COOLDOWN_DEV_MODE" default:"false"`

	EventMaxRetries     int           `envconfig:"EVENT_MAX_RETRIES" default:"5"`
	EventRetryDelay     time.Duration `envconfig:"EVENT_RETRY_DELAY" default:"2s"`
	EventDeadLetterPath string        `envconfig:"EVENT_DEADLETTER_PATH" default:"logs/event_deadletter.jsonl"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS"`
	TrustedProxies     []string `envconfig:"TRUSTED_PROXIES"`
}

// Load reads .env (when present) and then the process environment.
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgParseEnvFailed, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}

// DiscordEnabled reports whether a gateway session should be opened.
func (c *Config) DiscordEnabled() bool {
	return c.DiscordToken != ""
}
