package bootstrap

import "time"

// File system permissions
const (
	DirPermission     = 0755
	LogFilePermission = 0666
)

// Log file rotation
const (
	LogFileTimestampFormat = "2006-01-02_15-04-05"
	LogFileNamePattern     = "session_%s.log"
	LogFileExtension       = ".log"
	// LogFileRetentionCount is how many session logs survive a start-up
	// cleanup, including the new one.
	LogFileRetentionCount = 10
)

// Event system defaults, used when the environment leaves them unset.
const (
	EventDefaultMaxRetries     = 5
	EventDefaultRetryDelay     = 2 * time.Second
	EventDefaultDeadLetterPath = "logs/event_deadletter.jsonl"
)

// Cooldown store
const (
	CooldownMemoryCapacity = 50_000
	RedisPingTimeout       = 5 * time.Second
)

// Job names
const (
	JobBankInterest     = "bank_interest"
	JobShopRestock      = "shop_restock"
	JobStreakSweep      = "daily_streak_sweep"
	JobCharmSweep       = "charm_sweep"
	JobVoiceTick        = "voice_tick"
	JobLeaderboardBoard = "leaderboard_refresh"
)

// Log messages
const (
	LogMsgLoggingInitialized     = "Logging initialized"
	LogMsgStarting               = "Starting economy engine"
	LogMsgConfigurationLoaded    = "Configuration loaded"
	LogMsgConfigWarning          = "Configuration warning"
	LogMsgGameConfigLoaded       = "Game configuration loaded"
	LogMsgEventSystemInitialized = "Event system initialized"
	LogMsgEventHandlersReady     = "Event handlers registered"
	LogMsgNotificationsDisabled  = "Discord disabled, notifications are not delivered"
	LogMsgCooldownBackend        = "Cooldown backend selected"
	LogMsgJobResult              = "Scheduled job finished"
	LogMsgShuttingDown           = "Shutting down"
	LogMsgServerForcedShutdown   = "Server forced to shutdown"
	LogMsgPublisherShutdownErr   = "Resilient publisher shutdown failed"
	LogMsgStopped                = "Economy engine stopped"
	LogMsgDeleteOldLogFailed     = "Failed to delete old log file"
)

// Error messages
const (
	ErrMsgCreateLogsDir          = "failed to create logs directory: %w"
	ErrMsgOpenLogFile            = "failed to open log file: %w"
	ErrMsgCreateDeadLetterDir    = "failed to create dead-letter directory: %w"
	ErrMsgCreateResilientPub     = "failed to create resilient publisher: %w"
	ErrMsgLoadGameConfig         = "failed to load game configuration: %w"
	ErrMsgConnectRedis           = "failed to connect to redis at %s: %w"
	ErrMsgUnknownCooldownBackend = "unknown cooldown backend %q"
	ErrMsgStartBot               = "failed to start discord bot: %w"
)

// Cooldown backend names
const (
	CooldownBackendRedis    = "redis"
	CooldownBackendPostgres = "postgres"
	CooldownBackendMemory   = "memory"
)
