package guild

import "time"

const (
	DefaultCacheSize = 1024
	DefaultCacheTTL  = 5 * time.Minute
)

// Error messages
const (
	ErrMsgGetSettingsFailed  = "failed to get guild settings: %w"
	ErrMsgSaveSettingsFailed = "failed to save guild settings: %w"
	ErrMsgListSettingsFailed = "failed to list guild settings: %w"
	ErrMsgInvalidIntervalFmt = "restock interval %d: %w"
	ErrMsgMissingGuildID     = "guild id is required: %w"
)

// Log messages
const (
	LogMsgGuildRegistered  = "Guild registered"
	LogMsgSettingsUpdated  = "Guild settings updated"
	LogMsgWeekendToggled   = "Guild weekend boost toggled"
	LogMsgWeekendLookupErr = "Failed to read weekend flag, assuming off"
)
