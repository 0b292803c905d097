package progression

// Leaderboard limits
const (
	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 100
)

// Role sync reasons
const (
	RoleSyncReasonLevel = "level"
)

// Error messages
const (
	ErrMsgBeginTransactionFailed  = "failed to begin transaction: %w"
	ErrMsgCommitTransactionFailed = "failed to commit transaction: %w"
	ErrMsgGetAccountFailed        = "failed to get account: %w"
	ErrMsgUpdateAccountFailed     = "failed to update account: %w"
	ErrMsgGetCharmsFailed         = "failed to get active charms: %w"
	ErrMsgGetLeaderboardFailed    = "failed to get leaderboard: %w"
)

// Log messages
const (
	LogMsgXPAwarded         = "XP awarded"
	LogMsgLevelChanged      = "Level changed"
	LogMsgLevelSet          = "Level set"
	LogMsgTransactionFailed = "Progression transaction failed"
	LogMsgPublishFailed     = "Failed to publish progression event"
)
