package daily

// Error messages
const (
	ErrMsgBeginTransactionFailed  = "failed to begin transaction: %w"
	ErrMsgCommitTransactionFailed = "failed to commit transaction: %w"
	ErrMsgGetAccountFailed        = "failed to get account: %w"
	ErrMsgUpdateAccountFailed     = "failed to update account: %w"
	ErrMsgGetRewardsFailed        = "failed to get daily rewards: %w"
	ErrMsgReplaceRewardsFailed    = "failed to store daily rewards: %w"
	ErrMsgListLapsedFailed        = "failed to list lapsed streaks: %w"
	ErrMsgNextClaimFmt            = "next claim at %s: %w"
	ErrMsgEmptyPoolFmt            = "daily %s pool is empty: %w"
)

// Log messages
const (
	LogMsgRewardsShifted    = "Daily rewards shifted"
	LogMsgPremiumRolled     = "Premium daily reward rolled"
	LogMsgRewardClaimed     = "Daily reward claimed"
	LogMsgStreakLapsed      = "Daily streak lapsed"
	LogMsgStreakRestored    = "Daily streak restored"
	LogMsgRestoreExpired    = "Streak restore offer expired"
	LogMsgSweepFailed       = "Failed to sweep lapsed streak"
	LogMsgTransactionFailed = "Daily transaction failed"
	LogMsgPublishFailed     = "Failed to publish daily event"
)

// restoreLastClaimOffsetHours backdates the last claim after a restore: the
// next claim is open at once and extends the streak if made within the hour.
const restoreLastClaimOffsetHours = 23
