package activity

// Error messages
const (
	ErrMsgCreditCoinsFailed = "failed to credit activity coins: %w"
	ErrMsgAwardXPFailed     = "failed to award activity xp: %w"
	ErrMsgDirectDropFailed  = "failed to roll activity drop: %w"
	ErrMsgVoiceRewardFmt    = "voice reward for %s in %s: %w"
)

// Log messages
const (
	LogMsgMessageRewarded   = "Chat activity rewarded"
	LogMsgMessageOnCooldown = "Chat activity on cooldown"
	LogMsgPartialReward     = "Chat activity partly rewarded"
	LogMsgVoiceJoined       = "Voice session started"
	LogMsgVoiceLeft         = "Voice session ended"
	LogMsgVoiceRewarded     = "Voice activity rewarded"
	LogMsgVoiceRewardFailed = "Failed to reward voice activity"
	LogMsgVoiceTick         = "Voice tick finished"
)
