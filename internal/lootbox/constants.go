package lootbox

// DropChannel selects which base chance gates a direct drop.
type DropChannel string

const (
	ChannelChat  DropChannel = "chat"
	ChannelVoice DropChannel = "voice"
)

// Error messages
const (
	ErrMsgBeginTransactionFailed  = "failed to begin transaction: %w"
	ErrMsgCommitTransactionFailed = "failed to commit transaction: %w"
	ErrMsgGetAccountFailed        = "failed to get account: %w"
	ErrMsgUpdateAccountFailed     = "failed to update account: %w"
	ErrMsgInvalidOpenCountFmt     = "invalid open count %d: %w"
	ErrMsgTooManyBoxesFmt         = "cannot open %d %s at once (max %d): %w"
	ErrMsgEmptyPoolFmt            = "loot box %s has no positive weights: %w"
	ErrMsgUnknownChannelFmt       = "unknown drop channel %q: %w"
)

// Log messages
const (
	LogMsgDirectDrop        = "Direct drop granted"
	LogMsgLootBoxesOpened   = "Loot boxes opened"
	LogMsgTransactionFailed = "Drop transaction failed"
	LogMsgPublishFailed     = "Failed to publish drop event"
)
