package shop

// Error messages
const (
	ErrMsgBeginTransactionFailed  = "failed to begin transaction: %w"
	ErrMsgCommitTransactionFailed = "failed to commit transaction: %w"
	ErrMsgGetAccountFailed        = "failed to get account: %w"
	ErrMsgUpdateAccountFailed     = "failed to update account: %w"
	ErrMsgGetSlotsFailed          = "failed to get shop slots: %w"
	ErrMsgReplaceSlotsFailed      = "failed to store shop slots: %w"
	ErrMsgUpdateSlotFailed        = "failed to update shop slot: %w"
	ErrMsgGetSettingsFailed       = "failed to get shop settings: %w"
	ErrMsgUpsertSettingsFailed    = "failed to store shop settings: %w"
	ErrMsgListGuildsFailed        = "failed to list guilds: %w"
	ErrMsgGetCharmsFailed         = "failed to get active charms: %w"
	ErrMsgInvalidQuantityFmt      = "invalid quantity %d: %w"
	ErrMsgQuantityOverMaxFmt      = "quantity %d over limit %d: %w"
	ErrMsgNotListedFmt            = "%s: %w"
	ErrMsgStockFmt                = "want %d, %d left: %w"
	ErrMsgShortDebitFmt           = "debit of %d %s applied %d: %w"
)

// Log messages
const (
	LogMsgRestocked         = "Shop restocked"
	LogMsgRestockSkipped    = "Shop not due for restock"
	LogMsgRestockFailed     = "Failed to restock shop"
	LogMsgPurchased         = "Shop purchase completed"
	LogMsgWeekendApplied    = "Shop weekend transition applied"
	LogMsgTransactionFailed = "Shop transaction failed"
	LogMsgPublishFailed     = "Failed to publish shop event"
)

const (
	percentDivisor     = 100
	maxDiscountPercent = 100
	weekendDealMarker  = "weekend deal"
	weekendDealFmt     = "🎉 %s (Weekend Deal)"
	discountLabelFmt   = "%d%% OFF"
)
