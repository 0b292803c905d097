package ledger

// ==================== Error Messages ====================

// Database operation error messages
const (
	ErrMsgBeginTransactionFailed  = "failed to begin transaction: %w"
	ErrMsgCommitTransactionFailed = "failed to commit transaction: %w"
	ErrMsgGetAccountFailed        = "failed to get account: %w"
	ErrMsgUpdateAccountFailed     = "failed to update account: %w"
	ErrMsgGetInventoryFailed      = "failed to get inventory: %w"
	ErrMsgUpdateInventoryFailed   = "failed to update inventory: %w"
	ErrMsgGetCharmsFailed         = "failed to get active charms: %w"
	ErrMsgInsertCharmFailed       = "failed to activate charm: %w"
	ErrMsgDeleteAccountFailed     = "failed to delete account: %w"
	ErrMsgSweepCharmsFailed       = "failed to delete expired charms: %w"
)

// Formatted error messages for validation
const (
	ErrMsgInvalidAmountFmt       = "invalid amount %d: %w"
	ErrMsgInvalidQuantityFmt     = "invalid quantity %d: %w"
	ErrMsgUnknownCurrencyFmt     = "%q: %w"
	ErrMsgInsufficientItemsFmt   = "need %d %s, have %d: %w"
	ErrMsgItemNotUsableFmt       = "%s (%s): %w"
	ErrMsgCurrencyNotStorableFmt = "%s: %w"
	ErrMsgNegativeThresholdFmt   = "alert threshold %d: %w"
)

// ==================== Log Messages ====================

const (
	LogMsgCurrencyCredited   = "Currency credited"
	LogMsgCurrencyTruncated  = "Credit truncated by cap"
	LogMsgItemGranted        = "Item granted"
	LogMsgItemTaken          = "Item taken"
	LogMsgCharmActivated     = "Charm activated"
	LogMsgItemUsed           = "Item used"
	LogMsgExpiredCharmsSwept = "Expired charms swept"
	LogMsgAccountReset       = "Account reset"
	LogMsgTransactionFailed  = "Ledger transaction failed"
	LogMsgPublishFailed      = "Failed to publish ledger event"
)

// Role sync reasons
const (
	RoleSyncReasonToken = "cosmic_token"
)

// percentDivisor converts whole-number percentages into fractions.
const percentDivisor = 100
