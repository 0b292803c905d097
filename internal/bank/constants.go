package bank

// Error messages
const (
	ErrMsgBeginTransactionFailed  = "failed to begin transaction: %w"
	ErrMsgCommitTransactionFailed = "failed to commit transaction: %w"
	ErrMsgGetAccountFailed        = "failed to get account: %w"
	ErrMsgUpdateAccountFailed     = "failed to update account: %w"
	ErrMsgListInterestDueFailed   = "failed to list accounts due interest: %w"
	ErrMsgInvalidAmountFmt        = "invalid amount %d: %w"
	ErrMsgNotBankableFmt          = "%q cannot be banked: %w"
	ErrMsgDestinationFullFmt      = "%s %s storage is full: %w"
	ErrMsgMaxTierFmt              = "tier %d: %w"
)

// Log messages
const (
	LogMsgDeposited         = "Bank deposit"
	LogMsgWithdrew          = "Bank withdrawal"
	LogMsgTierUpgraded      = "Bank tier upgraded"
	LogMsgInterestCredited  = "Bank interest credited"
	LogMsgInterestRun       = "Bank interest run finished"
	LogMsgInterestFailed    = "Failed to credit bank interest"
	LogMsgTransactionFailed = "Bank transaction failed"
	LogMsgPublishFailed     = "Failed to publish bank event"
)

// Storage names used in error messages.
const (
	storageBank   = "bank"
	storageWallet = "wallet"
)

const percentDivisor = 100
