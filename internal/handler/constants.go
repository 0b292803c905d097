package handler

// URL parameters
const (
	ParamGuildID = "guildID"
	ParamUserID  = "userID"
	QueryLimit   = "limit"
	QueryForce   = "force"
)

// Leaderboard paging
const (
	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 100
)

// Client-facing error messages. They never carry internal error text.
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgInvalidPathParam      = "Invalid %s"
	ErrMsgInvalidLimit          = "Invalid limit parameter"
	ErrMsgLevelOrDelta          = "Send exactly one of level or delta"

	ErrMsgGenericServerError  = "Something went wrong"
	ErrMsgValidationError     = "Invalid request. Please check your inputs."
	ErrMsgAccountNotFound     = "Account not found"
	ErrMsgUnknownItem         = "Unknown item"
	ErrMsgNotEnoughMoney      = "Not enough money"
	ErrMsgNotEnoughItems      = "Not enough items"
	ErrMsgOutOfStock          = "Not enough stock left"
	ErrMsgNotInShop           = "That item is not in the shop right now"
	ErrMsgDestinationFull     = "Balance is already at its cap"
	ErrMsgMaxBankTier         = "Bank is already at the highest tier"
	ErrMsgAlreadyClaimed      = "Daily reward already claimed"
	ErrMsgNoLostStreak        = "There is no lost streak to restore"
	ErrMsgRestoreExpired      = "The streak restore offer has expired"
	ErrMsgOnCooldown          = "Action is on cooldown. Try again later"
	ErrMsgNotDue              = "Not due yet"
	ErrMsgItemNotUsable       = "That item cannot be used"
	ErrMsgConfigurationError  = "Server configuration is incomplete"
	ErrMsgTransactionError    = "The change could not be saved. Please try again."
	ErrMsgReadinessDBFailed   = "database connection failed"
	ErrMsgReadinessBotOffline = "discord gateway disconnected"
)

// Success messages
const (
	MsgAccountReset      = "Account reset"
	MsgAlertsUpdated     = "Alert settings updated"
	MsgItemTaken         = "Item removed"
	MsgHealthStatusOK    = "ok"
	MsgHealthUnavailable = "unavailable"
)

// Log messages
const (
	LogMsgDecodeFailed      = "Failed to decode request"
	LogMsgRequestDecoded    = "Request decoded"
	LogMsgServiceError      = "Service call failed"
	LogMsgEncodeFailed      = "Failed to encode JSON response"
	LogMsgWriteFailed       = "Failed to write response buffer"
	LogMsgReadinessFailed   = "Readiness check failed"
	LogMsgAccountReset      = "Account reset via API"
	LogMsgManualRestock     = "Manual restock via API"
	LogMsgSettingsViaAPI    = "Guild settings updated via API"
	LogMsgAdminCredit       = "Admin balance change"
	LogMsgAdminItemChange   = "Admin item change"
	LogMsgAdminLevelChange  = "Admin level change"
	LogMsgBufferPoolTypeErr = "Buffer pool returned unexpected type"
)

const readinessTimeoutSeconds = 2
