package gameconfig

// Resource names used when compiling the embedded schema.
const (
	SchemaResourceName = "gameconfig.schema.json"
)

// Configuration entry kinds reported by ConfigurationMissingError.
const (
	KindItem     = "item"
	KindLootBox  = "loot_box"
	KindBankTier = "bank_tier"
	KindCurrency = "currency"
)

// Error messages
const (
	ErrMsgReadConfigFailed    = "failed to read game config"
	ErrMsgCompileSchemaFailed = "failed to compile game config schema"
	ErrMsgDecodeConfigFailed  = "failed to decode game config"
	ErrMsgSchemaViolation     = "game config does not match schema"
	ErrMsgDuplicateItem       = "duplicate item id %q"
	ErrMsgBankTierGap         = "bank tier %d listed at position %d"
	ErrMsgBankTierNextTier    = "bank tier %d must point at tier %d"
	ErrMsgBankTierLast        = "last bank tier must have no next tier"
	ErrMsgRangeInverted       = "%s range has min %d > max %d"
)

// Log messages
const (
	LogMsgConfigLoaded = "Game config loaded"
)
