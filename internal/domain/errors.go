package domain

import (
	"errors"
	"fmt"
)

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Validation errors
	ErrMsgValidation          = "validation failed"
	ErrMsgInvalidAmount       = "amount must be positive"
	ErrMsgUnknownItem         = "unknown item"
	ErrMsgUnknownCurrency     = "unknown currency"
	ErrMsgQuantityExceedsMax  = "quantity exceeds per-transaction maximum"
	ErrMsgItemNotUsable       = "item cannot be used"
	ErrMsgNotALootBox         = "item is not a loot box"
	ErrMsgCurrencyInInventory = "currency items cannot be stored in inventory"

	// Funds and stock errors
	ErrMsgInsufficientFunds = "insufficient funds"
	ErrMsgInsufficientStock = "insufficient stock"
	ErrMsgInsufficientItems = "insufficient items"
	ErrMsgNotInShop         = "item is not listed in the shop"
	ErrMsgDestinationFull   = "destination is full"

	// Bank errors
	ErrMsgMaxBankTier = "bank is already at max tier"

	// Daily reward errors
	ErrMsgAlreadyClaimed  = "daily reward already claimed"
	ErrMsgNoLostStreak    = "no lost streak to restore"
	ErrMsgRestoreExpired  = "streak restore offer has expired"
	ErrMsgRewardNotFound  = "daily reward not found"
	ErrMsgNotDue          = "not due yet"
	ErrMsgOnCooldown      = "action on cooldown"
	ErrMsgAccountNotFound = "account not found"

	// Internal errors
	ErrMsgTransactionFailed     = "transaction failed"
	ErrMsgConfigurationMissing  = "configuration missing"
	ErrMsgTxClosed              = "tx is closed"
	ErrMsgInvalidConfiguration  = "invalid configuration"
	ErrMsgNotifierUnavailable   = "notifier unavailable"
	ErrMsgGuildSettingsNotFound = "guild settings not found"
)

// Common domain errors
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	ErrValidation          = errors.New(ErrMsgValidation)
	ErrInvalidAmount       = fmt.Errorf("%w: %s", ErrValidation, ErrMsgInvalidAmount)
	ErrUnknownItem         = fmt.Errorf("%w: %s", ErrValidation, ErrMsgUnknownItem)
	ErrUnknownCurrency     = fmt.Errorf("%w: %s", ErrValidation, ErrMsgUnknownCurrency)
	ErrQuantityExceedsMax  = fmt.Errorf("%w: %s", ErrValidation, ErrMsgQuantityExceedsMax)
	ErrItemNotUsable       = fmt.Errorf("%w: %s", ErrValidation, ErrMsgItemNotUsable)
	ErrNotALootBox         = fmt.Errorf("%w: %s", ErrValidation, ErrMsgNotALootBox)
	ErrCurrencyInInventory = fmt.Errorf("%w: %s", ErrValidation, ErrMsgCurrencyInInventory)

	ErrInsufficientFunds = errors.New(ErrMsgInsufficientFunds)
	ErrInsufficientStock = errors.New(ErrMsgInsufficientStock)
	ErrInsufficientItems = errors.New(ErrMsgInsufficientItems)
	ErrNotInShop         = errors.New(ErrMsgNotInShop)
	ErrDestinationFull   = errors.New(ErrMsgDestinationFull)

	ErrMaxBankTier = errors.New(ErrMsgMaxBankTier)

	ErrAlreadyClaimed  = errors.New(ErrMsgAlreadyClaimed)
	ErrNoLostStreak    = errors.New(ErrMsgNoLostStreak)
	ErrRestoreExpired  = errors.New(ErrMsgRestoreExpired)
	ErrRewardNotFound  = errors.New(ErrMsgRewardNotFound)
	ErrNotDue          = errors.New(ErrMsgNotDue)
	ErrOnCooldown      = errors.New(ErrMsgOnCooldown)
	ErrAccountNotFound = errors.New(ErrMsgAccountNotFound)

	ErrTransactionFailed     = errors.New(ErrMsgTransactionFailed)
	ErrConfigurationMissing  = errors.New(ErrMsgConfigurationMissing)
	ErrInvalidConfiguration  = errors.New(ErrMsgInvalidConfiguration)
	ErrGuildSettingsNotFound = errors.New(ErrMsgGuildSettingsNotFound)
)

// InsufficientFundsError reports a failed balance check together with the
// amount the caller is missing.
type InsufficientFundsError struct {
	Currency  Currency
	Required  int64
	Available int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("%s: need %d %s, have %d (short %d)", ErrMsgInsufficientFunds, e.Required, e.Currency, e.Available, e.Shortfall())
}

// Shortfall is how much more of the currency is needed.
func (e *InsufficientFundsError) Shortfall() int64 {
	if e.Required <= e.Available {
		return 0
	}
	return e.Required - e.Available
}

// Is allows errors.Is(err, ErrInsufficientFunds) to match.
func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// ConfigurationMissingError names the static configuration entry that a
// caller referenced but that does not exist.
type ConfigurationMissingError struct {
	Kind string
	Key  string
}

func (e *ConfigurationMissingError) Error() string {
	return fmt.Sprintf("%s: %s %q", ErrMsgConfigurationMissing, e.Kind, e.Key)
}

func (e *ConfigurationMissingError) Is(target error) bool {
	return target == ErrConfigurationMissing
}

// NewItemMissing is shorthand for a missing item definition.
func NewItemMissing(itemID string) error {
	return &ConfigurationMissingError{Kind: "item", Key: itemID}
}
