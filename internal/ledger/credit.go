package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/osse101/EconomyBot_Go/internal/domain"
	"github.com/osse101/EconomyBot_Go/internal/logger"
	"github.com/osse101/EconomyBot_Go/internal/metrics"
	"github.com/osse101/EconomyBot_Go/internal/repository"
	"github.com/osse101/EconomyBot_Go/internal/utils"
)

// CreditResult describes a wallet mutation. Requested is the caller's raw
// amount, Boosted the amount after charms and the weekend multiplier, and
// ActualAdded the signed change that survived the [0, cap] clamp.
type CreditResult struct {
	Currency    domain.Currency `json:"currency"`
	Requested   int64           `json:"requested"`
	Boosted     int64           `json:"boosted"`
	ActualAdded int64           `json:"actual_added"`
	NewBalance  int64           `json:"new_balance"`
}

// Truncated reports whether a cap or the zero floor reduced the mutation.
func (r *CreditResult) Truncated() bool {
	return r.ActualAdded != r.Boosted
}

// CappedAdd adds delta to current and clamps the result to [0, cap]. It
// returns the new balance and the change actually applied. A balance that
// already exceeds cap (the cap was lowered) is never reduced by a credit.
func CappedAdd(current, delta, cap int64) (newBalance, actual int64) {
	if delta > 0 {
		if current >= cap {
			return current, 0
		}
		newBalance = utils.Clamp(current+delta, 0, cap)
	} else {
		newBalance = max(current+delta, 0)
	}
	return newBalance, newBalance - current
}

// ApplyBoosts applies a percentage charm bonus and then a multiplier to a
// positive amount, rounding half away from zero after each step. Non-positive
// amounts are returned unchanged.
func ApplyBoosts(amount int64, charmPercent, multiplier float64) int64 {
	if amount <= 0 {
		return amount
	}

	v := decimal.NewFromInt(amount)
	if charmPercent != 0 {
		bonus := v.Mul(decimal.NewFromFloat(charmPercent)).Div(decimal.NewFromInt(percentDivisor)).Round(0)
		v = v.Add(bonus)
	}
	if multiplier > 0 && multiplier != 1 {
		v = v.Mul(decimal.NewFromFloat(multiplier)).Round(0)
	}
	if v.IsNegative() {
		return 0
	}
	return v.IntPart()
}

// RequireFunds returns an *domain.InsufficientFundsError when acct holds
// less than amount of c.
func RequireFunds(acct *domain.Account, c domain.Currency, amount int64) error {
	if have := acct.Balance(c); have < amount {
		return &domain.InsufficientFundsError{Currency: c, Required: amount, Available: have}
	}
	return nil
}

// RequireBankFunds is RequireFunds for the bank balance.
func RequireBankFunds(acct *domain.Account, c domain.Currency, amount int64) error {
	if have := acct.BankBalance(c); have < amount {
		return &domain.InsufficientFundsError{Currency: c, Required: amount, Available: have}
	}
	return nil
}

// CreditTx applies a signed wallet change to acct inside tx. Positive
// amounts in coins or gems receive the matching charm bonus and, for
// weekend-eligible sources during the guild's weekend, the weekend
// multiplier. Premium currency is never boosted. acct is mutated in place;
// the caller persists it before committing.
func (s *service) CreditTx(ctx context.Context, tx repository.LedgerTx, acct *domain.Account, c domain.Currency, amount int64, source domain.Source) (*CreditResult, error) {
	if !c.Valid() {
		return nil, fmt.Errorf(ErrMsgUnknownCurrencyFmt, c, domain.ErrUnknownCurrency)
	}
	if amount == 0 {
		return nil, fmt.Errorf(ErrMsgInvalidAmountFmt, amount, domain.ErrInvalidAmount)
	}

	boosted := amount
	if amount > 0 && c != domain.CurrencyRobux {
		var charmPercent float64
		if charmType, ok := domain.CharmTypeFor(c); ok {
			charms, err := tx.GetActiveCharms(ctx, acct.UserID, acct.GuildID, s.now())
			if err != nil {
				return nil, fmt.Errorf(ErrMsgGetCharmsFailed, err)
			}
			charmPercent = domain.SumBoost(charms, charmType)
		}

		multiplier := 1.0
		if source.WeekendEligible() && s.weekend.IsWeekend(ctx, acct.GuildID) {
			multiplier = s.cfg.Global.WeekendMultiplier(c)
		}
		boosted = ApplyBoosts(amount, charmPercent, multiplier)
	}

	newBalance, actual := CappedAdd(acct.Balance(c), boosted, s.cfg.Global.CurrencyCap(c))
	acct.SetBalance(c, newBalance)

	if actual > 0 && source.CountsAsEarned() {
		acct.AddEarned(c, actual)
		if source == domain.SourceVoice && c == domain.CurrencyCoins {
			acct.TotalVoiceCoins += actual
		}
	}

	res := &CreditResult{
		Currency:    c,
		Requested:   amount,
		Boosted:     boosted,
		ActualAdded: actual,
		NewBalance:  newBalance,
	}

	switch {
	case actual > 0:
		metrics.CurrencyCredited.WithLabelValues(string(c), string(source)).Add(float64(actual))
	case actual < 0:
		metrics.CurrencyDebited.WithLabelValues(string(c), string(source)).Add(float64(-actual))
	}
	if res.Truncated() {
		metrics.CapTruncations.WithLabelValues(string(c)).Inc()
		logger.FromContext(ctx).Debug(LogMsgCurrencyTruncated,
			"user_id", acct.UserID, "guild_id", acct.GuildID,
			"currency", c, "boosted", boosted, "actual", actual)
	}

	return res, nil
}

// Credit applies a signed wallet change in its own transaction.
func (s *service) Credit(ctx context.Context, userID, guildID string, c domain.Currency, amount int64, source domain.Source) (*CreditResult, error) {
	var res *CreditResult
	err := s.withAccount(ctx, userID, guildID, func(tx repository.LedgerTx, acct *domain.Account) error {
		var err error
		res, err = s.CreditTx(ctx, tx, acct, c, amount, source)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info(LogMsgCurrencyCredited,
		"user_id", userID, "guild_id", guildID, "currency", c,
		"requested", amount, "actual", res.ActualAdded, "source", source)
	return res, nil
}

// Debit removes amount of c, clamping at zero. amount must be positive.
func (s *service) Debit(ctx context.Context, userID, guildID string, c domain.Currency, amount int64, source domain.Source) (*CreditResult, error) {
	if amount <= 0 {
		return nil, fmt.Errorf(ErrMsgInvalidAmountFmt, amount, domain.ErrInvalidAmount)
	}
	return s.Credit(ctx, userID, guildID, c, -amount, source)
}
