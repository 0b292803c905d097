// Package bank moves coins and gems between the wallet and the tiered bank,
// upgrades the bank tier and pays the daily interest.
package bank

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/osse101/EconomyBot_Go/internal/domain"
	"github.com/osse101/EconomyBot_Go/internal/event"
	"github.com/osse101/EconomyBot_Go/internal/gameconfig"
	"github.com/osse101/EconomyBot_Go/internal/ledger"
	"github.com/osse101/EconomyBot_Go/internal/logger"
	"github.com/osse101/EconomyBot_Go/internal/metrics"
	"github.com/osse101/EconomyBot_Go/internal/repository"
)

// TransferResult describes a deposit or withdrawal. AmountMoved is below
// Requested when the destination ran out of space.
type TransferResult struct {
	Currency      domain.Currency `json:"currency"`
	Requested     int64           `json:"requested"`
	AmountMoved   int64           `json:"amount_moved"`
	WalletBalance int64           `json:"wallet_balance"`
	BankBalance   int64           `json:"bank_balance"`
}

// Truncated reports whether the destination cap cut the transfer short.
func (r *TransferResult) Truncated() bool {
	return r.AmountMoved < r.Requested
}

// Shortfall is the part of the request that did not move.
func (r *TransferResult) Shortfall() int64 {
	return r.Requested - r.AmountMoved
}

// UpgradeResult describes a tier upgrade.
type UpgradeResult struct {
	FromTier  int             `json:"from_tier"`
	ToTier    int             `json:"to_tier"`
	CostCoins int64           `json:"cost_coins"`
	CostGems  int64           `json:"cost_gems"`
	Tier      domain.BankTier `json:"tier"`
}

// Info is a read-only view of an account's bank.
type Info struct {
	Tier      domain.BankTier  `json:"tier"`
	BankCoins int64            `json:"bank_coins"`
	BankGems  int64            `json:"bank_gems"`
	Next      *domain.BankTier `json:"next,omitempty"`
}

// InterestRun summarizes one pass of the interest job.
type InterestRun struct {
	Accounts int   `json:"accounts"`
	Coins    int64 `json:"coins"`
	Gems     int64 `json:"gems"`
}

// Interest returns floor(balance * rate / 100).
func Interest(balance int64, ratePercent float64) int64 {
	if balance <= 0 || ratePercent <= 0 {
		return 0
	}
	return decimal.NewFromInt(balance).
		Mul(decimal.NewFromFloat(ratePercent)).
		Div(decimal.NewFromInt(percentDivisor)).
		Floor().
		IntPart()
}

// Service defines the bank operations
type Service interface {
	Deposit(ctx context.Context, userID, guildID string, c domain.Currency, amount int64) (*TransferResult, error)
	Withdraw(ctx context.Context, userID, guildID string, c domain.Currency, amount int64) (*TransferResult, error)
	// UpgradeTier pays the current tier's upgrade cost from the bank and
	// advances exactly one tier.
	UpgradeTier(ctx context.Context, userID, guildID string) (*UpgradeResult, error)
	GetBank(ctx context.Context, userID, guildID string) (*Info, error)
	// ApplyInterest credits interest to every account whose last payment is
	// at least one interest window before now. Safe to call more often.
	ApplyInterest(ctx context.Context, now time.Time) (*InterestRun, error)
}

type service struct {
	repo repository.Ledger
	cfg  *gameconfig.Config
	bus  event.Bus
	now  func() time.Time
}

// NewService creates a new bank service
func NewService(repo repository.Ledger, cfg *gameconfig.Config, bus event.Bus) Service {
	return &service{
		repo: repo,
		cfg:  cfg,
		bus:  bus,
		now:  time.Now,
	}
}

func validateTransfer(c domain.Currency, amount int64) error {
	if !c.Bankable() {
		return fmt.Errorf(ErrMsgNotBankableFmt, c, domain.ErrUnknownCurrency)
	}
	if amount <= 0 {
		return fmt.Errorf(ErrMsgInvalidAmountFmt, amount, domain.ErrInvalidAmount)
	}
	return nil
}

func (s *service) Deposit(ctx context.Context, userID, guildID string, c domain.Currency, amount int64) (*TransferResult, error) {
	if err := validateTransfer(c, amount); err != nil {
		return nil, err
	}

	res := &TransferResult{Currency: c, Requested: amount}
	err := s.inTx(ctx, userID, guildID, func(tx repository.LedgerTx, acct *domain.Account) error {
		if err := ledger.RequireFunds(acct, c, amount); err != nil {
			return err
		}
		tier, err := s.cfg.BankTier(acct.BankTier)
		if err != nil {
			return err
		}
		moved := min(amount, tier.Cap(c)-acct.BankBalance(c))
		if moved <= 0 {
			return fmt.Errorf(ErrMsgDestinationFullFmt, storageBank, c, domain.ErrDestinationFull)
		}

		acct.SetBalance(c, acct.Balance(c)-moved)
		acct.SetBankBalance(c, acct.BankBalance(c)+moved)
		res.AmountMoved = moved
		res.WalletBalance = acct.Balance(c)
		res.BankBalance = acct.BankBalance(c)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info(LogMsgDeposited, "user_id", userID, "guild_id", guildID, "currency", c, "requested", amount, "moved", res.AmountMoved)
	return res, nil
}

func (s *service) Withdraw(ctx context.Context, userID, guildID string, c domain.Currency, amount int64) (*TransferResult, error) {
	if err := validateTransfer(c, amount); err != nil {
		return nil, err
	}

	res := &TransferResult{Currency: c, Requested: amount}
	err := s.inTx(ctx, userID, guildID, func(tx repository.LedgerTx, acct *domain.Account) error {
		if err := ledger.RequireBankFunds(acct, c, amount); err != nil {
			return err
		}
		moved := min(amount, s.cfg.Global.CurrencyCap(c)-acct.Balance(c))
		if moved <= 0 {
			return fmt.Errorf(ErrMsgDestinationFullFmt, storageWallet, c, domain.ErrDestinationFull)
		}

		acct.SetBankBalance(c, acct.BankBalance(c)-moved)
		acct.SetBalance(c, acct.Balance(c)+moved)
		res.AmountMoved = moved
		res.WalletBalance = acct.Balance(c)
		res.BankBalance = acct.BankBalance(c)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info(LogMsgWithdrew, "user_id", userID, "guild_id", guildID, "currency", c, "requested", amount, "moved", res.AmountMoved)
	return res, nil
}

func (s *service) UpgradeTier(ctx context.Context, userID, guildID string) (*UpgradeResult, error) {
	var res *UpgradeResult
	err := s.inTx(ctx, userID, guildID, func(tx repository.LedgerTx, acct *domain.Account) error {
		current, err := s.cfg.BankTier(acct.BankTier)
		if err != nil {
			return err
		}
		if current.NextTier == nil {
			return fmt.Errorf(ErrMsgMaxTierFmt, current.Tier, domain.ErrMaxBankTier)
		}
		next, err := s.cfg.BankTier(*current.NextTier)
		if err != nil {
			return err
		}

		if err := ledger.RequireBankFunds(acct, domain.CurrencyCoins, current.UpgradeCostCoins); err != nil {
			return err
		}
		if err := ledger.RequireBankFunds(acct, domain.CurrencyGems, current.UpgradeCostGems); err != nil {
			return err
		}

		acct.BankCoins -= current.UpgradeCostCoins
		acct.BankGems -= current.UpgradeCostGems
		acct.BankTier = next.Tier
		res = &UpgradeResult{
			FromTier:  current.Tier,
			ToTier:    next.Tier,
			CostCoins: current.UpgradeCostCoins,
			CostGems:  current.UpgradeCostGems,
			Tier:      next,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info(LogMsgTierUpgraded, "user_id", userID, "guild_id", guildID, "from", res.FromTier, "to", res.ToTier)
	return res, nil
}

func (s *service) GetBank(ctx context.Context, userID, guildID string) (*Info, error) {
	acct, err := s.repo.GetAccount(ctx, userID, guildID)
	if errors.Is(err, domain.ErrAccountNotFound) {
		acct = domain.NewAccount(userID, guildID, 0, s.now())
	} else if err != nil {
		return nil, fmt.Errorf(ErrMsgGetAccountFailed, err)
	}

	tier, err := s.cfg.BankTier(acct.BankTier)
	if err != nil {
		return nil, err
	}
	info := &Info{Tier: tier, BankCoins: acct.BankCoins, BankGems: acct.BankGems}
	if tier.NextTier != nil {
		if next, err := s.cfg.BankTier(*tier.NextTier); err == nil {
			info.Next = &next
		}
	}
	return info, nil
}

type interestPayment struct {
	currency   domain.Currency
	amount     int64
	newBalance int64
}

func (s *service) ApplyInterest(ctx context.Context, now time.Time) (*InterestRun, error) {
	log := logger.FromContext(ctx)
	window := s.cfg.Global.InterestWindow()

	keys, err := s.repo.ListInterestDue(ctx, now.Add(-window))
	if err != nil {
		return nil, fmt.Errorf(ErrMsgListInterestDueFailed, err)
	}

	run := &InterestRun{}
	var errs []error
	for _, key := range keys {
		var paid []interestPayment
		due := false
		err := s.inTx(ctx, key.UserID, key.GuildID, func(tx repository.LedgerTx, acct *domain.Account) error {
			if !acct.LastInterestAt.IsZero() && now.Sub(acct.LastInterestAt) < window {
				return nil
			}
			due = true

			tier, err := s.cfg.BankTier(acct.BankTier)
			if err != nil {
				return err
			}
			for _, c := range []domain.Currency{domain.CurrencyCoins, domain.CurrencyGems} {
				interest := Interest(acct.BankBalance(c), tier.InterestRate)
				if interest <= 0 {
					continue
				}
				balance, added := ledger.CappedAdd(acct.Balance(c), interest, s.cfg.Global.CurrencyCap(c))
				acct.SetBalance(c, balance)
				if added < interest {
					metrics.CapTruncations.WithLabelValues(string(c)).Inc()
				}
				paid = append(paid, interestPayment{currency: c, amount: added, newBalance: balance})
			}
			acct.LastInterestAt = now
			return nil
		})
		if err != nil {
			log.Warn(LogMsgInterestFailed, "user_id", key.UserID, "guild_id", key.GuildID, "error", err)
			errs = append(errs, err)
			continue
		}
		if !due {
			continue
		}

		run.Accounts++
		for _, p := range paid {
			switch p.currency {
			case domain.CurrencyCoins:
				run.Coins += p.amount
			case domain.CurrencyGems:
				run.Gems += p.amount
			}
			log.Debug(LogMsgInterestCredited, "user_id", key.UserID, "guild_id", key.GuildID, "currency", p.currency, "amount", p.amount)
			s.publish(ctx, event.NewInterestCreditedEvent(key.UserID, key.GuildID, p.currency, p.amount, p.newBalance))
		}
	}

	log.Info(LogMsgInterestRun, "accounts", run.Accounts, "coins", run.Coins, "gems", run.Gems)
	return run, errors.Join(errs...)
}

// inTx locks the account, runs fn and commits.
func (s *service) inTx(ctx context.Context, userID, guildID string, fn func(tx repository.LedgerTx, acct *domain.Account) error) error {
	log := logger.FromContext(ctx)

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf(ErrMsgBeginTransactionFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	acct, err := tx.GetAccountForUpdate(ctx, userID, guildID)
	if err != nil {
		return fmt.Errorf(ErrMsgGetAccountFailed, err)
	}
	if err := fn(tx, acct); err != nil {
		return err
	}

	acct.UpdatedAt = s.now()
	if err := tx.UpdateAccount(ctx, acct); err != nil {
		metrics.TransactionFailures.WithLabelValues("bank").Inc()
		log.Error(LogMsgTransactionFailed, "critical", true, "user_id", userID, "guild_id", guildID, "error", err)
		return fmt.Errorf("%w: %w", domain.ErrTransactionFailed, fmt.Errorf(ErrMsgUpdateAccountFailed, err))
	}
	if err := tx.Commit(ctx); err != nil {
		metrics.TransactionFailures.WithLabelValues("bank").Inc()
		log.Error(LogMsgTransactionFailed, "critical", true, "user_id", userID, "guild_id", guildID, "error", err)
		return fmt.Errorf("%w: %w", domain.ErrTransactionFailed, fmt.Errorf(ErrMsgCommitTransactionFailed, err))
	}
	return nil
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "event_type", evt.Type, "error", err)
	}
}
