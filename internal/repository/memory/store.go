// Package memory is an in-process implementation of the repository
// interfaces. Transactions are serialized behind a single lock and operate on
// a copy of the data that replaces the live state on Commit.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/osse101/EconomyBot_Go/internal/domain"
	"github.com/osse101/EconomyBot_Go/internal/repository"
)

var errTxClosed = errors.New(domain.ErrMsgTxClosed)

type invKey struct {
	domain.AccountKey
	ItemID string
}

type state struct {
	accounts     map[domain.AccountKey]domain.Account
	inventory    map[invKey]domain.InventoryEntry
	charms       []domain.ActiveCharm
	daily        map[domain.AccountKey][]domain.DailyReward
	slots        map[string][]domain.ShopSlot
	shopSettings map[string]domain.ShopSettings
	guilds       map[string]domain.GuildSettings
	nextCharmID  int64
}

func newState() *state {
	return &state{
		accounts:     map[domain.AccountKey]domain.Account{},
		inventory:    map[invKey]domain.InventoryEntry{},
		daily:        map[domain.AccountKey][]domain.DailyReward{},
		slots:        map[string][]domain.ShopSlot{},
		shopSettings: map[string]domain.ShopSettings{},
		guilds:       map[string]domain.GuildSettings{},
		nextCharmID:  1,
	}
}

func (s *state) clone() *state {
	c := &state{
		accounts:     make(map[domain.AccountKey]domain.Account, len(s.accounts)),
		inventory:    make(map[invKey]domain.InventoryEntry, len(s.inventory)),
		charms:       append([]domain.ActiveCharm(nil), s.charms...),
		daily:        make(map[domain.AccountKey][]domain.DailyReward, len(s.daily)),
		slots:        make(map[string][]domain.ShopSlot, len(s.slots)),
		shopSettings: make(map[string]domain.ShopSettings, len(s.shopSettings)),
		guilds:       make(map[string]domain.GuildSettings, len(s.guilds)),
		nextCharmID:  s.nextCharmID,
	}
	for k, v := range s.accounts {
		v.MutedAlertItems = append([]string(nil), v.MutedAlertItems...)
		c.accounts[k] = v
	}
	for k, v := range s.inventory {
		c.inventory[k] = v
	}
	for k, v := range s.daily {
		c.daily[k] = append([]domain.DailyReward(nil), v...)
	}
	for k, v := range s.slots {
		c.slots[k] = append([]domain.ShopSlot(nil), v...)
	}
	for k, v := range s.shopSettings {
		c.shopSettings[k] = v
	}
	for k, v := range s.guilds {
		c.guilds[k] = v
	}
	return c
}

// Store implements repository.Ledger, repository.Shop and repository.Guild.
type Store struct {
	txMu sync.Mutex

	mu   sync.RWMutex
	data *state

	alertThreshold int64
	now            func() time.Time
}

var (
	_ repository.Ledger = (*Store)(nil)
	_ repository.Shop   = (*Store)(nil)
	_ repository.Guild  = (*Store)(nil)
)

// NewStore returns an empty store. New accounts receive alertThreshold as
// their alert rarity threshold.
func NewStore(alertThreshold int64) *Store {
	return &Store{data: newState(), alertThreshold: alertThreshold, now: time.Now}
}

// PutAccount seeds or overwrites an account row.
func (s *Store) PutAccount(acct domain.Account) {
	s.write(func(st *state) { st.accounts[acct.Key()] = acct })
}

// PutShopSlots seeds a guild's shop.
func (s *Store) PutShopSlots(guildID string, slots []domain.ShopSlot) {
	s.write(func(st *state) { st.slots[guildID] = append([]domain.ShopSlot(nil), slots...) })
}

// write runs fn against the live state between transactions.
func (s *Store) write(fn func(st *state)) {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.data)
}

func (s *Store) GetAccount(ctx context.Context, userID, guildID string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acct, ok := s.data.accounts[domain.AccountKey{UserID: userID, GuildID: guildID}]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	acct.MutedAlertItems = append([]string(nil), acct.MutedAlertItems...)
	return &acct, nil
}

func (s *Store) GetInventory(ctx context.Context, userID, guildID string) ([]domain.InventoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return inventoryOf(s.data, userID, guildID), nil
}

func (s *Store) GetActiveCharms(ctx context.Context, userID, guildID string, now time.Time) ([]domain.ActiveCharm, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return activeCharmsOf(s.data, userID, guildID, now), nil
}

func (s *Store) GetDailyRewards(ctx context.Context, userID, guildID string) ([]domain.DailyReward, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.DailyReward(nil), s.data.daily[domain.AccountKey{UserID: userID, GuildID: guildID}]...), nil
}

func (s *Store) GetLeaderboard(ctx context.Context, guildID string, limit int) ([]domain.LeaderboardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.LeaderboardEntry
	for _, a := range s.data.accounts {
		if a.GuildID == guildID {
			out = append(out, domain.LeaderboardEntry{UserID: a.UserID, Level: a.Level, XP: a.XP})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Level != out[j].Level {
			return out[i].Level > out[j].Level
		}
		if out[i].XP != out[j].XP {
			return out[i].XP > out[j].XP
		}
		return out[i].UserID < out[j].UserID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) ListInterestDue(ctx context.Context, cutoff time.Time) ([]domain.AccountKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.AccountKey
	for k, a := range s.data.accounts {
		if !a.LastInterestAt.After(cutoff) {
			out = append(out, k)
		}
	}
	sortKeys(out)
	return out, nil
}

func (s *Store) ListLapsedStreaks(ctx context.Context, cutoff time.Time) ([]domain.AccountKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.AccountKey
	for k, a := range s.data.accounts {
		if a.DailyStreak > 0 && a.LastDailyClaimAt.Before(cutoff) {
			out = append(out, k)
		}
	}
	sortKeys(out)
	return out, nil
}

func (s *Store) DeleteExpiredCharms(ctx context.Context, now time.Time) (int64, error) {
	var removed int64
	s.write(func(st *state) {
		var kept []domain.ActiveCharm
		for _, c := range st.charms {
			if c.Active(now) {
				kept = append(kept, c)
				continue
			}
			removed++
		}
		st.charms = kept
	})
	return removed, nil
}

func (s *Store) GetShopSlots(ctx context.Context, guildID string) ([]domain.ShopSlot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.ShopSlot(nil), s.data.slots[guildID]...), nil
}

func (s *Store) GetShopSettings(ctx context.Context, guildID string) (*domain.ShopSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	settings, ok := s.data.shopSettings[guildID]
	if !ok {
		settings = domain.ShopSettings{GuildID: guildID}
	}
	return &settings, nil
}

func (s *Store) GetGuildSettings(ctx context.Context, guildID string) (*domain.GuildSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.data.guilds[guildID]
	if !ok {
		return nil, domain.ErrGuildSettingsNotFound
	}
	return &g, nil
}

func (s *Store) UpsertGuildSettings(ctx context.Context, settings *domain.GuildSettings) error {
	s.write(func(st *state) { st.guilds[settings.GuildID] = *settings })
	return nil
}

func (s *Store) ListGuildSettings(ctx context.Context) ([]domain.GuildSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.GuildSettings, 0, len(s.data.guilds))
	for _, g := range s.data.guilds {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GuildID < out[j].GuildID })
	return out, nil
}

func (s *Store) BeginTx(ctx context.Context) (repository.LedgerTx, error) {
	return s.begin(ctx)
}

func (s *Store) BeginShopTx(ctx context.Context) (repository.ShopTx, error) {
	return s.begin(ctx)
}

func (s *Store) begin(ctx context.Context) (*memTx, error) {
	s.txMu.Lock()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &memTx{store: s, data: s.data.clone()}, nil
}

func inventoryOf(st *state, userID, guildID string) []domain.InventoryEntry {
	var out []domain.InventoryEntry
	for k, e := range st.inventory {
		if k.UserID == userID && k.GuildID == guildID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out
}

func activeCharmsOf(st *state, userID, guildID string, now time.Time) []domain.ActiveCharm {
	var out []domain.ActiveCharm
	for _, c := range st.charms {
		if c.UserID == userID && c.GuildID == guildID && c.Active(now) {
			out = append(out, c)
		}
	}
	return out
}

func sortKeys(keys []domain.AccountKey) {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].GuildID != keys[j].GuildID {
			return keys[i].GuildID < keys[j].GuildID
		}
		return keys[i].UserID < keys[j].UserID
	})
}
