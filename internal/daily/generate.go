package daily

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/osse101/EconomyBot_Go/internal/domain"
	"github.com/osse101/EconomyBot_Go/internal/gameconfig"
	"github.com/osse101/EconomyBot_Go/internal/lootbox"
	"github.com/osse101/EconomyBot_Go/internal/utils"
)

// ItemOdd is the pick probability of one daily item candidate.
type ItemOdd struct {
	ItemID      string  `json:"item_id"`
	Probability float64 `json:"probability"`
}

func itemWeight(o ItemOdd) float64 { return o.Probability }

func currencyWeight(o gameconfig.DailyCurrencyOption) float64 { return o.Probability }

// StreakLuck is the fractional boost applied to rare daily items.
func StreakLuck(d gameconfig.DailySettings, streak int) float64 {
	return math.Min(d.MaxStreakLuck, float64(streak)*d.StreakLuckPerDay)
}

// ItemOdds returns the normalized pick probabilities of the daily item pool
// for a streak. Rare entries are scaled by 1+luck and the base entry takes
// whatever mass is left, never below zero.
func ItemOdds(d gameconfig.DailySettings, streak int) []ItemOdd {
	var total float64
	for _, e := range d.ItemPool {
		total += e.Probability
	}
	if total <= 0 {
		return nil
	}

	luck := StreakLuck(d, streak)
	out := make([]ItemOdd, len(d.ItemPool))
	base := -1
	var rare float64
	for i, e := range d.ItemPool {
		out[i].ItemID = e.ItemID
		if e.Base {
			base = i
			out[i].Probability = e.Probability / total
			continue
		}
		out[i].Probability = e.Probability / total * (1 + luck)
		rare += out[i].Probability
	}
	if base >= 0 {
		out[base].Probability = math.Max(0, 1-rare)
	}

	var sum float64
	for _, w := range out {
		sum += w.Probability
	}
	if sum > 0 {
		for i := range out {
			out[i].Probability /= sum
		}
	}
	return out
}

// Generate rolls one daily reward for the given streak.
func Generate(d gameconfig.DailySettings, streak int, rnd func() float64) (domain.DailyReward, error) {
	if rnd() < d.ItemChance {
		pick, ok := lootbox.RollWeighted(ItemOdds(d, streak), itemWeight, rnd)
		if !ok {
			return domain.DailyReward{}, fmt.Errorf(ErrMsgEmptyPoolFmt, "item", domain.ErrInvalidConfiguration)
		}
		return domain.DailyReward{Kind: domain.DailyRewardItem, ID: pick.ItemID, Amount: 1}, nil
	}

	opt, ok := lootbox.RollWeighted(d.CurrencyPool, currencyWeight, rnd)
	if !ok {
		return domain.DailyReward{}, fmt.Errorf(ErrMsgEmptyPoolFmt, "currency", domain.ErrInvalidConfiguration)
	}
	return domain.DailyReward{
		Kind:   domain.DailyRewardCurrency,
		ID:     string(opt.Currency),
		Amount: utils.UniformInt64(rnd(), opt.Min, opt.Max),
	}, nil
}

// StreakAmount scales a currency reward by the streak held before the
// claim. Premium currency is paid as rolled.
func StreakAmount(d gameconfig.DailySettings, reward domain.DailyReward, priorStreak int) int64 {
	if reward.ID == string(domain.CurrencyRobux) {
		return reward.Amount
	}
	boost := decimal.NewFromInt(1).Add(decimal.NewFromInt(int64(priorStreak)).Mul(decimal.NewFromFloat(d.StreakMultiplierPerDay)))
	return decimal.NewFromInt(reward.Amount).Mul(boost).Ceil().IntPart()
}

// RestoreCost is the gem price of restoring a lost streak of n days.
func RestoreCost(d gameconfig.DailySettings, n int) int64 {
	if n <= 0 {
		return 0
	}
	return int64(math.Ceil(d.RestoreBaseCost * math.Pow(d.RestoreGrowth, float64(n-1))))
}
