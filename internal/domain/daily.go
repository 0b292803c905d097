package domain

// DailyRewardKind discriminates generated daily rewards.
type DailyRewardKind string

const (
	DailyRewardCurrency DailyRewardKind = "currency"
	DailyRewardItem     DailyRewardKind = "item"
)

// DailyRewardSlots is the number of upcoming rewards kept per account.
const DailyRewardSlots = 3

// DailyReward is one of the upcoming reward slots (Day 1..3).
type DailyReward struct {
	Day    int             `json:"day"`
	Kind   DailyRewardKind `json:"kind"`
	ID     string          `json:"id"`
	Amount int64           `json:"amount"`
}
