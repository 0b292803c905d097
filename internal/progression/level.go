package progression

import (
	"sort"

	"github.com/osse101/EconomyBot_Go/internal/gameconfig"
)

// Curve is the linear level curve: leaving level L costs Base + L*Increment XP.
type Curve struct {
	Base      int64
	Increment int64
	MaxLevel  int
}

// CurveFromConfig reads the curve from the global settings.
func CurveFromConfig(g gameconfig.GlobalSettings) Curve {
	return Curve{Base: g.LevelUpBaseXP, Increment: g.LevelUpXPIncrement, MaxLevel: g.MaxLevel}
}

// Requirement is the XP needed to advance from level to level+1.
func (c Curve) Requirement(level int) int64 {
	return c.Base + int64(level)*c.Increment
}

// Apply adds amount to the (level, xp) pair, carrying overflow across as
// many levels as it covers. At MaxLevel the residual XP is discarded. With
// allowNegative a negative amount walks levels back down, borrowing each
// lower level's requirement; XP never ends below zero. Without it a
// negative amount is ignored.
func (c Curve) Apply(level int, xp, amount int64, allowNegative bool) (int, int64) {
	if amount < 0 && !allowNegative {
		amount = 0
	}

	xp += amount
	for level < c.MaxLevel && xp >= c.Requirement(level) {
		xp -= c.Requirement(level)
		level++
	}
	if level >= c.MaxLevel {
		return c.MaxLevel, 0
	}

	for xp < 0 && level > 0 {
		level--
		xp += c.Requirement(level)
	}
	if xp < 0 {
		xp = 0
	}
	return level, xp
}

// RoleDiff lists the external roles to grant and revoke.
type RoleDiff struct {
	Added   []string `json:"added,omitempty"`
	Removed []string `json:"removed,omitempty"`
}

// Empty reports whether there is nothing to sync.
func (d RoleDiff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0
}

// EarnedRoles returns the level roles whose threshold is at or below level.
func EarnedRoles(roles []gameconfig.LevelRole, level int) []string {
	var out []string
	for _, r := range roles {
		if r.Level <= level {
			out = append(out, r.RoleID)
		}
	}
	sort.Strings(out)
	return out
}

// ReconcileRoles compares the level roles a member holds against the set
// their level earns. Roles that are not level roles are never touched.
func ReconcileRoles(roles []gameconfig.LevelRole, level int, held []string) RoleDiff {
	earned := make(map[string]bool, len(roles))
	for _, id := range EarnedRoles(roles, level) {
		earned[id] = true
	}
	heldSet := make(map[string]bool, len(held))
	for _, id := range held {
		heldSet[id] = true
	}

	var diff RoleDiff
	for _, r := range roles {
		switch {
		case earned[r.RoleID] && !heldSet[r.RoleID]:
			diff.Added = append(diff.Added, r.RoleID)
		case !earned[r.RoleID] && heldSet[r.RoleID]:
			diff.Removed = append(diff.Removed, r.RoleID)
		}
	}
	sort.Strings(diff.Added)
	sort.Strings(diff.Removed)
	return diff
}
