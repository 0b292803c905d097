package lootbox

// RollWeighted picks one entry with probability proportional to its weight.
// Non-positive weights are ignored. When no entry has a positive weight the
// pick falls back to a uniform choice, and an empty slice yields ok=false.
// rnd must return values in [0,1).
func RollWeighted[T any](entries []T, weight func(T) float64, rnd func() float64) (picked T, ok bool) {
	if len(entries) == 0 {
		return picked, false
	}

	total := TotalWeight(entries, weight)
	if total <= 0 {
		idx := int(rnd() * float64(len(entries)))
		if idx >= len(entries) {
			idx = len(entries) - 1
		}
		return entries[idx], true
	}

	draw := rnd() * total
	var cumulative float64
	last := -1
	for i, e := range entries {
		w := weight(e)
		if w <= 0 {
			continue
		}
		cumulative += w
		last = i
		if cumulative >= draw {
			return e, true
		}
	}
	// float drift: the draw landed past the final cumulative sum
	return entries[last], true
}

// TotalWeight sums the positive weights of entries.
func TotalWeight[T any](entries []T, weight func(T) float64) float64 {
	var total float64
	for _, e := range entries {
		if w := weight(e); w > 0 {
			total += w
		}
	}
	return total
}

// Share is the normalized probability of an entry with weight w out of total.
func Share(w, total float64) float64 {
	if total <= 0 || w <= 0 {
		return 0
	}
	return w / total
}
