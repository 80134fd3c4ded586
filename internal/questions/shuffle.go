package questions

import "math/rand"

// Shuffle permutes items in place using Fisher-Yates.
func Shuffle[T any](r *rand.Rand, items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}

// Sample returns up to n elements drawn without replacement from items.
// The input slice is not modified.
func Sample[T any](r *rand.Rand, items []T, n int) []T {
	out := make([]T, len(items))
	copy(out, items)
	Shuffle(r, out)
	if n < len(out) {
		out = out[:n]
	}
	return out
}
