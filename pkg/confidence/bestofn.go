package confidence

import "math"

// BestOfN selects the index of the most representative output among
// candidates by token-overlap majority (spec.md §4.4): for each
// candidate, count how many of its tokens appear in at least ⌈50%⌉ of
// the OTHER candidates; the highest count wins, ties broken by lowest
// index. Returns -1 for an empty slice.
func BestOfN(candidates []string) int {
	n := len(candidates)
	if n == 0 {
		return -1
	}
	if n == 1 {
		return 0
	}

	sets := make([]map[string]struct{}, n)
	for i, c := range candidates {
		sets[i] = tokenSet(c)
	}

	threshold := int(math.Ceil(0.5 * float64(n-1)))

	best, bestCount := 0, -1
	for i := range sets {
		count := 0
		for tok := range sets[i] {
			appearsIn := 0
			for j := range sets {
				if j == i {
					continue
				}
				if _, ok := sets[j][tok]; ok {
					appearsIn++
				}
			}
			if appearsIn >= threshold {
				count++
			}
		}
		if count > bestCount {
			bestCount = count
			best = i
		}
	}
	return best
}
