package inference

import "sort"

// Multiple-testing corrections are an explicit step applied to a vector of
// raw p-values. The significance test itself never applies them.

// Bonferroni returns FWER-adjusted p-values: p_i * m, capped at 1.
func Bonferroni(pvalues []float64) []float64 {
	m := float64(len(pvalues))
	adjusted := make([]float64, len(pvalues))
	for i, p := range pvalues {
		adjusted[i] = min1(p * m)
	}
	return adjusted
}

// BenjaminiHochberg returns FDR-adjusted p-values (q-values) using the
// step-up procedure. Output order matches input order.
func BenjaminiHochberg(pvalues []float64) []float64 {
	m := len(pvalues)
	if m == 0 {
		return nil
	}

	order := make([]int, m)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return pvalues[order[a]] < pvalues[order[b]]
	})

	adjusted := make([]float64, m)

	// Walk from the largest p-value down, enforcing monotonicity.
	running := 1.0
	for rank := m - 1; rank >= 0; rank-- {
		idx := order[rank]
		q := pvalues[idx] * float64(m) / float64(rank+1)
		if q < running {
			running = q
		}
		adjusted[idx] = min1(running)
	}

	return adjusted
}

// RejectedAt returns the indices whose adjusted p-value is at or below the
// given level, in input order.
func RejectedAt(adjusted []float64, level float64) []int {
	var rejected []int
	for i, q := range adjusted {
		if q <= level {
			rejected = append(rejected, i)
		}
	}
	return rejected
}

func min1(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}
