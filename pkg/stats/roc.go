package stats

import "sort"

// AUC computes the rank-based separation between two samples: the
// probability that a randomly drawn value from sample2 exceeds one drawn
// from sample1, with ties counted as one half. This is the Mann-Whitney
// U statistic normalized by the sample-size product; values near 0.5
// mean no separation. Returns ok=false when either sample is empty
// rather than producing NaN.
func AUC(sample1, sample2 []float64) (auc float64, ok bool) {
	if len(sample1) == 0 || len(sample2) == 0 {
		return 0, false
	}
	a := make([]float64, len(sample1))
	b := make([]float64, len(sample2))
	copy(a, sample1)
	copy(b, sample2)
	sort.Float64s(a)
	sort.Float64s(b)

	var wins float64
	iLess, iLessEq := 0, 0
	for _, v := range b {
		for iLess < len(a) && a[iLess] < v {
			iLess++
		}
		if iLessEq < iLess {
			iLessEq = iLess
		}
		for iLessEq < len(a) && a[iLessEq] <= v {
			iLessEq++
		}
		wins += float64(iLess) + 0.5*float64(iLessEq-iLess)
	}
	return wins / (float64(len(a)) * float64(len(b))), true
}

// HistogramAUC computes the same statistic from two aligned count
// histograms, as used for the per-axis coordinate ROC: bin index is the
// value, counts are multiplicities.
func HistogramAUC(counts1, counts2 []int) (auc float64, ok bool) {
	var n1, n2 int
	for _, c := range counts1 {
		n1 += c
	}
	for _, c := range counts2 {
		n2 += c
	}
	if n1 == 0 || n2 == 0 {
		return 0, false
	}

	var wins, below float64
	for i, c2 := range counts2 {
		var c1 int
		if i < len(counts1) {
			c1 = counts1[i]
		}
		wins += float64(c2) * (below + 0.5*float64(c1))
		below += float64(c1)
	}
	return wins / (float64(n1) * float64(n2)), true
}
