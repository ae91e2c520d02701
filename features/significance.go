package features

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// PValue computes the two-sided p-value of a Welch-style t statistic
// comparing a treatment sample against a negative-control sample. The
// degrees of freedom follow the pooled convention (nA+nB-2) used throughout
// the JUMP significance analyses.
func PValue(treatment, control []float64) (float64, error) {
	nA, nB := len(treatment), len(control)
	if nA < 2 || nB < 2 {
		return 0, fmt.Errorf("need at least 2 observations per group, got %d and %d", nA, nB)
	}

	meanA := stat.Mean(treatment, nil)
	meanB := stat.Mean(control, nil)
	sdA := stat.StdDev(treatment, nil)
	sdB := stat.StdDev(control, nil)

	seA := sdA / math.Sqrt(float64(nA))
	seB := sdB / math.Sqrt(float64(nB))
	sed := math.Sqrt(seA*seA + seB*seB)

	if sed == 0 {
		if meanA == meanB {
			return 1, nil
		}
		return 0, nil
	}

	tStat := (meanA - meanB) / sed

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(nA + nB - 2)}
	return 2 * dist.CDF(-math.Abs(tStat)), nil
}

// AdjustBH applies the Benjamini-Hochberg false discovery rate correction
// and returns the adjusted p-values in the input order.
func AdjustBH(pvals []float64) []float64 {
	n := len(pvals)
	if n == 0 {
		return nil
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return pvals[order[i]] < pvals[order[j]] })

	adjusted := make([]float64, n)
	minSoFar := math.Inf(1)
	for rank := n - 1; rank >= 0; rank-- {
		idx := order[rank]
		adj := pvals[idx] * float64(n) / float64(rank+1)
		if adj < minSoFar {
			minSoFar = adj
		}
		if minSoFar > 1 {
			adjusted[idx] = 1
		} else {
			adjusted[idx] = minSoFar
		}
	}

	return adjusted
}

// SamplePerPlate returns the indices of up to perPlate elements for each
// distinct plate, chosen with a seeded shuffle so runs are reproducible.
// The negative controls vastly outnumber treatments, so significance tests
// subsample them per plate.
func SamplePerPlate(plates []string, perPlate int, seed int64) []int {
	if perPlate <= 0 {
		out := make([]int, len(plates))
		for i := range out {
			out[i] = i
		}
		return out
	}

	byPlate := map[string][]int{}
	var plateNames []string
	for i, plate := range plates {
		if _, seen := byPlate[plate]; !seen {
			plateNames = append(plateNames, plate)
		}
		byPlate[plate] = append(byPlate[plate], i)
	}
	sort.Strings(plateNames)

	rng := rand.New(rand.NewSource(seed))

	var out []int
	for _, plate := range plateNames {
		idx := byPlate[plate]
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })

		take := perPlate
		if take > len(idx) {
			take = len(idx)
		}
		out = append(out, idx[:take]...)
	}
	sort.Ints(out)

	return out
}
