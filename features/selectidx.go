package features

import "sort"

// EdgeIndices returns, for each row of mat, the column indices of the n
// smallest and n largest values, in ascending value order. The paired xs
// slice repeats the row index so (xs[i], ys[i]) addresses one selected cell.
// Rows narrower than 2n contribute all of their columns.
func EdgeIndices(mat [][]float64, n int) (xs, ys []int) {
	for row, vals := range mat {
		order := make([]int, len(vals))
		for i := range order {
			order[i] = i
		}
		sort.Slice(order, func(i, j int) bool { return vals[order[i]] < vals[order[j]] })

		var selected []int
		if len(order) <= 2*n {
			selected = order
		} else {
			selected = append(selected, order[:n]...)
			selected = append(selected, order[len(order)-n:]...)
		}

		for _, col := range selected {
			xs = append(xs, row)
			ys = append(ys, col)
		}
	}

	return xs, ys
}
