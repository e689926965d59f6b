// Package assignment solves the linear sum assignment problem over small
// dense cost matrices, used to pair assertion logs when diffing results.
// It wraps github.com/arthurkushman/go-hungarian, which maximizes profit;
// costs are converted by subtracting them from a constant.
package assignment

import (
	hungarian "github.com/arthurkushman/go-hungarian"
)

// Pair is one accepted row/column assignment.
type Pair struct {
	Row int
	Col int
}

// Solve finds the minimum-cost pairing between rows and columns of cost,
// rejecting pairs whose cost exceeds maxCost. Rectangular matrices are
// padded to square internally. It returns the accepted pairs plus the
// unmatched row and column indices.
func Solve(cost [][]float64, maxCost float64) (pairs []Pair, freeRows, freeCols []int) {
	numRows := len(cost)
	if numRows == 0 {
		return nil, nil, nil
	}
	numCols := len(cost[0])
	if numCols == 0 {
		freeRows = make([]int, numRows)
		for i := range freeRows {
			freeRows[i] = i
		}
		return nil, freeRows, nil
	}

	// The solver maximizes; shift costs into profits. The shift constant
	// only needs to exceed every real cost.
	shift := maxCost + 1
	for i := range cost {
		for j := range cost[i] {
			if cost[i][j] > shift {
				shift = cost[i][j] + 1
			}
		}
	}

	size := numRows
	if numCols > size {
		size = numCols
	}
	profit := make([][]float64, size)
	for i := range profit {
		profit[i] = make([]float64, size)
		for j := range profit[i] {
			if i < numRows && j < numCols {
				profit[i][j] = shift - cost[i][j]
			}
		}
	}

	solved := hungarian.SolveMax(profit)

	matchedRows := make(map[int]bool, numRows)
	matchedCols := make(map[int]bool, numCols)
	for row, cols := range solved {
		for col, p := range cols {
			if row >= numRows || col >= numCols {
				continue
			}
			if shift-p > maxCost {
				continue
			}
			pairs = append(pairs, Pair{Row: row, Col: col})
			matchedRows[row] = true
			matchedCols[col] = true
		}
	}

	for i := 0; i < numRows; i++ {
		if !matchedRows[i] {
			freeRows = append(freeRows, i)
		}
	}
	for j := 0; j < numCols; j++ {
		if !matchedCols[j] {
			freeCols = append(freeCols, j)
		}
	}
	return pairs, freeRows, freeCols
}
