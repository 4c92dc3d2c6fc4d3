// Package sparse implements the compressed-column matrices the engine reads
// the state-change, dependency-graph, event-select and shift tables from
// (§3 of the specification). There is no general-purpose sparse-matrix
// dependency in the example corpus, so this is a minimal, purpose-built
// reader: columns are iterated, never resliced or algebraically combined.
package sparse

import "fmt"

// CSC is a compressed-sparse-column integer matrix: column j's entries are
// Ir[Jc[j]:Jc[j+1]] (row indices) and Pr[Jc[j]:Jc[j+1]] (values).
type CSC struct {
	Rows int
	Cols int
	Ir   []int
	Jc   []int
	Pr   []int
}

// New validates and wraps the three parallel arrays Jc/Ir/Pr describe.
func New(rows, cols int, ir, jc, pr []int) (*CSC, error) {
	if cols < 0 || rows < 0 {
		return nil, fmt.Errorf("sparse: negative dimension rows=%d cols=%d", rows, cols)
	}
	if len(jc) != cols+1 {
		return nil, fmt.Errorf("sparse: jc length %d, want %d", len(jc), cols+1)
	}
	if len(ir) != len(pr) {
		return nil, fmt.Errorf("sparse: ir/pr length mismatch %d != %d", len(ir), len(pr))
	}
	for j := 0; j < cols; j++ {
		if jc[j] > jc[j+1] {
			return nil, fmt.Errorf("sparse: jc not monotonic at column %d", j)
		}
	}
	if cols > 0 && jc[cols] != len(ir) {
		return nil, fmt.Errorf("sparse: jc[cols]=%d does not cover ir length %d", jc[cols], len(ir))
	}
	for _, r := range ir {
		if r < 0 || r >= rows {
			return nil, fmt.Errorf("sparse: row index %d out of range [0,%d)", r, rows)
		}
	}
	return &CSC{Rows: rows, Cols: cols, Ir: ir, Jc: jc, Pr: pr}, nil
}

// Column returns the row indices and values of column j without copying.
func (m *CSC) Column(j int) (rows []int, values []int) {
	lo, hi := m.Jc[j], m.Jc[j+1]
	return m.Ir[lo:hi], m.Pr[lo:hi]
}

// Len returns the number of non-zero entries in column j.
func (m *CSC) Len(j int) int {
	return m.Jc[j+1] - m.Jc[j]
}

// At returns the value stored at (row, col), or 0 if the entry is absent.
func (m *CSC) At(row, col int) int {
	rows, values := m.Column(col)
	for i, r := range rows {
		if r == row {
			return values[i]
		}
	}
	return 0
}

// Empty reports whether matrix m has zero columns or a nil backing, which
// the engine treats as "feature unused" (e.g. no sparse output requested).
func (m *CSC) Empty() bool {
	return m == nil || m.Cols == 0
}
