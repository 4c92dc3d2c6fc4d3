// Package trajectory implements the day loop's post-step and snapshot
// phases (C7, §4.7 steps 6-8): invoke the post-step hook, conditionally
// refresh a node's rates from scratch, and write the current state into the
// dense or sparse output buffers for every tspan point that has just been
// crossed. The continuous-buffer swap (step 9) is not done here;
// driver.Run copies v_new into v after each snapshot. The dense-vs-sparse
// branch and the "accumulate output rows as we go" shape is grounded on the
// teacher's internal/simulation.Histogram, which likewise buffers results
// incrementally across many trials rather than recomputing the whole
// distribution at the end.
package trajectory

import (
	"metasim/internal/errset"
	"metasim/internal/propensity"
	"metasim/internal/sparse"
	"metasim/internal/ssa"
)

// DenseOutput holds contiguous U/V snapshot buffers, one Nn*Nc (or Nn*Nd)
// block per output time point.
type DenseOutput struct {
	Nn, Nc, Nd int
	Tlen       int
	U          []int     // Nn*Nc*Tlen
	V          []float64 // Nn*Nd*Tlen
}

// NewDenseOutput allocates output buffers sized for tlen snapshots.
func NewDenseOutput(nn, nc, nd, tlen int) *DenseOutput {
	return &DenseOutput{
		Nn: nn, Nc: nc, Nd: nd, Tlen: tlen,
		U: make([]int, nn*nc*tlen),
		V: make([]float64, nn*nd*tlen),
	}
}

func (d *DenseOutput) writeU(it int, u []int) {
	copy(d.U[it*d.Nn*d.Nc:(it+1)*d.Nn*d.Nc], u)
}

func (d *DenseOutput) writeV(it int, v []float64) {
	copy(d.V[it*d.Nn*d.Nd:(it+1)*d.Nn*d.Nd], v)
}

// SparseOutput scatters snapshot entries into prU/prV under skeleton column
// pointers supplied by the binding layer (USkel/VSkel, §3). Per §4.7 step 8
// and §6, USkel/VSkel carry one column per output time point: column `it`
// lists the flat (node*Nc+compartment) row indices selected for snapshot
// `it`, and `jc`/`ir` partition the whole PrU/PrV buffer by time point, so
// each entry is written exactly once, at its own column's jc-relative
// offset — not reused across time points.
type SparseOutput struct {
	USkel, VSkel *sparse.CSC
	PrU          []int     // len(USkel.Ir) entries total, partitioned by USkel.Jc
	PrV          []float64 // len(VSkel.Ir) entries total, partitioned by VSkel.Jc
	Tlen         int
}

// NewSparseOutput allocates value buffers matching the given skeletons.
func NewSparseOutput(uSkel, vSkel *sparse.CSC, tlen int) *SparseOutput {
	s := &SparseOutput{USkel: uSkel, VSkel: vSkel, Tlen: tlen}
	if !uSkel.Empty() {
		s.PrU = make([]int, len(uSkel.Ir))
	}
	if !vSkel.Empty() {
		s.PrV = make([]float64, len(vSkel.Ir))
	}
	return s
}

func (s *SparseOutput) writeU(it int, u []int) {
	if s.USkel.Empty() || it >= s.USkel.Cols {
		return
	}
	rows, _ := s.USkel.Column(it)
	base := s.USkel.Jc[it]
	for i, r := range rows {
		s.PrU[base+i] = u[r]
	}
}

func (s *SparseOutput) writeV(it int, v []float64) {
	if s.VSkel.Empty() || it >= s.VSkel.Cols {
		return
	}
	rows, _ := s.VSkel.Column(it)
	base := s.VSkel.Jc[it]
	for i, r := range rows {
		s.PrV[base+i] = v[r]
	}
}

// Writer bundles whichever output representation the model requested.
// Exactly one of Dense or Sparse is non-nil.
type Writer struct {
	Dense  *DenseOutput
	Sparse *SparseOutput
}

// Snapshot writes one output row (all nodes) for output index it, per §6
// "snapshot column k holds the state after tspan[k] has been reached".
func (w *Writer) Snapshot(it int, u []int, v []float64) {
	if w.Dense != nil {
		w.Dense.writeU(it, u)
		w.Dense.writeV(it, v)
	}
	if w.Sparse != nil {
		w.Sparse.writeU(it, u)
		w.Sparse.writeV(it, v)
	}
}

// PostStepNode runs step 6 of §4.7 for a single node: invoke the post-step
// hook to refresh v_new, then recompute the node's rates from scratch if
// the hook demanded it or the node was touched by E1/E2. It reports
// whether a from-scratch refresh happened, for metrics.AddRateRefresh.
func PostStepNode(
	node int,
	eng *ssa.Engine,
	rc *ssa.RateCache,
	vNew []float64,
	uNode []int,
	vNode []float64,
	ldataNode, gdata []float64,
	nodeGlobalIndex int,
	t float64,
	hook propensity.PostStepFunc,
	updateNode []bool,
) (bool, error) {
	if hook == nil {
		hook = propensity.NoopPostStep
	}
	signal := hook(vNew, uNode, vNode, ldataNode, gdata, nodeGlobalIndex, t)
	if signal == propensity.PostStepFailed {
		return false, errset.New(errset.ALLOC_MEMORY_BUFFER, "post-step hook reported failure")
	}

	refreshed := false
	if signal == propensity.PostStepForceRefresh || updateNode[node] {
		refreshed = true
		if err := eng.Reseed(node, t); err != nil {
			return false, err
		}
	}
	updateNode[node] = false
	return refreshed, nil
}
