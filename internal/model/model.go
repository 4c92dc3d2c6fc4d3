// Package model holds the flat-array contract the driver consumes (§3, §6):
// wire-format DTOs as the host-language binding layer would hand them in,
// JSON-schema validation of that wire format, and the mapping into the
// zero-based domain Model the engine operates on. This is the one place
// the one-based/zero-based index convention crosses the boundary, modeled
// on how the teacher's internal/jira package separates IssueDTO (wire
// shape) from Issue (domain shape) with a dedicated MapIssue step.
package model

import (
	"fmt"

	"metasim/internal/propensity"
	"metasim/internal/sparse"
)

// Dims collects the sizes that govern every flat array (§3).
type Dims struct {
	Nn  int // nodes
	Nc  int // compartments per node
	Nt  int // transitions per node
	Nd  int // continuous variables per node
	Nld int // local-data doubles per node
}

// MassActionSpec is a concrete, optional collaborator wiring: when present
// for a transition, the driver builds that transition's propensity.Func
// via propensity.MassAction instead of requiring the caller to supply one.
type MassActionSpec struct {
	Transition   int // zero-based transition index
	Reactants    []int
	RateConstant float64
}

// EventBatch is the raw, columnar event record (§3) after wire parsing but
// before the splitter rebases node/dest/select/shift to zero-based. Event
// kind and time need no rebasing; they are not position-like.
type EventBatch struct {
	Event      []int
	Time       []int
	Node       []int // one-based, per the wire contract
	Dest       []int // one-based; meaningful only for EXTERNAL_TRANSFER
	N          []int
	Proportion []float64
	Select     []int // one-based column of E; 0 means "no selector"
	Shift      []int // one-based column of N; 0 means "no shift"
}

// Len returns the number of events in the batch.
func (b EventBatch) Len() int {
	return len(b.Event)
}

// Model is the domain-shaped, zero-based input to the driver.
type Model struct {
	Dims
	U0     []int
	V0     []float64
	LData  []float64
	GData  []float64
	Tspan  []float64
	S      *sparse.CSC
	G      *sparse.CSC
	E      *sparse.CSC
	N      *sparse.CSC
	USkel  *sparse.CSC // optional sparse output skeleton for U; nil => dense U
	VSkel  *sparse.CSC // optional sparse output skeleton for V; nil => dense V
	Events EventBatch

	Nthread   int
	Seed      int64
	Verbosity int

	MassAction []MassActionSpec
}

// Tlen is the number of output time points.
func (m *Model) Tlen() int { return len(m.Tspan) }

// Validate checks the structural invariants §3 assumes before the driver
// allocates any partition: dimension consistency between the flat arrays
// and the declared Dims, analogous to the Config.NewSimulation
// validation gate in the kentwait-contagion reference before a
// SequenceNodeEpidemic is constructed.
func (m *Model) Validate() error {
	if m.Nn <= 0 {
		return fmt.Errorf("model: Nn must be positive, got %d", m.Nn)
	}
	if m.Nc <= 0 {
		return fmt.Errorf("model: Nc must be positive, got %d", m.Nc)
	}
	if m.Nthread <= 0 {
		return fmt.Errorf("model: Nthread must be positive, got %d", m.Nthread)
	}
	if len(m.U0) != m.Nn*m.Nc {
		return fmt.Errorf("model: len(U0)=%d, want Nn*Nc=%d", len(m.U0), m.Nn*m.Nc)
	}
	if len(m.V0) != m.Nn*m.Nd {
		return fmt.Errorf("model: len(V0)=%d, want Nn*Nd=%d", len(m.V0), m.Nn*m.Nd)
	}
	if len(m.LData) != m.Nn*m.Nld {
		return fmt.Errorf("model: len(LData)=%d, want Nn*Nld=%d", len(m.LData), m.Nn*m.Nld)
	}
	if len(m.Tspan) == 0 {
		return fmt.Errorf("model: tspan must have at least one time point")
	}
	for i := 1; i < len(m.Tspan); i++ {
		if m.Tspan[i] < m.Tspan[i-1] {
			return fmt.Errorf("model: tspan must be non-decreasing at index %d", i)
		}
	}
	if m.S != nil && (m.S.Rows != m.Nc || m.S.Cols != m.Nt) {
		return fmt.Errorf("model: S is %dx%d, want %dx%d", m.S.Rows, m.S.Cols, m.Nc, m.Nt)
	}
	if m.G != nil && (m.G.Rows != m.Nt || m.G.Cols != m.Nt) {
		return fmt.Errorf("model: G is %dx%d, want %dx%d", m.G.Rows, m.G.Cols, m.Nt, m.Nt)
	}
	if m.E != nil && m.E.Rows != m.Nc {
		return fmt.Errorf("model: E has %d rows, want Nc=%d", m.E.Rows, m.Nc)
	}
	if m.N != nil && m.N.Rows != m.Nc {
		return fmt.Errorf("model: N has %d rows, want Nc=%d", m.N.Rows, m.Nc)
	}
	for _, ma := range m.MassAction {
		if ma.Transition < 0 || ma.Transition >= m.Nt {
			return fmt.Errorf("model: mass-action transition %d out of range [0,%d)", ma.Transition, m.Nt)
		}
		for _, c := range ma.Reactants {
			if c < 0 || c >= m.Nc {
				return fmt.Errorf("model: mass-action reactant compartment %d out of range [0,%d)", c, m.Nc)
			}
		}
	}
	el := m.Events.Len()
	for _, s := range [][]int{m.Events.Time, m.Events.Node, m.Events.Dest, m.Events.N, m.Events.Select, m.Events.Shift} {
		if len(s) != el {
			return fmt.Errorf("model: event columns have inconsistent length")
		}
	}
	if len(m.Events.Proportion) != el {
		return fmt.Errorf("model: event columns have inconsistent length")
	}
	return nil
}

// BuildPropensities materializes one propensity.Func per transition: a
// mass-action spec wins if present for that transition, otherwise the
// caller-supplied fallback is used (which may be nil only if every
// transition has a MassActionSpec).
func (m *Model) BuildPropensities(fallback []propensity.Func) ([]propensity.Func, error) {
	funcs := make([]propensity.Func, m.Nt)
	copy(funcs, fallback)
	for _, ma := range m.MassAction {
		funcs[ma.Transition] = propensity.MassAction(ma.Reactants, ma.RateConstant)
	}
	for i, f := range funcs {
		if f == nil {
			return nil, fmt.Errorf("model: no propensity function supplied for transition %d", i)
		}
	}
	return funcs, nil
}
