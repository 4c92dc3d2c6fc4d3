package model

// SparseDTO is the wire shape of a compressed-column matrix. Ir is
// one-based per §6; Jc is a zero-based prefix-sum of column sizes (it
// addresses offsets, not positions, so it is never rebased).
type SparseDTO struct {
	Rows int   `json:"rows"`
	Cols int   `json:"cols"`
	Ir   []int `json:"ir"`
	Jc   []int `json:"jc"`
	Pr   []int `json:"pr"`
}

// EventsDTO is the wire shape of the columnar event record (§3). Node,
// Dest, Select and Shift are one-based; Shift==0 means "no shift".
type EventsDTO struct {
	Event      []int     `json:"event"`
	Time       []int     `json:"time"`
	Node       []int     `json:"node"`
	Dest       []int     `json:"dest"`
	N          []int     `json:"n"`
	Proportion []float64 `json:"proportion"`
	Select     []int     `json:"select"`
	Shift      []int     `json:"shift"`
}

// MassActionDTO is a concrete, optional collaborator wiring for the CLI:
// Transition and Reactants are one-based on the wire, matching every other
// index in this package.
type MassActionDTO struct {
	Transition   int     `json:"transition"`
	Reactants    []int   `json:"reactants"`
	RateConstant float64 `json:"rateConstant"`
}

// ModelDTO is the full wire-format document a model JSON file or an
// in-process binding layer supplies (§6).
type ModelDTO struct {
	Nn  int `json:"nn"`
	Nc  int `json:"nc"`
	Nt  int `json:"nt"`
	Nd  int `json:"nd"`
	Nld int `json:"nld"`

	U0    []int     `json:"u0"`
	V0    []float64 `json:"v0"`
	LData []float64 `json:"ldata"`
	GData []float64 `json:"gdata"`
	Tspan []float64 `json:"tspan"`

	S *SparseDTO `json:"S"`
	G *SparseDTO `json:"G"`
	E *SparseDTO `json:"E"`
	N *SparseDTO `json:"N"`

	USparse *SparseDTO `json:"uSparse,omitempty"`
	VSparse *SparseDTO `json:"vSparse,omitempty"`

	Events EventsDTO `json:"events"`

	Nthread   int   `json:"nthread"`
	Seed      int64 `json:"seed"`
	Verbosity int   `json:"verbosity"`

	MassAction []MassActionDTO `json:"massAction,omitempty"`
}
