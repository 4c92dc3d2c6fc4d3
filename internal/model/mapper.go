package model

import (
	"encoding/json"
	"fmt"

	"metasim/internal/sparse"
)

// ParseAndMap validates raw wire JSON, unmarshals it, and maps it into a
// domain Model. It is the metasim analogue of the teacher's MapIssue: a
// single function that takes the wire DTO across the boundary into the
// shape the rest of the program operates on.
func ParseAndMap(data []byte) (*Model, error) {
	if err := ValidateWire(data); err != nil {
		return nil, err
	}
	var dto ModelDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, fmt.Errorf("model: failed to unmarshal: %w", err)
	}
	return MapDTO(dto)
}

// MapDTO converts a wire-shaped ModelDTO into a zero-based domain Model.
// Sparse matrix row indices are rebased from one-based (wire) to
// zero-based (domain) here; event node/dest/select/shift columns are left
// one-based, since the event splitter (§4.3) is the component responsible
// for that rebase as part of partition assignment.
func MapDTO(dto ModelDTO) (*Model, error) {
	m := &Model{
		Dims: Dims{
			Nn:  dto.Nn,
			Nc:  dto.Nc,
			Nt:  dto.Nt,
			Nd:  dto.Nd,
			Nld: dto.Nld,
		},
		U0:        dto.U0,
		V0:        dto.V0,
		LData:     dto.LData,
		GData:     dto.GData,
		Tspan:     dto.Tspan,
		Nthread:   dto.Nthread,
		Seed:      dto.Seed,
		Verbosity: dto.Verbosity,
		Events: EventBatch{
			Event:      dto.Events.Event,
			Time:       dto.Events.Time,
			Node:       dto.Events.Node,
			Dest:       dto.Events.Dest,
			N:          dto.Events.N,
			Proportion: dto.Events.Proportion,
			Select:     dto.Events.Select,
			Shift:      dto.Events.Shift,
		},
	}

	var err error
	if m.S, err = mapSparse(dto.S); err != nil {
		return nil, fmt.Errorf("model: S: %w", err)
	}
	if m.G, err = mapSparse(dto.G); err != nil {
		return nil, fmt.Errorf("model: G: %w", err)
	}
	if m.E, err = mapSparse(dto.E); err != nil {
		return nil, fmt.Errorf("model: E: %w", err)
	}
	if m.N, err = mapSparse(dto.N); err != nil {
		return nil, fmt.Errorf("model: N: %w", err)
	}
	if m.USkel, err = mapSparse(dto.USparse); err != nil {
		return nil, fmt.Errorf("model: uSparse: %w", err)
	}
	if m.VSkel, err = mapSparse(dto.VSparse); err != nil {
		return nil, fmt.Errorf("model: vSparse: %w", err)
	}

	for _, ma := range dto.MassAction {
		reactants := make([]int, len(ma.Reactants))
		for i, c := range ma.Reactants {
			reactants[i] = c - 1
		}
		m.MassAction = append(m.MassAction, MassActionSpec{
			Transition:   ma.Transition - 1,
			Reactants:    reactants,
			RateConstant: ma.RateConstant,
		})
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// mapSparse rebases a wire SparseDTO's row indices to zero-based and wraps
// the result as a sparse.CSC. A nil DTO maps to a nil matrix.
func mapSparse(dto *SparseDTO) (*sparse.CSC, error) {
	if dto == nil {
		return nil, nil
	}
	ir := make([]int, len(dto.Ir))
	for i, r := range dto.Ir {
		ir[i] = r - 1
	}
	return sparse.New(dto.Rows, dto.Cols, ir, dto.Jc, dto.Pr)
}
