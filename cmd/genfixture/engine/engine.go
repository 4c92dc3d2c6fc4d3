// Package engine generates synthetic SIR metapopulation model documents for
// manual testing and benchmarking of the driver. The
// GeneratorConfig/Generate/Save shape — a scenario name plus a handful of
// scale knobs producing an in-memory document that is then serialized to
// disk — is the direct descendant of the teacher's
// cmd/mockgen/engine.GeneratorConfig/Generate/Save, which generated
// synthetic Jira issue histories the same way: one switch over scenario
// name picking parameter sets, then a deterministic construction pass.
package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"metasim/internal/model"
)

// Compartment indices for the fixed 3-compartment SIR layout every
// scenario shares (zero-based; the DTO fields below carry one-based wire
// values where the wire format requires it).
const (
	compS = 0
	compI = 1
	compR = 2
	nc    = 3
	nt    = 2
)

// GeneratorConfig selects a scenario and its scale.
type GeneratorConfig struct {
	Scenario string // "mild", "chaos", or "drift"
	Nodes    int
	Days     int
	Seed     int64
	Nthread  int
}

// Generate builds a complete ModelDTO for cfg. The structural matrices
// (S, G, E, N) and the mass-action reactant wiring are the same across
// scenarios; only initial conditions, rate constants and the scheduled
// event stream vary by scenario.
func Generate(cfg GeneratorConfig) model.ModelDTO {
	if cfg.Nodes <= 0 {
		cfg.Nodes = 1
	}
	if cfg.Days <= 0 {
		cfg.Days = 30
	}
	if cfg.Nthread <= 0 {
		cfg.Nthread = cfg.Nodes
		if cfg.Nthread > 4 {
			cfg.Nthread = 4
		}
	}

	beta, gamma, u0 := scenarioParams(cfg)

	dto := model.ModelDTO{
		Nn:  cfg.Nodes,
		Nc:  nc,
		Nt:  nt,
		Nd:  0,
		Nld: 0,

		U0:    u0,
		V0:    []float64{},
		LData: []float64{},
		GData: []float64{},
		Tspan: tspan(cfg.Days),

		S: sMatrix(),
		G: gMatrix(),
		E: eMatrix(),
		N: &model.SparseDTO{Rows: nc, Cols: 0, Ir: []int{}, Jc: []int{0}, Pr: []int{}},

		Nthread:   cfg.Nthread,
		Seed:      cfg.Seed,
		Verbosity: 1,

		MassAction: []model.MassActionDTO{
			{Transition: 1, Reactants: []int{compS + 1, compI + 1}, RateConstant: beta},
			{Transition: 2, Reactants: []int{compI + 1}, RateConstant: gamma},
		},
	}
	dto.Events = scheduledEvents(cfg)
	return dto
}

func scenarioParams(cfg GeneratorConfig) (beta, gamma float64, u0 []int) {
	u0 = make([]int, cfg.Nodes*nc)
	switch cfg.Scenario {
	case "chaos":
		beta, gamma = 0.6, 0.05
		for i := 0; i < cfg.Nodes; i++ {
			u0[i*nc+compS] = 980
			u0[i*nc+compI] = 20
		}
	case "drift":
		beta, gamma = 0.3, 0.1
		for i := 0; i < cfg.Nodes; i++ {
			infected := 5 + i*3
			u0[i*nc+compS] = 995 - infected
			u0[i*nc+compI] = infected
		}
	default: // "mild"
		beta, gamma = 0.2, 0.1
		for i := 0; i < cfg.Nodes; i++ {
			u0[i*nc+compS] = 990
			u0[i*nc+compI] = 10
		}
	}
	return beta, gamma, u0
}

func tspan(days int) []float64 {
	ts := make([]float64, days+1)
	for i := range ts {
		ts[i] = float64(i)
	}
	return ts
}

// sMatrix encodes S -> I (transition 0) and I -> R (transition 1).
func sMatrix() *model.SparseDTO {
	return &model.SparseDTO{
		Rows: nc, Cols: nt,
		Ir: []int{compS + 1, compI + 1, compI + 1, compR + 1},
		Jc: []int{0, 2, 4},
		Pr: []int{-1, 1, -1, 1},
	}
}

// gMatrix: firing either transition changes I's count, so both
// transitions' propensities must be recomputed after either fires.
func gMatrix() *model.SparseDTO {
	return &model.SparseDTO{
		Rows: nt, Cols: nt,
		Ir: []int{1, 2, 1, 2},
		Jc: []int{0, 2, 4},
		Pr: []int{1, 1, 1, 1},
	}
}

// eMatrix: one selector column listing every compartment, used by the
// scheduled EXTERNAL_TRANSFER/ENTER/EXIT events below.
func eMatrix() *model.SparseDTO {
	return &model.SparseDTO{
		Rows: nc, Cols: 1,
		Ir: []int{compS + 1, compI + 1, compR + 1},
		Jc: []int{0, 3},
		Pr: []int{1, 1, 1},
	}
}

// scheduledEvents builds a ring of EXTERNAL_TRANSFER events connecting
// node i to node (i+1)%Nodes every day, plus, for the chaos scenario, a
// periodic ENTER (birth) into node 0 and an EXIT (culling) event to
// exercise every E1/E2 event kind the splitter and processors handle.
func scheduledEvents(cfg GeneratorConfig) model.EventsDTO {
	ev := model.EventsDTO{}
	add := func(kind, day, node, dest, n int, proportion float64, selectCol, shift int) {
		ev.Event = append(ev.Event, kind)
		ev.Time = append(ev.Time, day)
		ev.Node = append(ev.Node, node)
		ev.Dest = append(ev.Dest, dest)
		ev.N = append(ev.N, n)
		ev.Proportion = append(ev.Proportion, proportion)
		ev.Select = append(ev.Select, selectCol)
		ev.Shift = append(ev.Shift, shift)
	}

	if cfg.Nodes > 1 {
		for day := 1; day < cfg.Days; day++ {
			for i := 0; i < cfg.Nodes; i++ {
				dest := (i+1)%cfg.Nodes + 1
				add(3 /* EXTERNAL_TRANSFER */, day, i+1, dest, 0, 0.02, 1, 0)
			}
		}
	}

	if cfg.Scenario == "chaos" {
		for day := 5; day < cfg.Days; day += 5 {
			add(1 /* ENTER */, day, 1, 0, 20, 0, 1, 0)
			add(0 /* EXIT */, day, 1, 0, 5, 0, 1, 0)
		}
	}

	return ev
}

// Save writes dto as an indented JSON document at <outDir>/<name>.json.
func Save(outDir, name string, dto model.ModelDTO) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(dto, "", "  ")
	if err != nil {
		return fmt.Errorf("genfixture: marshal: %w", err)
	}
	path := filepath.Join(outDir, name+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("genfixture: write %s: %w", path, err)
	}
	return nil
}
