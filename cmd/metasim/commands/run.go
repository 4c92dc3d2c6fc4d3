package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"metasim/internal/diagram"
	"metasim/internal/driver"
	"metasim/internal/metrics"
	"metasim/internal/model"
	"metasim/internal/propensity"
	"metasim/internal/trajectory"
)

var (
	modelPath   string
	outputPath  string
	metricsAddr string
	nthreadFlag int
	seedFlag    int64
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a model document through the SSA + event-scheduling engine",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSimulation()
	},
}

func runSimulation() error {
	data, err := os.ReadFile(modelPath)
	if err != nil {
		return fmt.Errorf("reading model file: %w", err)
	}

	m, err := model.ParseAndMap(data)
	if err != nil {
		return err
	}
	if nthreadFlag > 0 {
		m.Nthread = nthreadFlag
	}
	if seedFlag != 0 {
		m.Seed = seedFlag
	}

	if m.Verbosity >= 2 {
		if graph := diagram.DependencyGraph(m.G); graph != "" {
			fmt.Println(graph)
		}
		if topo := diagram.TransferTopology(m); topo != "" {
			fmt.Println(topo)
		}
	}

	addr := metricsAddr
	if addr == "" {
		addr = cfg.MetricsAddr
	}
	if addr != "" {
		log.Info().Str("addr", addr).Msg("serving prometheus metrics")
		go func() {
			if err := <-metrics.Serve(addr); err != nil {
				log.Warn().Err(err).Msg("metrics server stopped")
			}
		}()
	}

	funcs, err := m.BuildPropensities(nil)
	if err != nil {
		return err
	}

	w := newWriter(m)

	log.Info().
		Int("nn", m.Nn).Int("nc", m.Nc).Int("nt", m.Nt).
		Int("nthread", m.Nthread).Int64("seed", m.Seed).
		Msg("starting simulation")

	if err := driver.Run(context.Background(), m, funcs, propensity.NoopPostStep, w); err != nil {
		return err
	}

	return writeResult(w, m)
}

func newWriter(m *model.Model) *trajectory.Writer {
	w := &trajectory.Writer{}
	if m.USkel.Empty() && m.VSkel.Empty() {
		w.Dense = trajectory.NewDenseOutput(m.Nn, m.Nc, m.Nd, m.Tlen())
	} else {
		w.Sparse = trajectory.NewSparseOutput(m.USkel, m.VSkel, m.Tlen())
	}
	return w
}

type runResult struct {
	Tlen int        `json:"tlen"`
	U    []int      `json:"u,omitempty"`
	V    []float64  `json:"v,omitempty"`
	PrU  []int      `json:"prU,omitempty"`
	PrV  []float64  `json:"prV,omitempty"`
}

func writeResult(w *trajectory.Writer, m *model.Model) error {
	res := runResult{Tlen: m.Tlen()}
	if w.Dense != nil {
		res.U = w.Dense.U
		res.V = w.Dense.V
	}
	if w.Sparse != nil {
		res.PrU = w.Sparse.PrU
		res.PrV = w.Sparse.PrV
	}

	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}

	if outputPath == "" || outputPath == "-" {
		fmt.Println(string(data))
		return nil
	}
	return os.WriteFile(outputPath, data, 0644)
}

func init() {
	runCmd.Flags().StringVarP(&modelPath, "model", "m", "", "path to the model JSON document (required)")
	runCmd.Flags().StringVarP(&outputPath, "out", "o", "", "path to write the result JSON (default: stdout)")
	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "address to serve Prometheus metrics on (e.g. :9090); empty disables")
	runCmd.Flags().IntVar(&nthreadFlag, "nthread", 0, "override the model's thread count")
	runCmd.Flags().Int64Var(&seedFlag, "seed", 0, "override the model's RNG seed")
	runCmd.MarkFlagRequired("model")
	rootCmd.AddCommand(runCmd)
}
