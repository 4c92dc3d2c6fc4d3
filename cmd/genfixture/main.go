// Command genfixture writes synthetic SIR metapopulation model documents
// to disk for manual testing and benchmarking of `metasim run`. It is the
// direct descendant of the teacher's cmd/mockgen: a flag-parsed scenario
// generator that writes its output as a file the main binary can load,
// rather than a package other code imports.
package main

import (
	"flag"
	"fmt"
	"os"

	"metasim/cmd/genfixture/engine"
)

func main() {
	scenario := flag.String("scenario", "mild", "Scenario to generate: mild, chaos, drift")
	nodes := flag.Int("nodes", 4, "Number of metapopulation nodes")
	days := flag.Int("days", 30, "Number of simulated days")
	seed := flag.Int64("seed", 1, "RNG seed recorded in the generated model")
	nthread := flag.Int("nthread", 0, "Thread count recorded in the generated model (0 = auto)")
	out := flag.String("out", "./.cache", "Output directory for the generated model file")
	name := flag.String("name", "", "Output file stem (defaults to the scenario name)")
	flag.Parse()

	cfg := engine.GeneratorConfig{
		Scenario: *scenario,
		Nodes:    *nodes,
		Days:     *days,
		Seed:     *seed,
		Nthread:  *nthread,
	}

	stem := *name
	if stem == "" {
		stem = cfg.Scenario
	}

	dto := engine.Generate(cfg)

	fmt.Printf("Generating scenario %q (nodes=%d, days=%d, seed=%d) to %s/%s.json...\n",
		cfg.Scenario, cfg.Nodes, cfg.Days, cfg.Seed, *out, stem)

	if err := engine.Save(*out, stem, dto); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to save generated model: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Done.")
}
