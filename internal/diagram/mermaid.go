// Package diagram renders verbosity-2 diagnostic views of a model's
// transition dependency graph and inter-node transfer topology as Mermaid
// flowchart blocks. The string-builder-over-a-fenced-code-block shape is
// adapted from the teacher's internal/visuals/mermaid.go, which built a
// xychart-beta block for process-stability results the same way: collect
// labelled rows, then join them into one fenced Mermaid document.
package diagram

import (
	"fmt"
	"strings"

	"metasim/internal/eventqueue"
	"metasim/internal/model"
	"metasim/internal/sparse"
)

// DependencyGraph renders the transition dependency graph G (§3) as a
// Mermaid flowchart: one node per transition, one edge t -> j for every j
// in column t of G (firing t may change j's rate).
func DependencyGraph(g *sparse.CSC) string {
	if g.Empty() {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("flowchart LR\n")
	for t := 0; t < g.Cols; t++ {
		sb.WriteString(fmt.Sprintf("    T%d[\"t%d\"]\n", t, t))
	}
	for t := 0; t < g.Cols; t++ {
		rows, _ := g.Column(t)
		for _, j := range rows {
			sb.WriteString(fmt.Sprintf("    T%d --> T%d\n", t, j))
		}
	}
	sb.WriteString("```\n")
	return sb.String()
}

// TransferTopology renders the inter-node movement graph implied by the
// model's EXTERNAL_TRANSFER events: one node per metapopulation node, one
// edge source -> dest per distinct (source, dest) pair, labelled with the
// number of scheduled transfers between that pair. Node/dest indices in
// m.Events are still one-based wire values; the label subtracts one so the
// diagram reads with the same zero-based node numbering as every other
// diagnostic.
func TransferTopology(m *model.Model) string {
	type edge struct{ src, dst int }
	counts := make(map[edge]int)
	var order []edge
	for i, kind := range m.Events.Event {
		if eventqueue.Kind(kind) != eventqueue.EXTERNAL_TRANSFER {
			continue
		}
		e := edge{src: m.Events.Node[i] - 1, dst: m.Events.Dest[i] - 1}
		if counts[e] == 0 {
			order = append(order, e)
		}
		counts[e]++
	}
	if len(order) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("flowchart LR\n")
	for _, e := range order {
		sb.WriteString(fmt.Sprintf("    N%d -->|%d| N%d\n", e.src, counts[e], e.dst))
	}
	sb.WriteString("```\n")
	return sb.String()
}
