package diagram

import (
	"strings"
	"testing"

	"metasim/internal/model"
	"metasim/internal/sparse"
)

func TestDependencyGraphEmpty(t *testing.T) {
	if got := DependencyGraph(nil); got != "" {
		t.Fatalf("expected empty string for nil graph, got %q", got)
	}
}

func TestDependencyGraphRendersEdges(t *testing.T) {
	// column 0 depends on transition 1; column 1 depends on itself.
	g, err := sparse.New(2, 2, []int{1, 1}, []int{0, 1, 2}, []int{1, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := DependencyGraph(g)
	if !strings.Contains(got, "```mermaid") {
		t.Fatalf("expected fenced mermaid block, got %q", got)
	}
	if !strings.Contains(got, "T0 --> T1") {
		t.Fatalf("expected edge T0 --> T1, got %q", got)
	}
	if !strings.Contains(got, "T1 --> T1") {
		t.Fatalf("expected edge T1 --> T1, got %q", got)
	}
}

func TestTransferTopologyCountsAndDedups(t *testing.T) {
	m := &model.Model{
		Dims: model.Dims{Nn: 2, Nc: 1},
		Events: model.EventBatch{
			Event: []int{3, 3, 3},
			Node:  []int{1, 1, 2},
			Dest:  []int{2, 2, 1},
		},
	}
	got := TransferTopology(m)
	if !strings.Contains(got, "N0 -->|2| N1") {
		t.Fatalf("expected N0 -->|2| N1, got %q", got)
	}
	if !strings.Contains(got, "N1 -->|1| N0") {
		t.Fatalf("expected N1 -->|1| N0, got %q", got)
	}
}

func TestTransferTopologyEmptyWhenNoExternalTransfers(t *testing.T) {
	m := &model.Model{
		Dims:   model.Dims{Nn: 1, Nc: 1},
		Events: model.EventBatch{Event: []int{0, 1}, Node: []int{1, 1}, Dest: []int{0, 0}},
	}
	if got := TransferTopology(m); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}
