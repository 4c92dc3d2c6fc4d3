package e2

import (
	"testing"

	"metasim/internal/eventqueue"
	"metasim/internal/rng"
	"metasim/internal/sparse"
)

func selectCol(nc int, rows ...int) *sparse.CSC {
	ir := make([]int, len(rows))
	pr := make([]int, len(rows))
	copy(ir, rows)
	for i := range pr {
		pr[i] = 1
	}
	m, _ := sparse.New(nc, 1, ir, []int{0, len(rows)}, pr)
	return m
}

func newStream() *rng.Stream {
	return rng.DeriveStreams(rng.NewMaster(3), 1)[0]
}

func TestExternalTransferMovesBetweenNodes(t *testing.T) {
	// 2 nodes, 2 compartments each: u = [node0: 5,0][node1: 0,0]
	u := []int{5, 0, 0, 0}
	updateNode := make([]bool, 2)
	p := &Processor{U: u, Nc: 2, E: selectCol(2, 0), N: selectCol(2, 0), UpdateNode: updateNode}

	q := eventqueue.NewQueue([]eventqueue.Record{
		{Event: eventqueue.EXTERNAL_TRANSFER, Time: 1, Node: 0, Dest: 1, N: 5, Select: 0, Shift: -1},
	})
	if _, err := p.Drain(q, 1, newStream()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u[0] != 0 || u[2] != 5 {
		t.Fatalf("expected 5 moved from node0.c0 to node1.c0, got %v", u)
	}
	if !updateNode[0] || !updateNode[1] {
		t.Fatal("expected both source and dest nodes marked for update")
	}
}

func TestExternalTransferAppliesShift(t *testing.T) {
	// shift compartment 0 -> compartment 1 on arrival
	u := []int{5, 0, 0, 0}
	p := &Processor{U: u, Nc: 2, E: selectCol(2, 0), N: selectCol(2, 0), UpdateNode: make([]bool, 2)}

	q := eventqueue.NewQueue([]eventqueue.Record{
		{Event: eventqueue.EXTERNAL_TRANSFER, Time: 1, Node: 0, Dest: 1, N: 5, Select: 0, Shift: 0},
	})
	if _, err := p.Drain(q, 1, newStream()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u[0] != 0 || u[3] != 5 {
		t.Fatalf("expected 5 moved into shifted compartment 1 of node1, got %v", u)
	}
}

func TestExternalTransferFailsOnOverdraw(t *testing.T) {
	u := []int{2, 0, 0, 0}
	p := &Processor{U: u, Nc: 2, E: selectCol(2, 0), N: selectCol(2, 0), UpdateNode: make([]bool, 2)}

	q := eventqueue.NewQueue([]eventqueue.Record{
		{Event: eventqueue.EXTERNAL_TRANSFER, Time: 1, Node: 0, Dest: 1, N: 5, Select: 0, Shift: -1},
	})
	if _, err := p.Drain(q, 1, newStream()); err == nil {
		t.Fatal("expected error for an EXTERNAL_TRANSFER larger than the source compartment")
	}
}

func TestExternalTransferRejectsNonE2Kind(t *testing.T) {
	u := []int{2, 0, 0, 0}
	p := &Processor{U: u, Nc: 2, E: selectCol(2, 0), N: selectCol(2, 0), UpdateNode: make([]bool, 2)}

	q := eventqueue.NewQueue([]eventqueue.Record{
		{Event: eventqueue.EXIT, Time: 1, Node: 0, N: 1, Select: 0},
	})
	if _, err := p.Drain(q, 1, newStream()); err == nil {
		t.Fatal("expected UNDEFINED_EVENT-flavored error for a non-E2 event kind")
	}
}
