package e1

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
	return rng.DeriveStreams(rng.NewMaster(7), 1)[0]
}

func TestApplyEnterAddsToFirstListedCompartment(t *testing.T) {
	u := []int{0, 0, 0}
	updateNode := make([]bool, 1)
	p := &Processor{U: u, Nc: 3, E: selectCol(3, 1), UpdateNode: updateNode}

	if _, err := p.Drain(queueWith(eventqueue.Record{Event: eventqueue.ENTER, Time: 1, Node: 0, N: 5, Select: 0}), 1, newStream()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u[1] != 5 {
		t.Fatalf("expected 5 entered into compartment 1, got %v", u)
	}
	if !updateNode[0] {
		t.Fatal("expected node 0 marked for update")
	}
}

func TestApplyEnterNoopOnEmptySelector(t *testing.T) {
	u := []int{1, 1, 1}
	p := &Processor{U: u, Nc: 3, E: selectCol(3), UpdateNode: make([]bool, 1)}
	if _, err := p.Drain(queueWith(eventqueue.Record{Event: eventqueue.ENTER, Time: 1, Node: 0, N: 5, Select: 0}), 1, newStream()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u[0] != 1 || u[1] != 1 || u[2] != 1 {
		t.Fatalf("expected no change, got %v", u)
	}
}

func TestApplyExitSubtractsSampledAmounts(t *testing.T) {
	u := []int{7, 3, 0}
	p := &Processor{U: u, Nc: 3, E: selectCol(3, 0, 1), UpdateNode: make([]bool, 1)}
	if _, err := p.Drain(queueWith(eventqueue.Record{Event: eventqueue.EXIT, Time: 1, Node: 0, N: 10, Select: 0}), 1, newStream()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u[0] != 0 || u[1] != 0 {
		t.Fatalf("expected full exit from listed compartments, got %v", u)
	}
}

func TestApplyExitFailsOnOverdraw(t *testing.T) {
	u := []int{2, 1, 0}
	p := &Processor{U: u, Nc: 3, E: selectCol(3, 0, 1), UpdateNode: make([]bool, 1)}
	_, err := p.Drain(queueWith(eventqueue.Record{Event: eventqueue.EXIT, Time: 1, Node: 0, N: 5, Select: 0}), 1, newStream())
	if err == nil {
		t.Fatal("expected SAMPLE_SELECT-flavored error from an oversized EXIT")
	}
}

func TestApplyInternalTransferShiftsSampledAmounts(t *testing.T) {
	u := []int{5, 0, 0}
	n := selectCol(3, 0) // N.At(0, 0) == 1: shift compartment 0 -> compartment 1
	p := &Processor{U: u, Nc: 3, E: selectCol(3, 0), N: n, UpdateNode: make([]bool, 1)}
	_, err := p.Drain(queueWith(eventqueue.Record{Event: eventqueue.INTERNAL_TRANSFER, Time: 1, Node: 0, N: 5, Select: 0, Shift: 0}), 1, newStream())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u[0] != 0 || u[1] != 5 {
		t.Fatalf("expected transfer 0->1, got %v", u)
	}
}

func TestApplyInternalTransferNoShiftSentinelLeavesCompartment(t *testing.T) {
	u := []int{5, 0, 0}
	p := &Processor{U: u, Nc: 3, E: selectCol(3, 0), N: selectCol(3, 0), UpdateNode: make([]bool, 1)}
	_, err := p.Drain(queueWith(eventqueue.Record{Event: eventqueue.INTERNAL_TRANSFER, Time: 1, Node: 0, N: 5, Select: 0, Shift: -1}), 1, newStream())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u[0] != 5 {
		t.Fatalf("expected no-shift transfer to stay in the same compartment, got %v", u)
	}
}

func TestDrainStopsAtUnripeEvent(t *testing.T) {
	u := []int{5, 0, 0}
	p := &Processor{U: u, Nc: 3, E: selectCol(3, 1), UpdateNode: make([]bool, 1)}
	q := queueWith(eventqueue.Record{Event: eventqueue.ENTER, Time: 3, Node: 0, N: 1, Select: 0})
	if _, err := p.Drain(q, 1, newStream()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u[1] != 0 {
		t.Fatalf("expected unripe event left undrained, got %v", u)
	}
}

func queueWith(recs ...eventqueue.Record) *eventqueue.Queue {
	return eventqueue.NewQueue(recs)
}
