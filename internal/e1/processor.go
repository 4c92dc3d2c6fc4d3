// Package e1 applies intra-node scheduled events (EXIT, ENTER,
// INTERNAL_TRANSFER) to one partition's slice of node state (C4, §4.4).
// The drain-while-ripe shape is the teacher's
// internal/eventlog.EventStore.GetEventsInRange pattern turned into a
// push style (DrainRipe callback) instead of a pull style (return a
// slice), since the engine must stop at a day boundary without knowing in
// advance how many events are ripe.
package e1

import (
	"metasim/internal/errset"
	"metasim/internal/eventqueue"
	"metasim/internal/rng"
	"metasim/internal/sampler"
	"metasim/internal/sparse"
)

// Processor applies E1 events against the full compartment state u, using
// selector matrix E and shift matrix N. It writes only to nodes inside its
// own partition, so distinct Processors touch disjoint slices of u (§5).
type Processor struct {
	U          []int // full Nn*Nc state, shared; this partition writes disjoint nodes only
	Nc         int
	E          *sparse.CSC
	N          *sparse.CSC
	UpdateNode []bool // shared Nn flags; this partition writes disjoint nodes only
}

// Drain applies every event in q ripe at or before day, in input order,
// and returns the number applied for metrics.AddEventsDrained.
func (p *Processor) Drain(q *eventqueue.Queue, day int, stream *rng.Stream) (int, error) {
	return q.DrainRipe(day, func(rec eventqueue.Record) error {
		return p.apply(rec, stream)
	})
}

func (p *Processor) apply(rec eventqueue.Record, stream *rng.Stream) error {
	node := rec.Node
	row := p.U[node*p.Nc : node*p.Nc+p.Nc]

	switch rec.Event {
	case eventqueue.ENTER:
		return p.applyEnter(node, row, rec)
	case eventqueue.EXIT:
		return p.applyExit(node, row, rec, stream)
	case eventqueue.INTERNAL_TRANSFER:
		return p.applyInternalTransfer(node, row, rec, stream)
	default:
		return errset.New(errset.UNDEFINED_EVENT, "E1 processor received a non-E1 event kind")
	}
}

func (p *Processor) applyEnter(node int, row []int, rec eventqueue.Record) error {
	if p.E == nil || rec.Select < 0 || rec.Select >= p.E.Cols || p.E.Len(rec.Select) == 0 {
		return nil // empty selector column: ENTER is a no-op (§4.4)
	}
	rows, _ := p.E.Column(rec.Select)
	first := rows[0]
	row[first] += rec.N
	if row[first] < 0 {
		return errset.New(errset.NEGATIVE_STATE, "ENTER overflowed compartment to negative")
	}
	p.UpdateNode[node] = true
	return nil
}

func (p *Processor) applyExit(node int, row []int, rec eventqueue.Record, stream *rng.Stream) error {
	drawn, err := sampler.SampleSelect(row, p.E, rec.Select, rec.N, rec.Proportion, stream)
	if err != nil {
		return err
	}
	for c, n := range drawn {
		row[c] -= n
		if row[c] < 0 {
			return errset.New(errset.NEGATIVE_STATE, "EXIT drove a compartment negative")
		}
	}
	p.UpdateNode[node] = true
	return nil
}

func (p *Processor) applyInternalTransfer(node int, row []int, rec eventqueue.Record, stream *rng.Stream) error {
	drawn, err := sampler.SampleSelect(row, p.E, rec.Select, rec.N, rec.Proportion, stream)
	if err != nil {
		return err
	}
	for c, n := range drawn {
		if n == 0 {
			continue
		}
		offset := 0
		if rec.Shift >= 0 {
			offset = p.N.At(c, rec.Shift)
		}
		dest := c + offset
		if dest < 0 || dest >= p.Nc {
			return errset.New(errset.NEGATIVE_STATE, "internal transfer shift moved out of compartment range")
		}
		row[c] -= n
		row[dest] += n
		if row[c] < 0 || row[dest] < 0 {
			return errset.New(errset.NEGATIVE_STATE, "internal transfer drove a compartment negative")
		}
	}
	p.UpdateNode[node] = true
	return nil
}
