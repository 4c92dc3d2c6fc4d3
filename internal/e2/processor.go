// Package e2 applies EXTERNAL_TRANSFER events (C5, §4.5), the only event
// kind that moves individuals between two different nodes. Because source
// and destination can be any pair of nodes regardless of partition
// boundaries, E2 runs single-writer on partition 0 against the full state
// vector, after every partition's E1 phase has finished for the day (§5
// barrier ordering) — the same single-writer-after-fan-out shape as the
// teacher's internal/eventlog writer, which is likewise the only component
// allowed to mutate the shared event log once worker goroutines are done
// producing into it.
package e2

import (
	"metasim/internal/errset"
	"metasim/internal/eventqueue"
	"metasim/internal/rng"
	"metasim/internal/sampler"
	"metasim/internal/sparse"
)

// Processor applies EXTERNAL_TRANSFER events against the entire
// compartment state U (all nodes), using selector matrix E and shift
// matrix N shared with E1.
type Processor struct {
	U          []int // full Nn*Nc state
	Nc         int
	E          *sparse.CSC
	N          *sparse.CSC
	UpdateNode []bool // full Nn flags
}

// Drain applies every event in q ripe at or before day, in input order,
// and returns the number applied for metrics.AddEventsDrained.
func (p *Processor) Drain(q *eventqueue.Queue, day int, stream *rng.Stream) (int, error) {
	return q.DrainRipe(day, func(rec eventqueue.Record) error {
		return p.apply(rec, stream)
	})
}

func (p *Processor) apply(rec eventqueue.Record, stream *rng.Stream) error {
	if rec.Event != eventqueue.EXTERNAL_TRANSFER {
		return errset.New(errset.UNDEFINED_EVENT, "E2 processor received a non-E2 event kind")
	}

	src := p.U[rec.Node*p.Nc : rec.Node*p.Nc+p.Nc]
	drawn, err := sampler.SampleSelect(src, p.E, rec.Select, rec.N, rec.Proportion, stream)
	if err != nil {
		return err
	}

	destBase := rec.Dest * p.Nc
	for c, n := range drawn {
		if n == 0 {
			continue
		}
		offset := 0
		if rec.Shift >= 0 {
			offset = p.N.At(c, rec.Shift)
		}
		destCompartment := c + offset
		if destCompartment < 0 || destCompartment >= p.Nc {
			return errset.New(errset.NEGATIVE_STATE, "external transfer shift moved out of compartment range")
		}
		src[c] -= n
		p.U[destBase+destCompartment] += n
		if src[c] < 0 || p.U[destBase+destCompartment] < 0 {
			return errset.New(errset.NEGATIVE_STATE, "external transfer drove a compartment negative")
		}
	}

	p.UpdateNode[rec.Node] = true
	p.UpdateNode[rec.Dest] = true
	return nil
}
