// Package driver implements C8: it allocates per-partition thread
// contexts, seeds the RNG streams and the rate cache, splits the event
// stream, and runs the day loop described in §4.7 to completion, barrier
// by barrier. The fork-join shape — spawn one goroutine per partition for a
// phase, wait for all of them, check for the first error — is modeled on
// golang.org/x/sync/errgroup's standard usage, the same mechanism the
// example pack's MCP tool surface pulls in transitively; here it is
// promoted to a direct dependency because the engine's barriers are exactly
// the "fan out, wait, propagate first error" shape errgroup exists for.
package driver

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"metasim/internal/e1"
	"metasim/internal/e2"
	"metasim/internal/eventqueue"
	"metasim/internal/metrics"
	"metasim/internal/model"
	"metasim/internal/propensity"
	"metasim/internal/rng"
	"metasim/internal/ssa"
	"metasim/internal/trajectory"
)

// partition is one fixed node range with its own RNG stream, E1 queue, and
// E1 processor, per §4.8: "Node range assigned to partition i: [i*chunk,
// (i+1)*chunk), with the remainder folded into the last partition."
type partition struct {
	lo, hi  int
	stream  *rng.Stream
	e1Queue *eventqueue.Queue
	e1Proc  *e1.Processor
}

// Run drives the full day loop for m until every output time point in
// m.Tspan has been produced, writing snapshots into w.
func Run(ctx context.Context, m *model.Model, funcs []propensity.Func, hook propensity.PostStepFunc, w *trajectory.Writer) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if hook == nil {
		hook = propensity.NoopPostStep
	}

	nthread := m.Nthread
	if nthread <= 0 {
		nthread = 1
	}
	chunk := m.Nn / nthread
	if chunk <= 0 {
		chunk = 1
	}

	streams := rng.DeriveStreams(rng.NewMaster(m.Seed), nthread)
	e1Queues, e2Queue, err := eventqueue.Split(m.Events, m.Nn, nthread)
	if err != nil {
		return err
	}

	u := append([]int(nil), m.U0...)
	v := append([]float64(nil), m.V0...)
	vNew := make([]float64, len(v))
	updateNode := make([]bool, m.Nn)

	partitions := make([]partition, nthread)
	for i := range partitions {
		lo := i * chunk
		hi := lo + chunk
		if i == nthread-1 {
			hi = m.Nn
		}
		partitions[i] = partition{
			lo: lo, hi: hi, stream: streams[i], e1Queue: &e1Queues[i],
			e1Proc: &e1.Processor{U: u, Nc: m.Nc, E: m.E, N: m.N, UpdateNode: updateNode},
		}
	}
	e2Processor := &e2.Processor{U: u, Nc: m.Nc, E: m.E, N: m.N, UpdateNode: updateNode}

	rc := ssa.NewRateCache(m.Nn, m.Nt)
	eng := &ssa.Engine{
		Nn: m.Nn, Nc: m.Nc, Nt: m.Nt, Funcs: funcs, S: m.S, G: m.G, RC: rc,
		U: u, V: v, LData: m.LData, GData: m.GData, Nld: m.Nld, Nd: m.Nd,
	}
	if err := eng.SeedAll(m.Tspan[0]); err != nil {
		return err
	}

	tt := m.Tspan[0]
	nextDay := float64(int(tt)) + 1
	it := 0
	tlen := m.Tlen()

	ssaSteps := make([]int, nthread)
	e1Drained := make([]int, nthread)
	rateRefreshes := make([]int, nthread)

	for it < tlen {
		dayStart := time.Now()
		day := int(nextDay) - 1

		err := forEachPartition(ctx, partitions, func(p *partition) error {
			idx := p.lo / chunk
			if idx >= nthread {
				idx = nthread - 1
			}
			for node := p.lo; node < p.hi; node++ {
				fired, err := eng.Step(node, nextDay, p.stream)
				ssaSteps[idx] += fired
				if err != nil {
					return err
				}
			}
			return nil
		})
		metrics.AddSSASteps(sumInts(ssaSteps))
		if err != nil {
			return err
		}

		err = forEachPartition(ctx, partitions, func(p *partition) error {
			idx := p.lo / chunk
			if idx >= nthread {
				idx = nthread - 1
			}
			n, err := p.e1Proc.Drain(p.e1Queue, day, p.stream)
			e1Drained[idx] += n
			return err
		})
		metrics.AddEventsDrained("e1", sumInts(e1Drained))
		if err != nil {
			return err
		}

		n, err := e2Processor.Drain(&e2Queue, day, streams[0])
		metrics.AddEventsDrained("e2", n)
		if err != nil {
			return err
		}

		err = forEachPartition(ctx, partitions, func(p *partition) error {
			idx := p.lo / chunk
			if idx >= nthread {
				idx = nthread - 1
			}
			for node := p.lo; node < p.hi; node++ {
				vNode := sliceFloat(v, node, m.Nd)
				vNewNode := sliceFloat(vNew, node, m.Nd)
				ldataNode := sliceFloat(m.LData, node, m.Nld)
				uNode := u[node*m.Nc : node*m.Nc+m.Nc]
				refreshed, err := trajectory.PostStepNode(node, eng, rc, vNewNode, uNode, vNode, ldataNode, m.GData, node, tt, hook, updateNode)
				if refreshed {
					rateRefreshes[idx]++
				}
				if err != nil {
					return err
				}
			}
			return nil
		})
		metrics.AddRateRefresh(sumInts(rateRefreshes))
		if err != nil {
			return err
		}

		tt = nextDay
		nextDay++

		for it < tlen && m.Tspan[it] < tt {
			w.Snapshot(it, u, vNew)
			it++
		}

		copy(v, vNew)
		metrics.ObserveDay(time.Since(dayStart))
	}

	return nil
}

// sumInts totals per-partition counters and resets them to zero, so the
// next day's accumulation starts clean while metrics.Add* still receives
// only the delta accrued since the last call.
func sumInts(counts []int) int {
	sum := 0
	for i, c := range counts {
		sum += c
		counts[i] = 0
	}
	return sum
}

// forEachPartition runs fn for every partition concurrently and returns the
// first error observed, per §5's "collect per-partition error codes,
// return the first non-zero one after each barrier".
func forEachPartition(ctx context.Context, partitions []partition, fn func(*partition) error) error {
	g, _ := errgroup.WithContext(ctx)
	for i := range partitions {
		p := &partitions[i]
		g.Go(func() error { return fn(p) })
	}
	return g.Wait()
}

func sliceFloat(buf []float64, node, width int) []float64 {
	if width == 0 {
		return nil
	}
	return buf[node*width : node*width+width]
}
