package eventqueue

import "metasim/internal/model"

// Split partitions a raw wire-shaped EventBatch into Nthread E1 queues and
// one E2 queue, per §4.3: chunk = Nn/Nthread; node v (zero-based) belongs
// to partition min(v/chunk, Nthread-1). EXIT/ENTER/INTERNAL_TRANSFER go to
// that partition's E1 queue; EXTERNAL_TRANSFER always goes to partition
// 0's E2 queue. Any other event kind fails with UNDEFINED_EVENT. The wire
// batch's Node/Dest/Select/Shift are one-based; Split performs the
// subtract-one rebase to zero-based as it assigns each record, and a wire
// Shift of 0 becomes the domain "no shift" sentinel -1.
func Split(batch model.EventBatch, nn, nthread int) (e1 []Queue, e2 Queue, err error) {
	if nthread <= 0 {
		nthread = 1
	}
	chunk := nn / nthread
	if chunk <= 0 {
		chunk = 1
	}

	e1 = make([]Queue, nthread)

	for i := 0; i < batch.Len(); i++ {
		kind := Kind(batch.Event[i])
		nodeZero := batch.Node[i] - 1

		rec := Record{
			Event:      kind,
			Time:       batch.Time[i],
			Node:       nodeZero,
			Dest:       batch.Dest[i] - 1,
			N:          batch.N[i],
			Proportion: batch.Proportion[i],
			Select:     batch.Select[i] - 1,
			Shift:      batch.Shift[i] - 1,
		}

		switch kind {
		case EXIT, ENTER, INTERNAL_TRANSFER:
			part := partitionOf(nodeZero, chunk, nthread)
			e1[part].records = append(e1[part].records, rec)
		case EXTERNAL_TRANSFER:
			e2.records = append(e2.records, rec)
		default:
			return nil, Queue{}, undefinedEventErr(batch.Event[i])
		}
	}

	return e1, e2, nil
}

// partitionOf computes min(v/chunk, nthread-1), the stable node-to-
// partition assignment that never rebalances across the run (invariant 5,
// §3).
func partitionOf(v, chunk, nthread int) int {
	p := v / chunk
	if p >= nthread {
		p = nthread - 1
	}
	return p
}

// Concat reassembles the undrained event multiset from its partitions:
// every partition's E1 queue in partition order, then the E2 queue, each
// internally in input order. The concatenation is not the original input
// order (E1/E2 kinds interleave in the original stream), so the round-trip
// test compares the multiset of event kinds and the total count.
func Concat(e1 []Queue, e2 Queue) []Record {
	var out []Record
	for i := range e1 {
		out = append(out, e1[i].Remaining()...)
	}
	out = append(out, e2.Remaining()...)
	return out
}
