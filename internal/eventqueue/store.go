// Package eventqueue implements the event store (C2) and event splitter
// (C3): a buffer of scheduled events, allocated once and partitioned into
// per-thread E1 queues plus a single E2 queue. Each queue holds its events
// as a slice of Record values (one struct per event), not as per-field
// columns. Records are drained while ripe in input order; neither Split
// nor Queue sorts them by time. The allocate/release lifecycle and the
// drain-while-ripe access pattern are modeled on the teacher's
// internal/eventlog.EventStore (Append/Load/Save around a single
// chronologically sorted []IssueEvent, drained in GetEventsInRange) —
// adapted here from a per-source map to per-partition slices, and from
// wall-clock timestamps to integer simulation days.
package eventqueue

import "metasim/internal/errset"

// Kind enumerates the wire-stable event type codes (§6).
type Kind int

const (
	EXIT Kind = iota
	ENTER
	INTERNAL_TRANSFER
	EXTERNAL_TRANSFER
)

// Record is one scheduled event, zero-based, after the splitter's rebase.
// Shift == -1 means "no shift" (§3).
type Record struct {
	Event      Kind
	Time       int
	Node       int
	Dest       int
	N          int
	Proportion float64
	Select     int
	Shift      int
}

// NewQueue builds a Queue from a pre-built record slice, in input order.
// Split is the usual constructor for a live run; this is for tests and for
// callers (such as fixture generators) that already hold a record slice.
func NewQueue(records []Record) *Queue {
	return &Queue{records: records}
}

// Queue is a FIFO of Records drained in input order (invariant 4, §3):
// a single growable slice plus a read cursor, never reallocated once the
// store is built, mirroring "All buffers are allocated before the day
// loop begins, live for the entire run" (§3 Lifecycle).
type Queue struct {
	records []Record
	cursor  int
}

// Len reports the number of undrained records remaining.
func (q *Queue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.records) - q.cursor
}

// Peek returns the next undrained record and whether one exists.
func (q *Queue) Peek() (Record, bool) {
	if q == nil || q.cursor >= len(q.records) {
		return Record{}, false
	}
	return q.records[q.cursor], true
}

// Advance consumes the next record.
func (q *Queue) Advance() {
	if q != nil && q.cursor < len(q.records) {
		q.cursor++
	}
}

// DrainRipe calls fn for every record with Time <= day, in input order,
// stopping at the first record that is not yet ripe. fn's error aborts the
// drain and is returned to the caller, matching §5's per-partition
// first-error semantics. It returns the number of records drained before
// any error, for metrics.AddEventsDrained.
func (q *Queue) DrainRipe(day int, fn func(Record) error) (int, error) {
	if q == nil {
		return 0, nil
	}
	n := 0
	for {
		rec, ok := q.Peek()
		if !ok || rec.Time > day {
			return n, nil
		}
		if err := fn(rec); err != nil {
			return n, err
		}
		q.Advance()
		n++
	}
}

// Release drops the backing array and resets the cursor. There is no
// per-step allocation in the hot path (§3 Lifecycle). driver.Run does not
// call Release; its queues are dropped when Run returns.
func (q *Queue) Release() {
	if q == nil {
		return
	}
	q.records = nil
	q.cursor = 0
}

// Remaining returns a copy of the undrained records, in order. Used by
// round-trip tests (§8) that reconcatenate every partition's queues.
func (q *Queue) Remaining() []Record {
	if q == nil {
		return nil
	}
	out := make([]Record, len(q.records)-q.cursor)
	copy(out, q.records[q.cursor:])
	return out
}

// undefinedEventErr is the shared UNDEFINED_EVENT error for an event kind
// the splitter does not recognize.
func undefinedEventErr(kind int) error {
	return errset.New(errset.UNDEFINED_EVENT, "unknown event kind")
}
