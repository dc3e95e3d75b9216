package subtitle

import "time"

// Queue is a forward-only cursor over parsed records. Dequeue advances the
// cursor; records are never removed, so Reset replays the same track.
// A Queue is not safe for concurrent use.
type Queue struct {
	records []Record
	cursor  int
}

func NewQueue(records []Record) *Queue {
	owned := make([]Record, len(records))
	copy(owned, records)
	return &Queue{records: owned}
}

// CanDequeue reports whether a record is left under the cursor.
func (q *Queue) CanDequeue() bool {
	return q.cursor < len(q.records)
}

// Active returns the record under the cursor without advancing.
func (q *Queue) Active() (Record, bool) {
	if !q.CanDequeue() {
		return Record{}, false
	}
	return q.records[q.cursor], true
}

// Dequeue returns the record under the cursor and advances past it.
func (q *Queue) Dequeue() (Record, bool) {
	rec, ok := q.Active()
	if ok {
		q.cursor++
	}
	return rec, ok
}

func (q *Queue) Reset() {
	q.cursor = 0
}

func (q *Queue) Len() int {
	return len(q.records)
}

func (q *Queue) Position() int {
	return q.cursor
}

func (q *Queue) Records() []Record {
	out := make([]Record, len(q.records))
	copy(out, q.records)
	return out
}

// Sync moves the cursor past every record that has ended at current and
// returns the record under the cursor if it has started.
func (q *Queue) Sync(current Timestamp, syncDelay time.Duration) (Record, bool) {
	for {
		rec, ok := q.Active()
		if !ok {
			return Record{}, false
		}
		if rec.HasEnded(current, syncDelay) {
			q.cursor++
			continue
		}
		if rec.HasStarted(current, syncDelay) {
			return rec, true
		}
		return Record{}, false
	}
}
