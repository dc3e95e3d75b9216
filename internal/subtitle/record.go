package subtitle

import "time"

// Record is a single decoded subtitle block. Start <= End is not enforced;
// malformed files can produce inverted ranges.
type Record struct {
	Index int       `json:"index"`
	Text  string    `json:"text"`
	Start Timestamp `json:"start"`
	End   Timestamp `json:"end"`
}

// HasStarted reports whether current, shifted back by syncDelay, is strictly
// past the record start. A positive syncDelay postpones the caption.
func (r Record) HasStarted(current Timestamp, syncDelay time.Duration) bool {
	return passed(current, r.Start, syncDelay)
}

// HasEnded is HasStarted against the record end.
func (r Record) HasEnded(current Timestamp, syncDelay time.Duration) bool {
	return passed(current, r.End, syncDelay)
}

// Active reports whether the record should be on screen at current.
func (r Record) Active(current Timestamp, syncDelay time.Duration) bool {
	return r.HasStarted(current, syncDelay) && !r.HasEnded(current, syncDelay)
}

func passed(current, boundary Timestamp, syncDelay time.Duration) bool {
	if syncDelay == 0 {
		return current.HasPassed(boundary)
	}
	return current.Duration()-syncDelay > boundary.Duration()
}
