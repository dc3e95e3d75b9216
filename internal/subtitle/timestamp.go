package subtitle

import (
	"math"
	"time"
)

// Timestamp is an offset from the start of a subtitle file with whole second
// precision. Ordering and equality are defined by TotalSeconds.
type Timestamp struct {
	Hours   uint8 `json:"hours"`
	Minutes uint8 `json:"minutes"`
	Seconds uint8 `json:"seconds"`
}

// NewTimestamp builds a timestamp from already decoded fields.
func NewTimestamp(hours, minutes, seconds uint8) Timestamp {
	return Timestamp{Hours: hours, Minutes: minutes, Seconds: seconds}
}

// TimestampFromSeconds splits a seconds count into fields. A field that does
// not fit in a uint8 is clamped to 255 instead of wrapping.
func TimestampFromSeconds(total int) Timestamp {
	if total < 0 {
		total = 0
	}
	return Timestamp{
		Hours:   clampField(total / 3600),
		Minutes: clampField(total / 60 % 60),
		Seconds: clampField(total % 60),
	}
}

// TimestampFromDuration truncates d to whole seconds.
func TimestampFromDuration(d time.Duration) Timestamp {
	secs := d / time.Second
	if secs > math.MaxInt32 {
		secs = math.MaxInt32
	}
	return TimestampFromSeconds(int(secs))
}

func (t Timestamp) TotalSeconds() int {
	return int(t.Hours)*3600 + int(t.Minutes)*60 + int(t.Seconds)
}

func (t Timestamp) Duration() time.Duration {
	return time.Duration(t.TotalSeconds()) * time.Second
}

// HasPassed reports whether t is strictly later than other.
func (t Timestamp) HasPassed(other Timestamp) bool {
	return t.TotalSeconds() > other.TotalSeconds()
}

// Compare returns -1, 0 or +1 depending on whether t is before, equal to or
// after other.
func (t Timestamp) Compare(other Timestamp) int {
	a, b := t.TotalSeconds(), other.TotalSeconds()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func clampField(v int) uint8 {
	if v > math.MaxUint8 {
		return math.MaxUint8
	}
	return uint8(v)
}
