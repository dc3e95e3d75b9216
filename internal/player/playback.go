package player

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/mgpai22/srtcue/internal/metrics"
	"github.com/mgpai22/srtcue/internal/subtitle"
)

const syncDelayStep = 500 * time.Millisecond

// Options configures playback.
type Options struct {
	// Tick is how often the queue is synced against the clock.
	Tick  time.Duration
	Speed float64
	// SyncDelay shifts every caption; positive values show captions later.
	SyncDelay time.Duration
	// Now replaces time.Now, mainly for tests.
	Now    func() time.Time
	Logger *zap.SugaredLogger
}

func (o Options) withDefaults() Options {
	if o.Tick <= 0 {
		o.Tick = 100 * time.Millisecond
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop().Sugar()
	}
	return o
}

// Playback advances a queue against a clock.
type Playback struct {
	queue     *subtitle.Queue
	clock     *Clock
	syncDelay time.Duration
	logger    *zap.SugaredLogger

	current  subtitle.Record
	showing  bool
	shownPos int
}

func NewPlayback(queue *subtitle.Queue, opts Options) *Playback {
	opts = opts.withDefaults()
	return &Playback{
		queue:     queue,
		clock:     NewClock(opts.Speed, opts.Now),
		syncDelay: opts.SyncDelay,
		logger:    opts.Logger,
		shownPos:  -1,
	}
}

// Step syncs the queue with the clock. changed is true when the visible
// caption differs from the previous step.
func (p *Playback) Step() (rec subtitle.Record, ok bool, changed bool) {
	now := subtitle.TimestampFromDuration(p.clock.Position())
	rec, ok = p.queue.Sync(now, p.syncDelay)
	metrics.QueuePosition.Set(float64(p.queue.Position()))

	pos := p.queue.Position()
	switch {
	case ok && pos != p.shownPos:
		p.shownPos = pos
		changed = true
		metrics.CaptionsShownTotal.Inc()
		p.logger.Debugw("Caption shown",
			"index", rec.Index,
			"position", pos,
			"clock_seconds", now.TotalSeconds(),
		)
	case !ok && p.showing:
		changed = true
	}

	p.current, p.showing = rec, ok
	return rec, ok, changed
}

// Current returns the caption shown by the last Step.
func (p *Playback) Current() (subtitle.Record, bool) {
	return p.current, p.showing
}

// Done reports whether every caption has ended.
func (p *Playback) Done() bool {
	return !p.queue.CanDequeue()
}

func (p *Playback) Clock() *Clock {
	return p.clock
}

func (p *Playback) SyncDelay() time.Duration {
	return p.syncDelay
}

func (p *Playback) AdjustSyncDelay(delta time.Duration) {
	p.syncDelay += delta
}

// Rewind restarts the clock and the queue.
func (p *Playback) Rewind() {
	p.queue.Reset()
	p.clock.Reset()
	p.shownPos = -1
	p.current, p.showing = subtitle.Record{}, false
}

// RunPlain prints each caption to w as it becomes active and returns once the
// queue is drained or ctx is done.
func RunPlain(ctx context.Context, queue *subtitle.Queue, opts Options, w io.Writer) error {
	opts = opts.withDefaults()
	pb := NewPlayback(queue, opts)

	ticker := time.NewTicker(opts.Tick)
	defer ticker.Stop()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		rec, ok, changed := pb.Step()
		if changed && ok {
			if _, err := fmt.Fprintf(w, "[%s --> %s] #%d %s\n",
				FormatTimestamp(rec.Start),
				FormatTimestamp(rec.End),
				rec.Index,
				rec.Text,
			); err != nil {
				return err
			}
		}
		if pb.Done() {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// FormatTimestamp renders ts as HH:MM:SS.
func FormatTimestamp(ts subtitle.Timestamp) string {
	return fmt.Sprintf("%02d:%02d:%02d", ts.Hours, ts.Minutes, ts.Seconds)
}
