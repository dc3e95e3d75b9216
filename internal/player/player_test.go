package player

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mgpai22/srtcue/internal/subtitle"
)

// fakeNow is a manually advanced clock source.
type fakeNow struct {
	t time.Time
}

func (f *fakeNow) Now() time.Time { return f.t }

func (f *fakeNow) Advance(d time.Duration) { f.t = f.t.Add(d) }

func testQueue() *subtitle.Queue {
	return subtitle.NewQueue([]subtitle.Record{
		{Index: 1, Text: "Hello", Start: subtitle.NewTimestamp(0, 0, 1), End: subtitle.NewTimestamp(0, 0, 3)},
		{Index: 2, Text: "World", Start: subtitle.NewTimestamp(0, 0, 5), End: subtitle.NewTimestamp(0, 0, 8)},
	})
}

func TestClock(t *testing.T) {
	now := &fakeNow{t: time.Unix(1000, 0)}
	c := NewClock(2, now.Now)

	now.Advance(time.Second)
	if got := c.Position(); got != 2*time.Second {
		t.Fatalf("expected 2s at double speed, got %v", got)
	}

	c.Pause()
	now.Advance(10 * time.Second)
	if got := c.Position(); got != 2*time.Second {
		t.Fatalf("expected paused clock to hold 2s, got %v", got)
	}

	c.Resume()
	now.Advance(500 * time.Millisecond)
	if got := c.Position(); got != 3*time.Second {
		t.Fatalf("expected 3s after resume, got %v", got)
	}

	c.Reset()
	if got := c.Position(); got != 0 {
		t.Fatalf("expected 0 after reset, got %v", got)
	}
}

func TestPlaybackStep(t *testing.T) {
	now := &fakeNow{t: time.Unix(0, 0)}
	pb := NewPlayback(testQueue(), Options{Now: now.Now})

	steps := []struct {
		at          time.Duration
		wantText    string
		wantChanged bool
	}{
		{0, "", false},
		{1500 * time.Millisecond, "", false}, // 1s is not past the 1s start
		{2 * time.Second, "Hello", true},
		{3 * time.Second, "Hello", false},
		{4 * time.Second, "", true},
		{6 * time.Second, "World", true},
		{9 * time.Second, "", true},
	}

	for _, step := range steps {
		now.t = time.Unix(0, 0).Add(step.at)
		rec, ok, changed := pb.Step()
		text := ""
		if ok {
			text = rec.Text
		}
		if text != step.wantText {
			t.Errorf("at %v: expected caption %q, got %q", step.at, step.wantText, text)
		}
		if changed != step.wantChanged {
			t.Errorf("at %v: expected changed=%v, got %v", step.at, step.wantChanged, changed)
		}
	}

	if !pb.Done() {
		t.Error("expected playback to be done")
	}

	pb.Rewind()
	if pb.Done() {
		t.Error("expected rewind to refill the queue")
	}
}

func TestPlaybackSyncDelay(t *testing.T) {
	now := &fakeNow{t: time.Unix(0, 0)}
	pb := NewPlayback(testQueue(), Options{Now: now.Now, SyncDelay: 2 * time.Second})

	now.Advance(2 * time.Second)
	if _, ok, _ := pb.Step(); ok {
		t.Error("expected delayed caption not to be shown yet")
	}

	now.Advance(2 * time.Second)
	rec, ok, _ := pb.Step()
	if !ok || rec.Index != 1 {
		t.Errorf("expected caption 1 with delay, got %+v (ok=%v)", rec, ok)
	}

	pb.AdjustSyncDelay(-syncDelayStep)
	if pb.SyncDelay() != 1500*time.Millisecond {
		t.Errorf("expected 1.5s delay, got %v", pb.SyncDelay())
	}
}

type callbackWriter struct {
	bytes.Buffer
	onWrite func()
}

func (w *callbackWriter) Write(p []byte) (int, error) {
	w.onWrite()
	return w.Buffer.Write(p)
}

func TestRunPlain(t *testing.T) {
	base := time.Unix(0, 0)
	calls := 0
	// every Position() call moves the clock one second forward
	now := func() time.Time {
		calls++
		return base.Add(time.Duration(calls-1) * time.Second)
	}

	var out bytes.Buffer
	err := RunPlain(context.Background(), testQueue(), Options{Tick: time.Millisecond, Now: now}, &out)
	if err != nil {
		t.Fatalf("RunPlain failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), out.String())
	}
	if lines[0] != "[00:00:01 --> 00:00:03] #1 Hello" {
		t.Errorf("unexpected first line %q", lines[0])
	}
	if lines[1] != "[00:00:05 --> 00:00:08] #2 World" {
		t.Errorf("unexpected second line %q", lines[1])
	}
}

func TestRunPlainStopsOnContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	base := time.Unix(0, 0)
	calls := 0
	now := func() time.Time {
		calls++
		return base.Add(time.Duration(calls-1) * time.Second)
	}

	w := &callbackWriter{onWrite: cancel}
	err := RunPlain(ctx, testQueue(), Options{Tick: time.Millisecond, Now: now}, w)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if !strings.Contains(w.String(), "Hello") {
		t.Errorf("expected first caption before cancel, got %q", w.String())
	}
	if strings.Contains(w.String(), "World") {
		t.Errorf("expected playback to stop after cancel, got %q", w.String())
	}
}

func TestModelUpdate(t *testing.T) {
	now := &fakeNow{t: time.Unix(0, 0)}
	m := NewModel(testQueue(), "episode.srt", Options{Now: now.Now, Tick: time.Millisecond})

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	m = updated.(Model)

	now.Advance(2 * time.Second)
	updated, cmd := m.Update(tickMsg(now.t))
	m = updated.(Model)
	if cmd == nil {
		t.Fatal("expected next tick command")
	}

	view := m.View()
	if !strings.Contains(view, "Hello") {
		t.Errorf("expected caption in view, got:\n%s", view)
	}
	if !strings.Contains(view, "episode.srt") {
		t.Errorf("expected title in view, got:\n%s", view)
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace})
	m = updated.(Model)
	if !strings.Contains(m.View(), "paused") {
		t.Error("expected paused state after space")
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}})
	m = updated.(Model)
	if m.playback.SyncDelay() != syncDelayStep {
		t.Errorf("expected delay %v, got %v", syncDelayStep, m.playback.SyncDelay())
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = updated.(Model)
	if _, ok := m.playback.Current(); ok {
		t.Error("expected no caption right after reset")
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestModelQuitsWhenDrained(t *testing.T) {
	now := &fakeNow{t: time.Unix(0, 0)}
	m := NewModel(testQueue(), "", Options{Now: now.Now})

	now.Advance(time.Minute)
	updated, cmd := m.Update(tickMsg(now.t))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg once the queue is drained")
	}
	if !strings.Contains(updated.(Model).View(), "finished") {
		t.Error("expected finished state in view")
	}
}
