package library

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mgpai22/srtcue/internal/metrics"
	"github.com/mgpai22/srtcue/internal/subtitle"
)

const twoBlocks = "1\n00:00:01,000 --> 00:00:02,000\nfirst\nline\n\n2\n00:00:03,000 --> 00:00:04,000\nsecond\n"

func newTestLoader(t *testing.T, fsys fstest.MapFS, opts Options) *Loader {
	t.Helper()
	opts.Read = subtitle.ReadFS(fsys)
	l, err := New(opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return l
}

func TestLoaderLoad(t *testing.T) {
	fsys := fstest.MapFS{"a.srt": {Data: []byte(twoBlocks)}}
	l := newTestLoader(t, fsys, Options{CaptionSeparator: " "})

	records, err := l.Load(context.Background(), "a.srt")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Text != "first line" {
		t.Errorf("expected %q, got %q", "first line", records[0].Text)
	}
}

func TestLoaderCachesByContent(t *testing.T) {
	fsys := fstest.MapFS{
		"a.srt":    {Data: []byte(twoBlocks)},
		"copy.srt": {Data: []byte(twoBlocks)},
	}
	l := newTestLoader(t, fsys, Options{CacheSize: 4})

	hits := testutil.ToFloat64(metrics.TrackCacheLookupsTotal.WithLabelValues("hit"))

	first, err := l.Load(context.Background(), "a.srt")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	first[0].Text = "mutated by caller"

	second, err := l.Load(context.Background(), "copy.srt")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got := testutil.ToFloat64(metrics.TrackCacheLookupsTotal.WithLabelValues("hit")); got != hits+1 {
		t.Errorf("expected one cache hit, got %v", got-hits)
	}
	if second[0].Text != "firstline" {
		t.Errorf("cached records must not be shared with callers, got %q", second[0].Text)
	}
	if l.CacheLen() != 1 {
		t.Errorf("expected 1 cached track, got %d", l.CacheLen())
	}
}

func TestLoaderWithoutCache(t *testing.T) {
	fsys := fstest.MapFS{"a.srt": {Data: []byte(twoBlocks)}}
	l := newTestLoader(t, fsys, Options{})

	for i := 0; i < 2; i++ {
		if _, err := l.Load(context.Background(), "a.srt"); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
	}
	if l.CacheLen() != 0 {
		t.Errorf("expected no cache, got %d entries", l.CacheLen())
	}
}

func TestLoaderLegacyEncoding(t *testing.T) {
	data := []byte("1\n00:00:01,000 --> 00:00:02,000\nCaf\xe9\n")
	fsys := fstest.MapFS{"legacy.srt": {Data: data}}
	l := newTestLoader(t, fsys, Options{Encoding: "windows-1252"})

	records, err := l.Load(context.Background(), "legacy.srt")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if records[0].Text != "Café" {
		t.Errorf("expected Café, got %q", records[0].Text)
	}
}

func TestLoaderRejectsUnknownEncoding(t *testing.T) {
	if _, err := New(Options{Encoding: "not-a-charset"}); err == nil {
		t.Fatal("expected error for unknown encoding")
	}
}

func TestLoaderMalformedFile(t *testing.T) {
	fsys := fstest.MapFS{"bad.srt": {Data: []byte("1\n00:99x --> nope\nText\n")}}
	l := newTestLoader(t, fsys, Options{CacheSize: 4})

	failures := testutil.ToFloat64(metrics.ParsesTotal.WithLabelValues("error"))

	_, err := l.Load(context.Background(), "bad.srt")
	if !errors.Is(err, subtitle.ErrMalformedTimestamp) {
		t.Fatalf("expected ErrMalformedTimestamp, got %v", err)
	}
	if got := testutil.ToFloat64(metrics.ParsesTotal.WithLabelValues("error")); got != failures+1 {
		t.Errorf("expected error counter to increase by 1, got %v", got-failures)
	}
	if l.CacheLen() != 0 {
		t.Error("failed parses must not be cached")
	}
}

func TestLoaderQueue(t *testing.T) {
	fsys := fstest.MapFS{"a.srt": {Data: []byte(twoBlocks)}}
	l := newTestLoader(t, fsys, Options{})

	q, err := l.Queue(context.Background(), "a.srt")
	if err != nil {
		t.Fatalf("Queue failed: %v", err)
	}
	if q.Len() != 2 || q.Position() != 0 {
		t.Errorf("expected fresh queue of 2, got len=%d pos=%d", q.Len(), q.Position())
	}
}
