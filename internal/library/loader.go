package library

import (
	"context"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"github.com/mgpai22/srtcue/internal/metrics"
	"github.com/mgpai22/srtcue/internal/subtitle"
)

// Options configures a Loader.
type Options struct {
	// Read fetches raw bytes. Defaults to subtitle.ReadFile.
	Read subtitle.ReadFunc

	// Encoding is used for files without a byte order mark. Empty means UTF-8.
	Encoding string

	CaptionSeparator string

	// CacheSize is the maximum number of parsed tracks kept in memory.
	// Zero disables caching.
	CacheSize int

	// CacheTTL is the time-to-live for cached tracks. Zero means no expiry.
	CacheTTL time.Duration

	Logger *zap.SugaredLogger
}

// Loader turns a path into parsed records: read, decode, parse. Parsed tracks
// are cached by content hash so replaying or reopening an unchanged file
// skips the parser.
type Loader struct {
	read     subtitle.ReadFunc
	encoding string
	parser   *subtitle.Parser
	cache    *lru.LRU[uint64, []subtitle.Record]
	logger   *zap.SugaredLogger
}

func New(opts Options) (*Loader, error) {
	if _, err := subtitle.DecodeText(nil, opts.Encoding); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	read := opts.Read
	if read == nil {
		read = subtitle.ReadFile
	}

	l := &Loader{
		read:     read,
		encoding: opts.Encoding,
		parser: subtitle.NewParser(
			subtitle.WithCaptionSeparator(opts.CaptionSeparator),
			subtitle.WithLogger(logger),
		),
		logger: logger,
	}
	if opts.CacheSize > 0 {
		l.cache = lru.NewLRU[uint64, []subtitle.Record](opts.CacheSize, nil, opts.CacheTTL)
	}
	return l, nil
}

// Load reads and parses path.
func (l *Loader) Load(ctx context.Context, path string) ([]subtitle.Record, error) {
	data, err := l.read(ctx, path)
	if err != nil {
		return nil, err
	}
	records, err := l.Parse(path, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return records, nil
}

// Queue loads path and wraps the records in a fresh playback queue.
func (l *Loader) Queue(ctx context.Context, path string) (*subtitle.Queue, error) {
	records, err := l.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	return subtitle.NewQueue(records), nil
}

// Parse decodes and parses already loaded bytes. name is only used for logs.
func (l *Loader) Parse(name string, data []byte) ([]subtitle.Record, error) {
	key := xxhash.Sum64(data)
	if l.cache != nil {
		if cached, ok := l.cache.Get(key); ok {
			metrics.TrackCacheLookupsTotal.WithLabelValues("hit").Inc()
			l.logger.Debugw("Parsed track served from cache", "file", name)
			return cloneRecords(cached), nil
		}
		metrics.TrackCacheLookupsTotal.WithLabelValues("miss").Inc()
	}

	started := time.Now()
	text, err := subtitle.DecodeText(data, l.encoding)
	if err != nil {
		metrics.ParsesTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	records, err := l.parser.Parse(text)
	metrics.ParseDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		metrics.ParsesTotal.WithLabelValues("error").Inc()
		l.logger.Warnw("Subtitle parse aborted", "file", name, "error", err)
		return nil, err
	}

	metrics.ParsesTotal.WithLabelValues("success").Inc()
	metrics.RecordsParsedTotal.Add(float64(len(records)))
	l.logger.Debugw("Parsed subtitle file",
		"file", name,
		"records", len(records),
		"bytes", len(data),
	)

	if l.cache != nil {
		l.cache.Add(key, cloneRecords(records))
	}
	return records, nil
}

// CacheLen reports the number of cached tracks.
func (l *Loader) CacheLen() int {
	if l.cache == nil {
		return 0
	}
	return l.cache.Len()
}

func cloneRecords(records []subtitle.Record) []subtitle.Record {
	out := make([]subtitle.Record, len(records))
	copy(out, records)
	return out
}
