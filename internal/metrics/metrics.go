package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Parsing metrics
var (
	ParsesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "srtcue_parses_total",
			Help: "Total number of subtitle files parsed.",
		},
		[]string{"status"},
	)

	RecordsParsedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "srtcue_records_parsed_total",
			Help: "Total number of subtitle records decoded.",
		},
	)

	ParseDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "srtcue_parse_duration_seconds",
			Help:    "Time spent decoding and parsing a subtitle file.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		},
	)

	TrackCacheLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "srtcue_track_cache_lookups_total",
			Help: "Parsed track cache lookups by result.",
		},
		[]string{"result"},
	)
)

// Playback metrics
var (
	CaptionsShownTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "srtcue_captions_shown_total",
			Help: "Total number of captions that became active during playback.",
		},
	)

	QueuePosition = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "srtcue_queue_position",
			Help: "Current cursor position of the playback queue.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		ParsesTotal,
		RecordsParsedTotal,
		ParseDuration,
		TrackCacheLookupsTotal,
		CaptionsShownTotal,
		QueuePosition,
	)
}
