package video

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	ffmpegbin "github.com/mgpai22/srtcue/internal/ffmpeg"
)

// embedded subtitle stream information
type Stream struct {
	// Index is the absolute stream index in the container.
	Index int `json:"index"`
	// SubtitleIndex is the position among subtitle streams, as used by
	// ExtractOptions.Stream.
	SubtitleIndex int    `json:"subtitle_index"`
	Codec         string `json:"codec"`
	Language      string `json:"language,omitempty"`
	Title         string `json:"title,omitempty"`
	Default       bool   `json:"default"`
}

// defines interface for subtitle stream operations on video files
type Processor interface {
	// lists subtitle streams in the container
	ListSubtitleStreams(ctx context.Context, videoPath string) ([]Stream, error)

	// extracts one subtitle stream as an .srt file
	ExtractSubtitles(
		ctx context.Context,
		videoPath, outputPath string,
		opts ExtractOptions,
	) error
}

// holds options for subtitle extraction
type ExtractOptions struct {
	Stream int // Position among subtitle streams (0 = first)
}

// default implementation using ffmpeg
type DefaultProcessor struct{}

func NewProcessor() *DefaultProcessor {
	return &DefaultProcessor{}
}

// JSON output from ffprobe -show_streams
type ffprobeOutput struct {
	Streams []struct {
		Index       int    `json:"index"`
		CodecName   string `json:"codec_name"`
		Disposition struct {
			Default int `json:"default"`
		} `json:"disposition"`
		Tags map[string]string `json:"tags"`
	} `json:"streams"`
}

func (p *DefaultProcessor) ListSubtitleStreams(
	ctx context.Context,
	videoPath string,
) ([]Stream, error) {
	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("video file not found: %s", videoPath)
	}

	ffprobePath, err := ffmpegbin.FFprobePath()
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"-select_streams", "s",
		videoPath,
	)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	return parseStreams(out.Bytes())
}

func parseStreams(data []byte) ([]Stream, error) {
	var probe ffprobeOutput
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	streams := make([]Stream, 0, len(probe.Streams))
	for i, s := range probe.Streams {
		streams = append(streams, Stream{
			Index:         s.Index,
			SubtitleIndex: i,
			Codec:         s.CodecName,
			Language:      s.Tags["language"],
			Title:         s.Tags["title"],
			Default:       s.Disposition.Default == 1,
		})
	}
	return streams, nil
}

// extracts a subtitle stream, converting it to SubRip
func (p *DefaultProcessor) ExtractSubtitles(
	ctx context.Context,
	videoPath, outputPath string,
	opts ExtractOptions,
) error {
	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return fmt.Errorf("video file not found: %s", videoPath)
	}
	if opts.Stream < 0 {
		return fmt.Errorf("invalid subtitle stream %d", opts.Stream)
	}

	outputDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	ffmpegPath, err := ffmpegbin.FFmpegPath()
	if err != nil {
		return err
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, ffmpegPath, extractArgs(videoPath, outputPath, opts)...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf(
			"ffmpeg extraction failed: %w: %s",
			err,
			lastLine(stderr.String()),
		)
	}

	return nil
}

func extractArgs(videoPath, outputPath string, opts ExtractOptions) []string {
	return ffmpeg.Input(videoPath).
		Output(outputPath, ffmpeg.KwArgs{
			"map": fmt.Sprintf("0:s:%d", opts.Stream),
			"c:s": "srt", // Re-encode any text subtitle codec to SubRip
			"f":   "srt",
		}).
		OverWriteOutput().
		GetArgs()
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}

// IsVideoFile checks whether path has a container extension that can carry
// subtitle streams.
func IsVideoFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	videoExts := map[string]bool{
		".mp4":  true,
		".mkv":  true,
		".mk3d": true,
		".avi":  true,
		".mov":  true,
		".webm": true,
		".m4v":  true,
		".ts":   true,
		".m2ts": true,
		".ogm":  true,
	}
	return videoExts[ext]
}
