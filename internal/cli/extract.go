package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/mgpai22/srtcue/internal/video"
	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract [video_file]",
	Short: "Extract an embedded subtitle stream from a video file",
	Long: `Extract a subtitle stream from a video container and save it as an SRT file.

Text subtitle codecs (subrip, ass, mov_text, webvtt) are converted to SRT by
ffmpeg. The extracted file is parsed afterwards to make sure it is usable.

Examples:
  srtcue extract movie.mkv --list
  srtcue extract movie.mkv
  srtcue extract movie.mkv --stream 1 -o movie.en.srt`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().
		IntP("stream", "s", 0, "Subtitle stream to extract (0 = first subtitle stream)")
	extractCmd.Flags().
		Bool("list", false, "List subtitle streams instead of extracting")
	extractCmd.Flags().
		StringP("output", "o", "", "Output file path")
}

func runExtract(cmd *cobra.Command, args []string) error {
	videoPath := args[0]
	ctx := cmd.Context()

	stream, _ := cmd.Flags().GetInt("stream")
	list, _ := cmd.Flags().GetBool("list")
	outputPath, _ := cmd.Flags().GetString("output")

	if !video.IsVideoFile(videoPath) {
		return fmt.Errorf(
			"unsupported file type: %s (expected a video file)",
			filepath.Ext(videoPath),
		)
	}

	processor := video.NewProcessor()

	if list {
		streams, err := processor.ListSubtitleStreams(ctx, videoPath)
		if err != nil {
			return fmt.Errorf("failed to list subtitle streams: %w", err)
		}
		return writeStreams(cmd.OutOrStdout(), streams)
	}

	if outputPath == "" {
		outputPath = defaultOutputPath(videoPath, stream)
	}

	logger.Infow("Extracting subtitles",
		"video", videoPath,
		"output", outputPath,
		"stream", stream,
	)

	if err := processor.ExtractSubtitles(
		ctx,
		videoPath,
		outputPath,
		video.ExtractOptions{Stream: stream},
	); err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	loader, err := newLoader(cmd)
	if err != nil {
		return err
	}
	records, err := loader.Load(ctx, outputPath)
	if err != nil {
		return fmt.Errorf("extracted file is not valid SRT: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Fprintf(cmd.OutOrStdout(),
		"Subtitles extracted successfully: %s (%d captions)\n",
		absOutput,
		len(records),
	)

	return nil
}

func defaultOutputPath(videoPath string, stream int) string {
	base := strings.TrimSuffix(videoPath, filepath.Ext(videoPath))
	if stream == 0 {
		return base + ".srt"
	}
	return fmt.Sprintf("%s.%d.srt", base, stream)
}

func writeStreams(w io.Writer, streams []video.Stream) error {
	if len(streams) == 0 {
		_, err := fmt.Fprintln(w, "No subtitle streams found")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STREAM\tINDEX\tCODEC\tLANGUAGE\tTITLE\tDEFAULT")
	for _, s := range streams {
		def := ""
		if s.Default {
			def = "yes"
		}
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%s\n",
			s.SubtitleIndex,
			s.Index,
			s.Codec,
			s.Language,
			s.Title,
			def,
		)
	}
	return tw.Flush()
}
