package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/mgpai22/srtcue/internal/metrics"
	"github.com/mgpai22/srtcue/internal/player"
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play [srt_file]",
	Short: "Play an SRT file in the terminal",
	Long: `Play an SRT file against a clock, showing each caption while it is active.

The interactive player supports pause (space), restart (r), sync delay
adjustment (+/-) and quit (q). Use --plain to print captions line by line
instead.

Examples:
  srtcue play movie.srt
  srtcue play movie.srt --sync-delay 1.5s
  srtcue play movie.srt --plain --speed 4
  srtcue play movie.srt --metrics-port 9090`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().
		Bool("plain", false, "Print captions to stdout instead of the interactive player")
	playCmd.Flags().
		Duration("sync-delay", 0, "Shift captions later (positive) or earlier (negative)")
	playCmd.Flags().
		Float64("speed", 1.0, "Playback speed factor")
	playCmd.Flags().
		Duration("tick", 100*time.Millisecond, "How often captions are synced to the clock")
	playCmd.Flags().
		Int("metrics-port", 0, "Serve Prometheus metrics on this port (0 disables)")
}

func runPlay(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx := cmd.Context()
	plain, _ := cmd.Flags().GetBool("plain")

	opts, err := playbackOptions(cmd)
	if err != nil {
		return err
	}

	loader, err := newLoader(cmd)
	if err != nil {
		return err
	}
	queue, err := loader.Queue(ctx, path)
	if err != nil {
		return err
	}

	port := cfg.Metrics.Port
	if cmd.Flags().Changed("metrics-port") {
		port, _ = cmd.Flags().GetInt("metrics-port")
	}
	if port > 0 {
		stop := serveMetrics(cfg.Metrics.Address, port)
		defer stop()
	}

	logger.Infow("Starting playback",
		"file", path,
		"captions", queue.Len(),
		"speed", opts.Speed,
		"sync_delay", opts.SyncDelay,
		"plain", plain,
	)

	if plain {
		err = player.RunPlain(ctx, queue, opts, cmd.OutOrStdout())
	} else {
		err = player.Run(ctx, queue, filepath.Base(path), opts)
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func playbackOptions(cmd *cobra.Command) (player.Options, error) {
	opts := player.Options{Logger: logger.Sugar()}

	opts.Speed = cfg.Player.Speed
	if cmd.Flags().Changed("speed") {
		opts.Speed, _ = cmd.Flags().GetFloat64("speed")
	}
	if opts.Speed <= 0 {
		return player.Options{}, fmt.Errorf("speed must be positive, got %v", opts.Speed)
	}

	if cmd.Flags().Changed("tick") {
		opts.Tick, _ = cmd.Flags().GetDuration("tick")
	} else {
		tick, err := cfg.TickInterval()
		if err != nil {
			return player.Options{}, err
		}
		opts.Tick = tick
	}
	if opts.Tick <= 0 {
		return player.Options{}, fmt.Errorf("tick must be positive, got %s", opts.Tick)
	}

	if cmd.Flags().Changed("sync-delay") {
		opts.SyncDelay, _ = cmd.Flags().GetDuration("sync-delay")
	} else {
		delay, err := cfg.SyncDelayDuration()
		if err != nil {
			return player.Options{}, err
		}
		opts.SyncDelay = delay
	}

	return opts, nil
}

// serveMetrics starts the metrics endpoint in the background and returns a
// function that shuts it down.
func serveMetrics(address string, port int) func() {
	srv := metrics.NewHTTPServer(address, port)
	go func() {
		logger.Infow("Serving metrics", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			logger.Warnw("Metrics server stopped", "error", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warnw("Failed to shut down metrics server", "error", err)
		}
	}
}
