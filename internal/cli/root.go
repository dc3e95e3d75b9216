package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mgpai22/srtcue/internal/config"
	"github.com/mgpai22/srtcue/internal/library"
	"github.com/mgpai22/srtcue/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configFile string
	cfg        *config.Config
	logger     *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "srtcue",
	Short: "Parse and play SRT subtitle tracks",
	Long: `srtcue parses SubRip (.srt) subtitle files into timed captions and
plays them back against a clock in the terminal.

It can also pull an embedded subtitle stream out of a video file with ffmpeg.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configFile)
		if err != nil {
			return err
		}
		cfg = loaded

		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		logger = logging.NewLoggerWithLevel(level)
		return nil
	},
}

func Execute() error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVar(&configFile, "config", "", "Config file (default: srtcue.yaml in . or ./config)")
	rootCmd.PersistentFlags().
		StringP("encoding", "e", "", "Text encoding for files without a BOM (e.g., utf-8, windows-1252)")
	rootCmd.PersistentFlags().
		StringP("join", "j", "", `Separator between caption lines (e.g., "\n", " ")`)
}

// stringSetting returns the flag value when it was set on the command line
// and fallback otherwise.
func stringSetting(cmd *cobra.Command, name, fallback string) string {
	if !cmd.Flags().Changed(name) {
		return fallback
	}
	v, _ := cmd.Flags().GetString(name)
	return v
}

// unescapeSeparator turns the escape sequences people type in a shell into
// the characters they mean.
func unescapeSeparator(s string) string {
	return strings.NewReplacer(`\r\n`, "\r\n", `\n`, "\n", `\t`, "\t").Replace(s)
}

func newLoader(cmd *cobra.Command) (*library.Loader, error) {
	ttl, err := cfg.CacheTTL()
	if err != nil {
		return nil, err
	}

	loader, err := library.New(library.Options{
		Encoding: stringSetting(cmd, "encoding", cfg.Encoding),
		CaptionSeparator: unescapeSeparator(
			stringSetting(cmd, "join", cfg.CaptionSeparator),
		),
		CacheSize: cfg.Cache.Size,
		CacheTTL:  ttl,
		Logger:    logger.Sugar(),
	})
	if err != nil {
		return nil, fmt.Errorf("invalid loader settings: %w", err)
	}
	return loader, nil
}
