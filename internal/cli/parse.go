package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mgpai22/srtcue/internal/player"
	"github.com/mgpai22/srtcue/internal/subtitle"
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse [srt_file]",
	Short: "Parse an SRT file and list its captions",
	Long: `Parse an SRT file and print every caption with its start and end time.

A malformed timestamp line fails the whole file.

Examples:
  srtcue parse movie.srt
  srtcue parse movie.srt --json
  srtcue parse legacy.srt --encoding windows-1252 --join " "`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().Bool("json", false, "Print captions as JSON")
}

func runParse(cmd *cobra.Command, args []string) error {
	path := args[0]
	asJSON, _ := cmd.Flags().GetBool("json")

	loader, err := newLoader(cmd)
	if err != nil {
		return err
	}

	records, err := loader.Load(cmd.Context(), path)
	if err != nil {
		return err
	}

	logger.Infow("Parsed subtitle track",
		"file", path,
		"captions", len(records),
	)

	if asJSON {
		return writeJSON(cmd.OutOrStdout(), records)
	}
	return writeTable(cmd.OutOrStdout(), records)
}

func writeJSON(w io.Writer, records []subtitle.Record) error {
	if records == nil {
		records = []subtitle.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func writeTable(w io.Writer, records []subtitle.Record) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSTART\tEND\tTEXT")
	for _, rec := range records {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n",
			rec.Index,
			player.FormatTimestamp(rec.Start),
			player.FormatTimestamp(rec.End),
			singleLine(rec.Text),
		)
	}
	return tw.Flush()
}

func singleLine(text string) string {
	text = strings.ReplaceAll(text, "\r\n", " / ")
	return strings.ReplaceAll(text, "\n", " / ")
}
