package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"sprintlens/internal/report"
	"sprintlens/internal/snapshot"
)

var (
	reportOut  string
	reportOpen bool
	reportJSON bool
)

var reportCmd = &cobra.Command{
	Use:   "report <sprint>",
	Short: "Render the Markdown progress report for a catalog sprint",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := svc.Report(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if reportJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(r)
		}

		out := reportOut
		if out == "" && reportOpen {
			name := strings.TrimSuffix(snapshot.FileName(r.Sprint), ".jsonl")
			out = filepath.Join(cfg.CacheDir, name+".md")
		}
		if out == "" {
			return report.Write(cmd.OutOrStdout(), r)
		}

		if err := os.WriteFile(out, []byte(report.Markdown(r)), 0644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		log.Info().Str("path", out).Str("sprint", r.Sprint).Msg("Report written")

		if reportOpen {
			if err := browser.OpenFile(out); err != nil {
				log.Warn().Err(err).Str("path", out).Msg("Could not open report")
			}
		}
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "", "write the report to a file instead of stdout")
	reportCmd.Flags().BoolVar(&reportOpen, "open", false, "open the written report with the system viewer")
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "print the report data as JSON")
	rootCmd.AddCommand(reportCmd)
}
