package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"sprintlens/internal/analysis"
	"sprintlens/internal/report"
)

var (
	compareAll   bool
	compareLimit int
)

var compareCmd = &cobra.Command{
	Use:   "compare [sprint...]",
	Short: "Compare completion and velocity across catalog sprints",
	RunE: func(cmd *cobra.Command, args []string) error {
		names := args
		if compareAll {
			names = cfg.Catalog.Names()
		}
		if len(names) == 0 {
			return fmt.Errorf("name at least one sprint or pass --all")
		}

		rows, err := svc.Compare(cmd.Context(), names, compareLimit)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), report.CompareMarkdown(rows))
		return err
	},
}

func init() {
	compareCmd.Flags().BoolVar(&compareAll, "all", false, "compare every sprint in the catalog")
	compareCmd.Flags().IntVar(&compareLimit, "limit", analysis.DefaultCompareLimit, "maximum concurrent sprint fetches")
	rootCmd.AddCommand(compareCmd)
}
