package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	classifyType string
	classifyTags []string
)

var classifyCmd = &cobra.Command{
	Use:   "classify <title>",
	Short: "Assign a category to a work item title",
	Example: `  sprintlens classify "Fix login crash" --type Bug
  sprintlens classify "Redesign settings page" --tag UXE`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title := strings.Join(args, " ")
		category := svc.Classifier().Classify(title, classifyType, classifyTags)
		_, err := fmt.Fprintln(cmd.OutOrStdout(), category)
		return err
	},
}

func init() {
	classifyCmd.Flags().StringVarP(&classifyType, "type", "t", "", "work item type, e.g. Bug or User Story")
	classifyCmd.Flags().StringSliceVar(&classifyTags, "tag", nil, "work item tag (repeatable)")
	rootCmd.AddCommand(classifyCmd)
}
