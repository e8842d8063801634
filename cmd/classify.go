package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"inkwell/atlas/internal/classify"
)

var (
	classifyKeywords string
	classifyJSON     bool
)

var classifyCmd = &cobra.Command{
	Use:   "classify <text>",
	Short: "Guess the research category of a summary",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		summary := strings.Join(args, " ")
		keywords := splitList(classifyKeywords)
		category := classify.Classify(summary, keywords)

		if classifyJSON {
			return printJSON(struct {
				Category string          `json:"category"`
				Scores   classify.Scores `json:"scores"`
			}{string(category), classify.Score(summary, keywords)})
		}

		fmt.Printf("%s (%s)\n", category, category.DisplayName())
		return nil
	},
}

func init() {
	classifyCmd.Flags().StringVar(&classifyKeywords, "keywords", "", "Comma-separated keywords")
	classifyCmd.Flags().BoolVar(&classifyJSON, "json", false, "Output category and term scores as JSON")
	rootCmd.AddCommand(classifyCmd)
}
