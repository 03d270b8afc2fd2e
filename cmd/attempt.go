package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmoreno/storyquiz/internal/store"
)

var attemptCmd = &cobra.Command{
	Use:   "attempt <question-id>=<option text> ...",
	Short: "Record a quiz attempt",
	Long: `Record a completed quiz attempt. Each argument is one selection in the
form <question-id>=<option text>. The attempt's overall score is given
with --score.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		score, _ := cmd.Flags().GetFloat64("score")

		selections := make([]store.Selection, 0, len(args))
		for _, arg := range args {
			id, text, ok := strings.Cut(arg, "=")
			if !ok {
				return fmt.Errorf("invalid selection %q, want <question-id>=<option text>", arg)
			}
			questionID, err := strconv.ParseInt(id, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid question id %q", id)
			}
			selections = append(selections, store.Selection{
				QuestionID: questionID,
				OptionText: text,
			})
		}

		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.service.RecordAttempt(cmd.Context(), app.cfg.User.Email, score, selections); err != nil {
			return err
		}
		fmt.Printf("Recorded attempt with %d selections (score %.2f)\n", len(selections), score)
		return nil
	},
}

func init() {
	attemptCmd.Flags().Float64("score", 0, "Overall score of the attempt")
}
