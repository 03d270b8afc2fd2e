package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dmoreno/storyquiz/internal/store"
)

var questionsCmd = &cobra.Command{
	Use:   "questions <story-id>",
	Short: "Fetch a story's quiz questions",
	Long: `Fetch the question set for a quiz session on a story.

In review mode only the questions the user has not yet answered
correctly on their latest attempt are returned.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		storyID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid story id %q", args[0])
		}
		review, _ := cmd.Flags().GetBool("review")
		asJSON, _ := cmd.Flags().GetBool("json")

		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		questions, err := app.service.StoryQuestions(cmd.Context(), app.cfg.User.Email, storyID, review)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("story %d not found", storyID)
		}
		if err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(questions)
		}

		for _, q := range questions {
			fmt.Printf("[%d] %s\n", q.ID, q.Statement)
			for i, opt := range q.Options {
				fmt.Printf("    %c) %s\n", 'A'+i, opt.Text)
			}
		}
		return nil
	},
}

func init() {
	questionsCmd.Flags().Bool("review", false, "Only questions not yet answered correctly")
	questionsCmd.Flags().Bool("json", false, "Emit the raw payload as JSON")
}
