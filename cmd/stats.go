package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmoreno/storyquiz/internal/mastery"
	"github.com/dmoreno/storyquiz/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show answered/total question counts for a story or objective",
	RunE: func(cmd *cobra.Command, args []string) error {
		storyID, _ := cmd.Flags().GetInt64("story")
		objectiveID, _ := cmd.Flags().GetInt64("objective")
		asJSON, _ := cmd.Flags().GetBool("json")

		if (storyID == 0) == (objectiveID == 0) {
			return errors.New("exactly one of --story or --objective is required")
		}

		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		var stats *mastery.ScopeStats
		if storyID != 0 {
			stats, err = app.service.StoryStats(cmd.Context(), app.cfg.User.Email, storyID)
		} else {
			stats, err = app.service.ObjectiveStats(cmd.Context(), app.cfg.User.Email, objectiveID)
		}
		if errors.Is(err, store.ErrNotFound) {
			return errors.New("no such story or objective")
		}
		if err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(stats)
		}
		fmt.Printf("Answered %d of %d questions\n", stats.AnsweredQuestions, stats.TotalQuestions)
		return nil
	},
}

func init() {
	statsCmd.Flags().Int64("story", 0, "Story to report on")
	statsCmd.Flags().Int64("objective", 0, "Objective to report on")
	statsCmd.Flags().Bool("json", false, "Emit the raw payload as JSON")
}
