package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the learner's mastery dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		d, err := app.service.Dashboard(cmd.Context(), app.cfg.User.Email)
		if err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(d)
		}

		fmt.Printf("Questions available: %d\n", d.Stats.QuestionsAvailable)
		fmt.Printf("Questions pending:   %d (%d%%)\n", d.Stats.QuestionsPending, d.Stats.PendingPercent)
		fmt.Printf("Objectives passed:   %d (%d%%)\n", d.Stats.ObjectivesPassed, d.Stats.PassedPercent)
		fmt.Printf("Stories:             %d total, %d passed, %d failed, %d pending\n",
			d.Stats.TotalStories, d.StoriesChart[1], d.StoriesChart[0], d.StoriesChart[2])

		fmt.Println("\nPer-objective progress (% passed / pending / failed):")
		for i, cat := range d.ProgressChart.Categories {
			fmt.Printf("  %-40s  %3d / %3d / %3d\n", cat,
				d.ProgressChart.Series[0].Data[i],
				d.ProgressChart.Series[1].Data[i],
				d.ProgressChart.Series[2].Data[i])
		}
		return nil
	},
}

func init() {
	dashboardCmd.Flags().Bool("json", false, "Emit the raw dashboard payload as JSON")
}
