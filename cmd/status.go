package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status <story-id>",
	Short: "Poll the generation job status of a story",
	Long: "Poll the generation job status of a story. A completed or failed job is\n" +
		"consumed by the poll that observes it; polling again reports PENDIENTE.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		storyID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid story id %q", args[0])
		}

		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		result, err := app.service.PollGeneration(storyID)
		if err != nil {
			return err
		}
		fmt.Println(result)
		return nil
	},
}
