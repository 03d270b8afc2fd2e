package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dmoreno/storyquiz/internal/jobstatus"
	"github.com/dmoreno/storyquiz/internal/store"
)

var generateCmd = &cobra.Command{
	Use:   "generate <story-id>",
	Short: "Start question generation for every criterion of a story",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		storyID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid story id %q", args[0])
		}
		wait, _ := cmd.Flags().GetBool("wait")

		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		err = app.service.RequestGeneration(cmd.Context(), storyID)
		switch {
		case errors.Is(err, store.ErrNotFound):
			return fmt.Errorf("story %d not found", storyID)
		case errors.Is(err, jobstatus.ErrAlreadyRunning):
			return fmt.Errorf("generation for story %d is already in progress", storyID)
		case err != nil:
			return err
		}

		fmt.Printf("Generation started for story %d.\n", storyID)
		if wait {
			// app.Close waits for the job; here we just say so.
			fmt.Println("Waiting for the job to settle...")
			app.service.Wait()
			result, err := app.service.PollGeneration(storyID)
			if err != nil {
				return err
			}
			fmt.Printf("Job finished: %s\n", result)
		} else {
			fmt.Println("Poll with 'storyquiz status' to see the outcome.")
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().Bool("wait", false, "Block until the job settles instead of returning immediately")
}
