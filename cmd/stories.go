package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var storiesCmd = &cobra.Command{
	Use:   "stories <objective-id>",
	Short: "List an objective's stories with their mastery state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		objectiveID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid objective id %q", args[0])
		}
		asJSON, _ := cmd.Flags().GetBool("json")

		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		details, err := app.service.ObjectiveStories(cmd.Context(), app.cfg.User.Email, objectiveID)
		if err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(details)
		}

		for _, d := range details {
			fmt.Printf("[%d] %s  (%s)\n", d.ID, d.Title, d.State)
			for _, c := range d.Criteria {
				fmt.Printf("    - %s: %s\n", c.Text, c.State)
			}
		}
		return nil
	},
}

func init() {
	storiesCmd.Flags().Bool("json", false, "Emit the raw payload as JSON")
}
