package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "List everything you have mastered",
	RunE:  runProgress,
}

func runProgress(cmd *cobra.Command, args []string) error {
	records, err := client.Progress(cmd.Context())
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("Nothing mastered yet")
		return nil
	}
	for _, r := range records {
		fmt.Printf("%s  %s\n", r.ContentID, r.MasteredAt.Local().Format("2006-01-02 15:04"))
	}
	fmt.Printf("%d mastered\n", len(records))
	return nil
}
