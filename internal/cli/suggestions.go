package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/notimetolie/nttl-cli/internal/core/domain"
	"github.com/notimetolie/nttl-cli/internal/core/ports"
)

var suggestionStatus string

var suggestionsCmd = &cobra.Command{
	Use:   "suggestions",
	Short: "Review edit suggestions (needs review_suggestions)",
}

var suggestionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List suggestions in the moderation queue",
	RunE:  runSuggestionsList,
}

var suggestionsApproveCmd = &cobra.Command{
	Use:   "approve <id>",
	Short: "Approve a suggestion and apply it to its block",
	Args:  cobra.ExactArgs(1),
	RunE:  runSuggestionsApprove,
}

var suggestionsRejectCmd = &cobra.Command{
	Use:   "reject <id>",
	Short: "Reject a suggestion without touching the block",
	Args:  cobra.ExactArgs(1),
	RunE:  runSuggestionsReject,
}

func init() {
	suggestionsListCmd.Flags().StringVar(&suggestionStatus, "status", "pending", "Filter by status (pending, approved, rejected)")
	suggestionsListCmd.Flags().IntVar(&pageSkip, "skip", 0, "Entries to skip")
	suggestionsListCmd.Flags().IntVar(&pageLimit, "limit", 0, "Page size (backend default when 0)")

	suggestionsCmd.AddCommand(suggestionsListCmd)
	suggestionsCmd.AddCommand(suggestionsApproveCmd)
	suggestionsCmd.AddCommand(suggestionsRejectCmd)
}

func runSuggestionsList(cmd *cobra.Command, args []string) error {
	filter := ports.SuggestionFilter{
		Status: domain.SuggestionStatus(suggestionStatus),
		Skip:   pageSkip,
		Limit:  pageLimit,
	}
	if err := reviews.Load(cmd.Context(), filter); err != nil {
		return err
	}

	queue := reviews.Queue()
	if len(queue) == 0 {
		fmt.Println("Queue is empty")
		return nil
	}
	for _, s := range queue {
		fmt.Printf("%s  block %s  %s\n", s.ID, s.BlockID, s.ChangeSummary)
	}
	return nil
}

func runSuggestionsApprove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := loadPendingQueue(ctx, args[0]); err != nil {
		return err
	}
	if err := reviews.Approve(ctx, args[0]); err != nil {
		return err
	}
	fmt.Printf("Approved %s\n", args[0])
	return nil
}

func runSuggestionsReject(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := loadPendingQueue(ctx, args[0]); err != nil {
		return err
	}
	if err := reviews.Reject(ctx, args[0]); err != nil {
		return err
	}
	fmt.Printf("Rejected %s\n", args[0])
	return nil
}

// loadPendingQueue fills the moderation queue and checks the target is in
// it, so acting on an already reviewed id fails loudly instead of being
// swallowed as a no-op.
func loadPendingQueue(ctx context.Context, id string) error {
	if err := reviews.Load(ctx, ports.SuggestionFilter{Status: domain.SuggestionPending}); err != nil {
		return err
	}
	for _, s := range reviews.Queue() {
		if s.ID == id {
			return nil
		}
	}
	return fmt.Errorf("suggestion %s is not in the pending queue", id)
}
