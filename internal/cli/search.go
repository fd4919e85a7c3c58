package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/notimetolie/nttl-cli/internal/core/domain"
	"github.com/notimetolie/nttl-cli/internal/core/ports"
)

var (
	searchLevel  string
	searchLimit  int
	searchOffset int
)

var searchCmd = &cobra.Command{
	Use:   "search <query>...",
	Short: "Search blocks and paths",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administrative operations",
}

var adminReindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the search index (admin only)",
	RunE:  runReindex,
}

func init() {
	searchCmd.Flags().StringVar(&searchLevel, "level", "", "Restrict to a level: block or path")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "Page size (backend default when 0)")
	searchCmd.Flags().IntVar(&searchOffset, "offset", 0, "Hits to skip")

	adminCmd.AddCommand(adminReindexCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	result, err := client.Search(cmd.Context(), ports.SearchQuery{
		Query:  strings.Join(args, " "),
		Level:  domain.NodeLevel(searchLevel),
		Limit:  searchLimit,
		Offset: searchOffset,
	})
	if err != nil {
		return err
	}

	if result.Total == 0 {
		fmt.Printf("No results for %q\n", result.Query)
		return nil
	}
	for _, hit := range result.Hits {
		fmt.Printf("%s  %-5s  %s\n", hit.ID, hit.Level, hit.Title)
		if hit.Snippet != "" {
			fmt.Printf("    %s\n", hit.Snippet)
		}
	}
	if len(result.Hits) < result.Total {
		fmt.Printf("%d of %d results, use --offset to page\n", len(result.Hits), result.Total)
	}
	return nil
}

func runReindex(cmd *cobra.Command, args []string) error {
	if err := client.Reindex(cmd.Context()); err != nil {
		return err
	}
	fmt.Println("Reindex started")
	return nil
}
