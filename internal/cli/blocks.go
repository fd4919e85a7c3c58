package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/notimetolie/nttl-cli/internal/core/domain"
	"github.com/notimetolie/nttl-cli/internal/core/ports"
)

var (
	pageSkip  int
	pageLimit int

	blockTitle   string
	blockContent string
	blockFile    string
	blockType    string
	blockSummary string
)

var blocksCmd = &cobra.Command{
	Use:   "blocks",
	Short: "Browse and edit knowledge blocks",
}

var blocksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List blocks",
	RunE:  runBlocksList,
}

var blocksShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a block with its content",
	Args:  cobra.ExactArgs(1),
	RunE:  runBlocksShow,
}

var blocksRevisionsCmd = &cobra.Command{
	Use:   "revisions <id>",
	Short: "List the revision history of a block",
	Args:  cobra.ExactArgs(1),
	RunE:  runBlocksRevisions,
}

var blocksCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a block (needs the builder role)",
	RunE:  runBlocksCreate,
}

var blocksEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a block you own",
	Long: `Edit a block you own. Only the flags you pass change; the rest of the
block is left alone. Moderators can edit any block.`,
	Args: cobra.ExactArgs(1),
	RunE: runBlocksEdit,
}

var blocksDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a block (needs moderate_content)",
	Args:  cobra.ExactArgs(1),
	RunE:  runBlocksDelete,
}

var blocksSuggestCmd = &cobra.Command{
	Use:   "suggest <id>",
	Short: "Propose an edit to a block for moderator review",
	Args:  cobra.ExactArgs(1),
	RunE:  runBlocksSuggest,
}

var blocksMasterCmd = &cobra.Command{
	Use:   "master <id>",
	Short: "Mark a block as mastered",
	Args:  cobra.ExactArgs(1),
	RunE:  runBlocksMaster,
}

var blocksUnmasterCmd = &cobra.Command{
	Use:   "unmaster <id>",
	Short: "Remove the mastered mark from a block",
	Args:  cobra.ExactArgs(1),
	RunE:  runBlocksUnmaster,
}

func init() {
	blocksListCmd.Flags().IntVar(&pageSkip, "skip", 0, "Entries to skip")
	blocksListCmd.Flags().IntVar(&pageLimit, "limit", 0, "Page size (backend default when 0)")

	blocksCreateCmd.Flags().StringVar(&blockTitle, "title", "", "Block title (required)")
	blocksCreateCmd.Flags().StringVar(&blockContent, "content", "", "Block content")
	blocksCreateCmd.Flags().StringVar(&blockFile, "file", "", "Read content from a file")
	blocksCreateCmd.Flags().StringVar(&blockType, "type", "text", "Block type (text, code, link, ...)")
	_ = blocksCreateCmd.MarkFlagRequired("title")

	blocksEditCmd.Flags().StringVar(&blockTitle, "title", "", "New title")
	blocksEditCmd.Flags().StringVar(&blockContent, "content", "", "New content")
	blocksEditCmd.Flags().StringVar(&blockFile, "file", "", "Read new content from a file")

	blocksSuggestCmd.Flags().StringVar(&blockTitle, "title", "", "Proposed title (required)")
	blocksSuggestCmd.Flags().StringVar(&blockContent, "content", "", "Proposed content")
	blocksSuggestCmd.Flags().StringVar(&blockFile, "file", "", "Read proposed content from a file")
	blocksSuggestCmd.Flags().StringVar(&blockSummary, "summary", "", "What changed and why (required)")
	_ = blocksSuggestCmd.MarkFlagRequired("title")
	_ = blocksSuggestCmd.MarkFlagRequired("summary")

	blocksCmd.AddCommand(blocksListCmd)
	blocksCmd.AddCommand(blocksShowCmd)
	blocksCmd.AddCommand(blocksRevisionsCmd)
	blocksCmd.AddCommand(blocksCreateCmd)
	blocksCmd.AddCommand(blocksEditCmd)
	blocksCmd.AddCommand(blocksDeleteCmd)
	blocksCmd.AddCommand(blocksSuggestCmd)
	blocksCmd.AddCommand(blocksMasterCmd)
	blocksCmd.AddCommand(blocksUnmasterCmd)
}

func runBlocksList(cmd *cobra.Command, args []string) error {
	blocks, err := client.ListBlocks(cmd.Context(), pageSkip, pageLimit)
	if err != nil {
		return err
	}
	if len(blocks) == 0 {
		fmt.Println("No blocks")
		return nil
	}
	for _, b := range blocks {
		fmt.Printf("%s  %-8s  %s\n", b.ID, b.BlockType, b.Title)
	}
	return nil
}

func runBlocksShow(cmd *cobra.Command, args []string) error {
	block, err := client.GetBlock(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	printBlock(block)
	if _, ok := session.Identity(); ok {
		// A failed mastery lookup does not fail the show.
		if m, err := client.BlockMastery(cmd.Context(), block.ID); err == nil && m.Mastered {
			fmt.Printf("\nMastered on %s\n", m.MasteredAt.Local().Format("2006-01-02 15:04"))
		}
	}
	return nil
}

func runBlocksRevisions(cmd *cobra.Command, args []string) error {
	revisions, err := client.ListRevisions(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if len(revisions) == 0 {
		fmt.Println("No revisions")
		return nil
	}
	for _, r := range revisions {
		fmt.Printf("%s  %s  %s\n", r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04"), r.ChangeSummary)
	}
	return nil
}

func runBlocksCreate(cmd *cobra.Command, args []string) error {
	content, err := resolveContent()
	if err != nil {
		return err
	}

	block, err := client.CreateBlock(cmd.Context(), ports.CreateBlockInput{
		Title:     blockTitle,
		Content:   content,
		BlockType: domain.BlockType(blockType),
	})
	if err != nil {
		return err
	}
	fmt.Printf("Created block %s (%s)\n", block.ID, block.Slug)
	return nil
}

func runBlocksEdit(cmd *cobra.Command, args []string) error {
	var input ports.UpdateBlockInput
	if cmd.Flags().Changed("title") {
		input.Title = &blockTitle
	}
	if cmd.Flags().Changed("content") || cmd.Flags().Changed("file") {
		content, err := resolveContent()
		if err != nil {
			return err
		}
		input.Content = &content
	}
	if input.Title == nil && input.Content == nil {
		return fmt.Errorf("nothing to change, pass --title, --content or --file")
	}

	block, err := client.UpdateBlock(cmd.Context(), args[0], input)
	if err != nil {
		return err
	}
	fmt.Printf("Updated block %s\n", block.ID)
	return nil
}

func runBlocksDelete(cmd *cobra.Command, args []string) error {
	if err := client.DeleteBlock(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted block %s\n", args[0])
	return nil
}

func runBlocksSuggest(cmd *cobra.Command, args []string) error {
	content, err := resolveContent()
	if err != nil {
		return err
	}

	suggestion, err := client.SuggestEdit(cmd.Context(), args[0], ports.SuggestEditInput{
		Title:         blockTitle,
		Content:       content,
		ChangeSummary: blockSummary,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Suggestion %s filed for review\n", suggestion.ID)
	return nil
}

func runBlocksMaster(cmd *cobra.Command, args []string) error {
	mastery, err := client.MasterBlock(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Mastered block %s on %s\n", args[0], mastery.MasteredAt.Local().Format("2006-01-02 15:04"))
	return nil
}

func runBlocksUnmaster(cmd *cobra.Command, args []string) error {
	if err := client.UnmasterBlock(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Printf("Unmastered block %s\n", args[0])
	return nil
}

func printBlock(b domain.Block) {
	fmt.Printf("%s (%s)\n", b.Title, b.Slug)
	fmt.Printf("  id:      %s\n", b.ID)
	fmt.Printf("  type:    %s\n", b.BlockType)
	fmt.Printf("  updated: %s\n", b.UpdatedAt.Local().Format("2006-01-02 15:04"))
	if b.IsLocked {
		fmt.Println("  locked:  direct edits disabled")
	}
	if b.Content != "" {
		fmt.Printf("\n%s\n", b.Content)
	}
}

// resolveContent returns --file's contents when set, the --content flag
// otherwise.
func resolveContent() (string, error) {
	if blockFile == "" {
		return blockContent, nil
	}
	raw, err := os.ReadFile(blockFile)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", blockFile, err)
	}
	return string(raw), nil
}
