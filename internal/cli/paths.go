package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/notimetolie/nttl-cli/internal/core/domain"
	"github.com/notimetolie/nttl-cli/internal/core/ports"
	"github.com/notimetolie/nttl-cli/internal/core/service"
)

var (
	pathTitle  string
	pathBlocks []string
)

var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Browse and edit learning paths",
}

var pathsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List paths",
	RunE:  runPathsList,
}

var pathsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a path and its blocks in order",
	Args:  cobra.ExactArgs(1),
	RunE:  runPathsShow,
}

var pathsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a path (needs the builder role)",
	RunE:  runPathsCreate,
}

var pathsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a path (needs moderate_content)",
	Args:  cobra.ExactArgs(1),
	RunE:  runPathsDelete,
}

var pathsMasterCmd = &cobra.Command{
	Use:   "master <id>",
	Short: "Mark a path and all its blocks as mastered",
	Args:  cobra.ExactArgs(1),
	RunE:  runPathsMaster,
}

var pathsEditCmd = &cobra.Command{
	Use:   "edit <id> <op>...",
	Short: "Reorder, extend or trim a path, then save",
	Long: `Reorder, extend or trim a path. Operations are applied locally in the
order given, then the result is saved in one request:

  move:<block-id>:up     swap the block with its predecessor
  move:<block-id>:down   swap the block with its successor
  append:<block-id>      add an existing block at the end
  remove:<block-id>      take the block out of the path

Moves past the first or last position are ignored rather than failing, so
scripted edits do not have to track positions exactly.

Example:
  nttl paths edit <path-id> move:<block-id>:up append:<other-block-id>`,
	Args: cobra.MinimumNArgs(2),
	RunE: runPathsEdit,
}

func init() {
	pathsListCmd.Flags().IntVar(&pageSkip, "skip", 0, "Entries to skip")
	pathsListCmd.Flags().IntVar(&pageLimit, "limit", 0, "Page size (backend default when 0)")

	pathsCreateCmd.Flags().StringVar(&pathTitle, "title", "", "Path title (required)")
	pathsCreateCmd.Flags().StringArrayVar(&pathBlocks, "block", nil, "Block id to include, in order (repeatable)")
	_ = pathsCreateCmd.MarkFlagRequired("title")

	pathsCmd.AddCommand(pathsListCmd)
	pathsCmd.AddCommand(pathsShowCmd)
	pathsCmd.AddCommand(pathsCreateCmd)
	pathsCmd.AddCommand(pathsDeleteCmd)
	pathsCmd.AddCommand(pathsEditCmd)
	pathsCmd.AddCommand(pathsMasterCmd)
}

func runPathsList(cmd *cobra.Command, args []string) error {
	paths, err := client.ListPaths(cmd.Context(), pageSkip, pageLimit)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		fmt.Println("No paths")
		return nil
	}
	for _, p := range paths {
		fmt.Printf("%s  %2d blocks  %s\n", p.ID, len(p.Blocks), p.Title)
	}
	return nil
}

func runPathsShow(cmd *cobra.Command, args []string) error {
	path, err := client.GetPath(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	printPath(path)
	return nil
}

func runPathsCreate(cmd *cobra.Command, args []string) error {
	path, err := client.CreatePath(cmd.Context(), ports.CreatePathInput{
		Title:    pathTitle,
		BlockIDs: pathBlocks,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Created path %s (%s)\n", path.ID, path.Slug)
	return nil
}

func runPathsDelete(cmd *cobra.Command, args []string) error {
	if err := client.DeletePath(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted path %s\n", args[0])
	return nil
}

func runPathsMaster(cmd *cobra.Command, args []string) error {
	result, err := client.MasterPath(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Mastered path %s: %d of %d blocks newly mastered\n", args[0], result.NewlyMastered, result.TotalBlocks)
	return nil
}

type pathOp struct {
	verb    string
	blockID string
	dir     service.MoveDirection
}

func runPathsEdit(cmd *cobra.Command, args []string) error {
	ops, err := parsePathOps(args[1:])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	editor := service.NewPathEditorService(client, log)
	if _, err := editor.Load(ctx, args[0]); err != nil {
		return err
	}

	for _, op := range ops {
		switch op.verb {
		case "move":
			if !editor.MoveBlock(op.blockID, op.dir) {
				log.Debug().Str("block_id", op.blockID).Msg("move had no effect")
			}
		case "append":
			if err := editor.AppendBlock(ctx, op.blockID); err != nil {
				return fmt.Errorf("append %s: %w", op.blockID, err)
			}
		case "remove":
			if !editor.RemoveBlock(op.blockID) {
				log.Debug().Str("block_id", op.blockID).Msg("block not in path")
			}
		}
	}

	if !editor.Dirty() {
		fmt.Println("No changes")
		return nil
	}
	path, err := editor.Save(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Saved path %s\n", path.ID)
	printPath(path)
	return nil
}

func parsePathOps(args []string) ([]pathOp, error) {
	ops := make([]pathOp, 0, len(args))
	for _, arg := range args {
		parts := strings.Split(arg, ":")
		switch {
		case len(parts) == 3 && parts[0] == "move":
			dir := service.MoveDirection(parts[2])
			if dir != service.MoveUp && dir != service.MoveDown {
				return nil, fmt.Errorf("bad direction in %q, want up or down", arg)
			}
			ops = append(ops, pathOp{verb: "move", blockID: parts[1], dir: dir})
		case len(parts) == 2 && (parts[0] == "append" || parts[0] == "remove"):
			ops = append(ops, pathOp{verb: parts[0], blockID: parts[1]})
		default:
			return nil, fmt.Errorf("bad operation %q, want move:<id>:up|down, append:<id> or remove:<id>", arg)
		}
	}
	return ops, nil
}

func printPath(p domain.Path) {
	fmt.Printf("%s (%s)\n", p.Title, p.Slug)
	fmt.Printf("  id: %s\n", p.ID)
	for i, b := range p.Blocks {
		fmt.Printf("  %2d. %s  %s\n", i+1, b.ID, b.Title)
	}
}
