package cli

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/notimetolie/nttl-cli/internal/core/domain"
	"github.com/notimetolie/nttl-cli/internal/core/service"
	"github.com/notimetolie/nttl-cli/internal/infrastructure/api"
	"github.com/notimetolie/nttl-cli/internal/infrastructure/tokenstore"
	"github.com/notimetolie/nttl-cli/internal/kbtest"
)

// wireTest points the package globals at an in-process fake backend.
func wireTest(t *testing.T) *kbtest.Server {
	t.Helper()

	backend := kbtest.New()
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)

	log = zerolog.Nop()
	store = tokenstore.NewMemoryStore()

	tokens := &sessionTokens{}
	var err error
	client, err = api.NewClient(api.Config{BaseURL: srv.URL, Tokens: tokens})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	session = service.NewSessionService(store, client, log)
	tokens.session = session
	reviews = service.NewModerationService(client, log)
	agents = service.NewAIService(client, time.Millisecond, log)
	return backend
}

func testCmd() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	return cmd
}

func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = orig
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("reading captured output: %v", err)
	}
	return buf.String()
}

func loginAs(t *testing.T, username, password string) {
	t.Helper()
	passwordFlag = password
	defer func() { passwordFlag = "" }()
	if err := runLogin(testCmd(), []string{username}); err != nil {
		t.Fatalf("login %s: %v", username, err)
	}
}

func TestLoginAndWhoami(t *testing.T) {
	backend := wireTest(t)
	backend.SeedUser("maya", "s3cret", domain.RoleBuilder)

	passwordFlag = "s3cret"
	defer func() { passwordFlag = "" }()
	output := captureOutput(t, func() {
		if err := runLogin(testCmd(), []string{"maya"}); err != nil {
			t.Fatalf("runLogin: %v", err)
		}
	})
	if !strings.Contains(output, "Logged in as maya (builder)") {
		t.Fatalf("login output: %s", output)
	}
	if session.State() != domain.SessionAuthenticated {
		t.Fatalf("state = %q", session.State())
	}

	output = captureOutput(t, func() {
		if err := runWhoami(testCmd(), nil); err != nil {
			t.Fatalf("runWhoami: %v", err)
		}
	})
	if !strings.Contains(output, "role:  builder") {
		t.Fatalf("whoami output: %s", output)
	}
	if !strings.Contains(output, "create_blocks") {
		t.Fatalf("whoami should list granted permissions: %s", output)
	}
	if strings.Contains(output, "moderate_content") {
		t.Fatalf("builder must not hold moderate_content: %s", output)
	}
	if !strings.Contains(output, "token expires") {
		t.Fatalf("whoami should show token expiry: %s", output)
	}
}

func TestLoginBadPasswordLeavesAnonymous(t *testing.T) {
	backend := wireTest(t)
	backend.SeedUser("maya", "s3cret", domain.RoleBuilder)

	passwordFlag = "wrong"
	defer func() { passwordFlag = "" }()
	if err := runLogin(testCmd(), []string{"maya"}); err == nil {
		t.Fatal("expected an error")
	}
	if session.State() != domain.SessionAnonymous {
		t.Fatalf("state = %q, want anonymous", session.State())
	}
}

func TestLogout(t *testing.T) {
	backend := wireTest(t)
	backend.SeedUser("maya", "s3cret", domain.RoleBuilder)
	loginAs(t, "maya", "s3cret")

	output := captureOutput(t, func() {
		if err := runLogout(testCmd(), nil); err != nil {
			t.Fatalf("runLogout: %v", err)
		}
	})
	if !strings.Contains(output, "Logged out") {
		t.Fatalf("logout output: %s", output)
	}

	output = captureOutput(t, func() {
		if err := runWhoami(testCmd(), nil); err != nil {
			t.Fatalf("runWhoami: %v", err)
		}
	})
	if !strings.Contains(output, "Not logged in") {
		t.Fatalf("whoami after logout: %s", output)
	}
}

func TestWhoamiShowsWildcard(t *testing.T) {
	backend := wireTest(t)
	backend.SeedUser("root", "pw", domain.RoleAdmin)
	loginAs(t, "root", "pw")

	output := captureOutput(t, func() {
		if err := runWhoami(testCmd(), nil); err != nil {
			t.Fatalf("runWhoami: %v", err)
		}
	})
	// The admin wildcard satisfies every permission token.
	for _, p := range domain.AllPermissions() {
		if !strings.Contains(output, string(p)) {
			t.Fatalf("admin whoami missing %s: %s", p, output)
		}
	}
}

func TestBlocksCreateNeedsRole(t *testing.T) {
	backend := wireTest(t)
	backend.SeedUser("newbie", "pw", domain.RoleGuest)
	loginAs(t, "newbie", "pw")

	blockTitle = "Nope"
	blockContent = ""
	blockFile = ""
	blockType = "text"
	if err := runBlocksCreate(testCmd(), nil); err == nil {
		t.Fatal("guest create should fail")
	}
}

func TestBlocksLifecycleViaCommands(t *testing.T) {
	backend := wireTest(t)
	backend.SeedUser("maya", "pw", domain.RoleBuilder)
	loginAs(t, "maya", "pw")
	cmd := testCmd()

	blockTitle = "Interfaces"
	blockContent = "accept interfaces, return structs"
	blockFile = ""
	blockType = "text"
	output := captureOutput(t, func() {
		if err := runBlocksCreate(cmd, nil); err != nil {
			t.Fatalf("runBlocksCreate: %v", err)
		}
	})
	if !strings.Contains(output, "Created block") {
		t.Fatalf("create output: %s", output)
	}

	output = captureOutput(t, func() {
		if err := runBlocksList(testCmd(), nil); err != nil {
			t.Fatalf("runBlocksList: %v", err)
		}
	})
	if !strings.Contains(output, "Interfaces") {
		t.Fatalf("list output: %s", output)
	}
}

func TestSuggestionsModeration(t *testing.T) {
	backend := wireTest(t)
	backend.SeedUser("mod", "pw", domain.RoleModerator)
	block := backend.SeedBlock("Defer", "defer runs at return")
	suggestion := backend.SeedSuggestion(block.ID, "Defer", "defer runs when the function returns", "precision")
	loginAs(t, "mod", "pw")

	output := captureOutput(t, func() {
		suggestionStatus = "pending"
		if err := runSuggestionsList(testCmd(), nil); err != nil {
			t.Fatalf("runSuggestionsList: %v", err)
		}
	})
	if !strings.Contains(output, suggestion.ID) {
		t.Fatalf("list output: %s", output)
	}

	if err := runSuggestionsApprove(testCmd(), []string{suggestion.ID}); err != nil {
		t.Fatalf("runSuggestionsApprove: %v", err)
	}

	got, err := client.GetBlock(context.Background(), block.ID)
	if err != nil {
		t.Fatalf("GetBlock: %v", err)
	}
	if got.Content != "defer runs when the function returns" {
		t.Fatalf("approval not applied: %q", got.Content)
	}

	// Approving again fails before any request is made.
	err = runSuggestionsApprove(testCmd(), []string{suggestion.ID})
	if err == nil || !strings.Contains(err.Error(), "not in the pending queue") {
		t.Fatalf("second approve: %v", err)
	}
}

func TestPathsEditCommand(t *testing.T) {
	backend := wireTest(t)
	backend.SeedUser("maya", "pw", domain.RoleBuilder)
	a := backend.SeedBlock("One", "")
	b := backend.SeedBlock("Two", "")
	c := backend.SeedBlock("Three", "")
	d := backend.SeedBlock("Four", "")
	path := backend.SeedPath("Counting", a.ID, b.ID, c.ID)
	loginAs(t, "maya", "pw")

	args := []string{path.ID, "move:" + c.ID + ":up", "remove:" + a.ID, "append:" + d.ID}
	output := captureOutput(t, func() {
		if err := runPathsEdit(testCmd(), args); err != nil {
			t.Fatalf("runPathsEdit: %v", err)
		}
	})
	if !strings.Contains(output, "Saved path") {
		t.Fatalf("edit output: %s", output)
	}

	saved, err := client.GetPath(context.Background(), path.ID)
	if err != nil {
		t.Fatalf("GetPath: %v", err)
	}
	want := []string{c.ID, b.ID, d.ID}
	got := saved.BlockIDs()
	if len(got) != len(want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestPathsEditNoChanges(t *testing.T) {
	backend := wireTest(t)
	backend.SeedUser("maya", "pw", domain.RoleBuilder)
	a := backend.SeedBlock("One", "")
	path := backend.SeedPath("Solo", a.ID)
	loginAs(t, "maya", "pw")

	// The only block cannot move anywhere; nothing should be saved.
	output := captureOutput(t, func() {
		if err := runPathsEdit(testCmd(), []string{path.ID, "move:" + a.ID + ":up"}); err != nil {
			t.Fatalf("runPathsEdit: %v", err)
		}
	})
	if !strings.Contains(output, "No changes") {
		t.Fatalf("edit output: %s", output)
	}
}

func TestParsePathOps(t *testing.T) {
	ops, err := parsePathOps([]string{"move:abc:up", "append:def", "remove:ghi"})
	if err != nil {
		t.Fatalf("parsePathOps: %v", err)
	}
	if len(ops) != 3 || ops[0].verb != "move" || ops[0].dir != service.MoveUp || ops[1].blockID != "def" {
		t.Fatalf("ops = %+v", ops)
	}

	for _, bad := range []string{"move:abc:sideways", "rename:abc", "move:abc"} {
		if _, err := parsePathOps([]string{bad}); err == nil {
			t.Fatalf("%q should not parse", bad)
		}
	}
}

func TestProgressCommands(t *testing.T) {
	backend := wireTest(t)
	backend.SeedUser("newbie", "pw", domain.RoleGuest)
	block := backend.SeedBlock("Goroutines", "lightweight threads")
	other := backend.SeedBlock("Channels", "typed conduits")
	path := backend.SeedPath("Concurrency", block.ID, other.ID)
	loginAs(t, "newbie", "pw")

	output := captureOutput(t, func() {
		if err := runBlocksMaster(testCmd(), []string{block.ID}); err != nil {
			t.Fatalf("runBlocksMaster: %v", err)
		}
	})
	if !strings.Contains(output, "Mastered block "+block.ID) {
		t.Fatalf("master output: %s", output)
	}

	output = captureOutput(t, func() {
		if err := runBlocksShow(testCmd(), []string{block.ID}); err != nil {
			t.Fatalf("runBlocksShow: %v", err)
		}
	})
	if !strings.Contains(output, "Mastered on") {
		t.Fatalf("show should surface mastery: %s", output)
	}

	output = captureOutput(t, func() {
		if err := runProgress(testCmd(), nil); err != nil {
			t.Fatalf("runProgress: %v", err)
		}
	})
	if !strings.Contains(output, block.ID) || !strings.Contains(output, "1 mastered") {
		t.Fatalf("progress output: %s", output)
	}

	output = captureOutput(t, func() {
		if err := runBlocksUnmaster(testCmd(), []string{block.ID}); err != nil {
			t.Fatalf("runBlocksUnmaster: %v", err)
		}
	})
	if !strings.Contains(output, "Unmastered block") {
		t.Fatalf("unmaster output: %s", output)
	}
	if err := runBlocksUnmaster(testCmd(), []string{block.ID}); err == nil {
		t.Fatal("unmastering an unmastered block should fail")
	}

	output = captureOutput(t, func() {
		if err := runPathsMaster(testCmd(), []string{path.ID}); err != nil {
			t.Fatalf("runPathsMaster: %v", err)
		}
	})
	if !strings.Contains(output, "2 of 2 blocks newly mastered") {
		t.Fatalf("path master output: %s", output)
	}

	output = captureOutput(t, func() {
		if err := runProgress(testCmd(), nil); err != nil {
			t.Fatalf("runProgress after sweep: %v", err)
		}
	})
	if !strings.Contains(output, "3 mastered") {
		t.Fatalf("progress after sweep: %s", output)
	}
}

func TestSearchCommand(t *testing.T) {
	backend := wireTest(t)
	backend.SeedBlock("Goroutines", "lightweight threads")

	output := captureOutput(t, func() {
		searchLevel = ""
		searchLimit = 0
		searchOffset = 0
		if err := runSearch(testCmd(), []string{"lightweight", "threads"}); err != nil {
			t.Fatalf("runSearch: %v", err)
		}
	})
	if !strings.Contains(output, "Goroutines") {
		t.Fatalf("search output: %s", output)
	}
}

func TestAIJobCommands(t *testing.T) {
	backend := wireTest(t)
	backend.SeedUser("maya", "pw", domain.RoleTrustedBuilder)
	cfg := backend.SeedConfiguration("drafting", domain.AgentContentCreator)
	loginAs(t, "maya", "pw")
	ctx := context.Background()

	aiConfigID = cfg.ID
	aiAgentType = "content_creator"
	aiPrompt = "draft a block about testing"
	aiBlockID = ""
	aiPathID = ""
	aiWait = false
	output := captureOutput(t, func() {
		if err := runAISubmit(testCmd(), nil); err != nil {
			t.Fatalf("runAISubmit: %v", err)
		}
	})
	if !strings.Contains(output, "Submitted job") {
		t.Fatalf("submit output: %s", output)
	}

	jobs, err := agents.Jobs(ctx, 0, 0)
	if err != nil || len(jobs) != 1 {
		t.Fatalf("jobs = %v, err %v", jobs, err)
	}
	jobID := jobs[0].ID

	backend.RunJob(jobID)
	backend.FinishJob(jobID, domain.AIBlockSuggestion{Title: "Table Tests", Content: "rows of cases"})

	output = captureOutput(t, func() {
		if err := runAIWait(testCmd(), []string{jobID}); err != nil {
			t.Fatalf("runAIWait: %v", err)
		}
	})
	if !strings.Contains(output, "status: completed") {
		t.Fatalf("wait output: %s", output)
	}

	output = captureOutput(t, func() {
		if err := runAIDrafts(testCmd(), []string{jobID}); err != nil {
			t.Fatalf("runAIDrafts: %v", err)
		}
	})
	if !strings.Contains(output, "Table Tests") {
		t.Fatalf("drafts output: %s", output)
	}
	draftID := agents.Drafts()[0].ID

	if err := runAIApprove(testCmd(), []string{jobID, draftID}); err != nil {
		t.Fatalf("runAIApprove: %v", err)
	}
	blocks, err := client.ListBlocks(ctx, 0, 0)
	if err != nil {
		t.Fatalf("ListBlocks: %v", err)
	}
	if len(blocks) != 1 || blocks[0].Title != "Table Tests" {
		t.Fatalf("approved draft should publish a block, got %+v", blocks)
	}
}
