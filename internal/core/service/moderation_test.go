package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/notimetolie/nttl-cli/internal/core/domain"
	"github.com/notimetolie/nttl-cli/internal/core/ports"
)

type stubModerationAPI struct {
	suggestions []domain.Suggestion
	listErr     error
	approveErr  error
	rejectErr   error
	approved    []string
	rejected    []string
}

func (a *stubModerationAPI) ListSuggestions(_ context.Context, _ ports.SuggestionFilter) ([]domain.Suggestion, error) {
	if a.listErr != nil {
		return nil, a.listErr
	}
	out := make([]domain.Suggestion, len(a.suggestions))
	copy(out, a.suggestions)
	return out, nil
}

func (a *stubModerationAPI) ApproveSuggestion(_ context.Context, id string) (domain.Suggestion, error) {
	if a.approveErr != nil {
		return domain.Suggestion{}, a.approveErr
	}
	a.approved = append(a.approved, id)
	return domain.Suggestion{ID: id, Status: domain.SuggestionApproved}, nil
}

func (a *stubModerationAPI) RejectSuggestion(_ context.Context, id string) (domain.Suggestion, error) {
	if a.rejectErr != nil {
		return domain.Suggestion{}, a.rejectErr
	}
	a.rejected = append(a.rejected, id)
	return domain.Suggestion{ID: id, Status: domain.SuggestionRejected}, nil
}

func pendingSuggestions(ids ...string) []domain.Suggestion {
	now := time.Now().UTC()
	out := make([]domain.Suggestion, len(ids))
	for i, id := range ids {
		out[i] = domain.Suggestion{
			ID:            id,
			BlockID:       "blk-" + id,
			Title:         "edit " + id,
			ChangeSummary: "typo fix",
			Status:        domain.SuggestionPending,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
	}
	return out
}

func queueIDs(svc *ModerationService) []string {
	items := svc.Queue()
	ids := make([]string, len(items))
	for i, s := range items {
		ids[i] = s.ID
	}
	return ids
}

func TestModerationService_Load(t *testing.T) {
	api := &stubModerationAPI{suggestions: pendingSuggestions("a", "b", "c")}
	svc := NewModerationService(api, zerolog.Nop())

	if svc.Loaded() {
		t.Fatalf("queue must start unloaded")
	}
	if err := svc.Load(context.Background(), ports.SuggestionFilter{Status: domain.SuggestionPending}); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !svc.Loaded() {
		t.Fatalf("queue should report loaded")
	}
	if got := queueIDs(svc); !sameIDs(got, []string{"a", "b", "c"}) {
		t.Fatalf("unexpected queue: %v", got)
	}
}

func TestModerationService_Approve_RemovesFromQueue(t *testing.T) {
	api := &stubModerationAPI{suggestions: pendingSuggestions("a", "b", "c")}
	svc := NewModerationService(api, zerolog.Nop())
	if err := svc.Load(context.Background(), ports.SuggestionFilter{}); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if err := svc.Approve(context.Background(), "b"); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if got := queueIDs(svc); !sameIDs(got, []string{"a", "c"}) {
		t.Fatalf("unexpected queue after approval: %v", got)
	}
	if len(api.approved) != 1 || api.approved[0] != "b" {
		t.Fatalf("unexpected approvals: %v", api.approved)
	}
	for _, id := range []string{"a", "b", "c"} {
		if svc.InFlight(id) {
			t.Fatalf("no marker should survive the approval, %s is in flight", id)
		}
	}
}

func TestModerationService_Reject_RemovesFromQueue(t *testing.T) {
	api := &stubModerationAPI{suggestions: pendingSuggestions("a", "b")}
	svc := NewModerationService(api, zerolog.Nop())
	if err := svc.Load(context.Background(), ports.SuggestionFilter{}); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if err := svc.Reject(context.Background(), "a"); err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if got := queueIDs(svc); !sameIDs(got, []string{"b"}) {
		t.Fatalf("unexpected queue after rejection: %v", got)
	}
}

func TestModerationService_ActionFailureKeepsQueue(t *testing.T) {
	api := &stubModerationAPI{suggestions: pendingSuggestions("a", "b")}
	api.approveErr = errors.New("suggestion already reviewed")
	svc := NewModerationService(api, zerolog.Nop())
	if err := svc.Load(context.Background(), ports.SuggestionFilter{}); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if err := svc.Approve(context.Background(), "a"); err == nil {
		t.Fatalf("expected approval error surfaced")
	}
	if got := queueIDs(svc); !sameIDs(got, []string{"a", "b"}) {
		t.Fatalf("failed action must keep the queue intact: %v", got)
	}
	if svc.InFlight("a") {
		t.Fatalf("marker must clear after failure")
	}
}

func TestModerationService_LoadError(t *testing.T) {
	api := &stubModerationAPI{suggestions: pendingSuggestions("a")}
	svc := NewModerationService(api, zerolog.Nop())
	if err := svc.Load(context.Background(), ports.SuggestionFilter{}); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	api.listErr = errors.New("backend down")
	if err := svc.Load(context.Background(), ports.SuggestionFilter{}); err == nil {
		t.Fatalf("expected load error surfaced")
	}
	if got := queueIDs(svc); !sameIDs(got, []string{"a"}) {
		t.Fatalf("failed reload must keep the previous queue: %v", got)
	}
}
