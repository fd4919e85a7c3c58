package kbtest

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/notimetolie/nttl-cli/internal/core/domain"
)

func (s *Server) handleListSuggestions(c echo.Context) error {
	skip, limit := pageParams(c)
	status := domain.SuggestionStatus(c.QueryParam("status"))

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Suggestion, 0, len(s.suggestions))
	for _, sg := range s.suggestions {
		if status != "" && sg.Status != status {
			continue
		}
		out = append(out, *sg)
	}
	return c.JSON(http.StatusOK, page(out, skip, limit))
}

func (s *Server) handleApproveSuggestion(c echo.Context) error {
	caller := callerIdentity(c)

	s.mu.Lock()
	defer s.mu.Unlock()
	suggestion := s.findSuggestion(c.Param("id"))
	if suggestion == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "suggestion not found"})
	}
	if suggestion.Status != domain.SuggestionPending {
		return c.JSON(http.StatusConflict, echo.Map{"error": "suggestion already reviewed"})
	}
	block := s.findBlock(suggestion.BlockID)
	if block == nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "target block no longer exists"})
	}

	s.recordRevision(block, suggestion.ChangeSummary, caller.ID)
	block.Title = suggestion.Title
	block.Content = suggestion.Content
	block.UpdatedAt = now()

	suggestion.Status = domain.SuggestionApproved
	suggestion.UpdatedAt = now()
	return c.JSON(http.StatusOK, *suggestion)
}

func (s *Server) handleRejectSuggestion(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	suggestion := s.findSuggestion(c.Param("id"))
	if suggestion == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "suggestion not found"})
	}
	if suggestion.Status != domain.SuggestionPending {
		return c.JSON(http.StatusConflict, echo.Map{"error": "suggestion already reviewed"})
	}

	suggestion.Status = domain.SuggestionRejected
	suggestion.UpdatedAt = now()
	return c.JSON(http.StatusOK, *suggestion)
}

func (s *Server) findSuggestion(id string) *domain.Suggestion {
	for _, sg := range s.suggestions {
		if sg.ID == id {
			return sg
		}
	}
	return nil
}
