package kbtest

import (
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/notimetolie/nttl-cli/internal/core/domain"
)

// handleSearch is a naive substring scan over titles and content. Good
// enough to exercise the client's query building and paging.
func (s *Server) handleSearch(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	if query == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "query is required"})
	}
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	if offset < 0 {
		offset = 0
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 {
		limit = 50
	}
	level := domain.NodeLevel(c.QueryParam("level"))
	needle := strings.ToLower(query)

	s.mu.Lock()
	defer s.mu.Unlock()
	var hits []domain.SearchHit
	if level == "" || level == domain.LevelBlock {
		for _, b := range s.blocks {
			if matches(needle, b.Title, b.Content) {
				hits = append(hits, domain.SearchHit{
					ID:      b.ID,
					Title:   b.Title,
					Slug:    b.Slug,
					Level:   domain.LevelBlock,
					Snippet: snippet(b.Content, needle),
				})
			}
		}
	}
	if level == "" || level == domain.LevelPath {
		for _, p := range s.paths {
			if matches(needle, p.Title, "") {
				hits = append(hits, domain.SearchHit{
					ID:    p.ID,
					Title: p.Title,
					Slug:  p.Slug,
					Level: domain.LevelPath,
				})
			}
		}
	}

	result := domain.SearchResult{
		Query:  query,
		Limit:  limit,
		Offset: offset,
		Total:  len(hits),
		Hits:   page(hits, offset, limit),
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleReindex(c echo.Context) error {
	s.mu.Lock()
	indexed := len(s.blocks) + len(s.paths)
	s.mu.Unlock()
	return c.JSON(http.StatusOK, echo.Map{"indexed": indexed})
}

func matches(needle, title, content string) bool {
	return strings.Contains(strings.ToLower(title), needle) ||
		strings.Contains(strings.ToLower(content), needle)
}

// snippet returns a short window of content around the first match. The
// window edges snap outward to rune starts so the cut never splits a
// multi-byte character.
func snippet(content, needle string) string {
	lower := strings.ToLower(content)
	idx := strings.Index(lower, needle)
	if idx < 0 {
		return ""
	}
	start := idx - 30
	if start < 0 {
		start = 0
	}
	for start > 0 && !utf8.RuneStart(content[start]) {
		start--
	}
	end := idx + len(needle) + 30
	if end > len(content) {
		end = len(content)
	}
	for end < len(content) && !utf8.RuneStart(content[end]) {
		end++
	}
	return content[start:end]
}

