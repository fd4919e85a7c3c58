package kbtest

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/notimetolie/nttl-cli/internal/core/domain"
	"github.com/notimetolie/nttl-cli/internal/core/ports"
)

func (s *Server) handleListBlocks(c echo.Context) error {
	skip, limit := pageParams(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Block, 0, len(s.blocks))
	for _, b := range s.blocks {
		out = append(out, *b)
	}
	return c.JSON(http.StatusOK, page(out, skip, limit))
}

func (s *Server) handleGetBlock(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	block := s.findBlock(c.Param("id"))
	if block == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "block not found"})
	}
	return c.JSON(http.StatusOK, *block)
}

func (s *Server) handleCreateBlock(c echo.Context) error {
	var req ports.CreateBlockInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	block := &domain.Block{
		ID:          uuid.NewString(),
		Slug:        slugify(req.Title),
		Title:       req.Title,
		Content:     req.Content,
		BlockType:   req.BlockType,
		IsPublished: true,
		CreatedAt:   now(),
		UpdatedAt:   now(),
		CreatedByID: callerIdentity(c).ID,
	}
	s.mu.Lock()
	s.blocks = append(s.blocks, block)
	s.mu.Unlock()
	return c.JSON(http.StatusCreated, *block)
}

func (s *Server) handleUpdateBlock(c echo.Context) error {
	var req ports.UpdateBlockInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
	}
	caller := callerIdentity(c)

	s.mu.Lock()
	defer s.mu.Unlock()
	block := s.findBlock(c.Param("id"))
	if block == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "block not found"})
	}
	if block.IsLocked {
		return c.JSON(http.StatusConflict, echo.Map{"error": "block is locked"})
	}
	if block.CreatedByID != caller.ID && !caller.Role.Can(domain.PermModerateContent) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your block, propose a suggestion instead"})
	}

	s.recordRevision(block, "direct edit", caller.ID)
	if req.Title != nil {
		block.Title = *req.Title
	}
	if req.Content != nil {
		block.Content = *req.Content
	}
	block.UpdatedAt = now()
	return c.JSON(http.StatusOK, *block)
}

func (s *Server) handleDeleteBlock(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := c.Param("id")
	for i, b := range s.blocks {
		if b.ID == id {
			s.blocks = append(s.blocks[:i], s.blocks[i+1:]...)
			return c.NoContent(http.StatusNoContent)
		}
	}
	return c.JSON(http.StatusNotFound, echo.Map{"error": "block not found"})
}

func (s *Server) handleListRevisions(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := c.Param("id")
	if s.findBlock(id) == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "block not found"})
	}
	revisions := s.revisions[id]
	out := make([]domain.Revision, len(revisions))
	copy(out, revisions)
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleSuggestEdit(c echo.Context) error {
	var req ports.SuggestEditInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	block := s.findBlock(c.Param("id"))
	if block == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "block not found"})
	}

	suggestion := &domain.Suggestion{
		ID:            uuid.NewString(),
		BlockID:       block.ID,
		Title:         req.Title,
		Content:       req.Content,
		ChangeSummary: req.ChangeSummary,
		Status:        domain.SuggestionPending,
		CreatedAt:     now(),
		UpdatedAt:     now(),
		CreatedByID:   callerIdentity(c).ID,
	}
	s.suggestions = append(s.suggestions, suggestion)
	return c.JSON(http.StatusCreated, *suggestion)
}

func (s *Server) handleListPaths(c echo.Context) error {
	skip, limit := pageParams(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Path, 0, len(s.paths))
	for _, p := range s.paths {
		out = append(out, *p)
	}
	return c.JSON(http.StatusOK, page(out, skip, limit))
}

func (s *Server) handleGetPath(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	path := s.findPath(c.Param("id"))
	if path == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "path not found"})
	}
	return c.JSON(http.StatusOK, *path)
}

func (s *Server) handleCreatePath(c echo.Context) error {
	var req ports.CreatePathInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	blocks, err := s.resolveBlocks(req.BlockIDs)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	}

	path := &domain.Path{
		ID:          uuid.NewString(),
		Slug:        slugify(req.Title),
		Title:       req.Title,
		Blocks:      blocks,
		IsPublished: true,
		CreatedAt:   now(),
		UpdatedAt:   now(),
		CreatedByID: callerIdentity(c).ID,
	}
	s.paths = append(s.paths, path)
	return c.JSON(http.StatusCreated, *path)
}

func (s *Server) handleUpdatePath(c echo.Context) error {
	var req ports.UpdatePathInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	path := s.findPath(c.Param("id"))
	if path == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "path not found"})
	}

	if req.Title != nil {
		path.Title = *req.Title
	}
	if req.BlockIDs != nil {
		blocks, err := s.resolveBlocks(req.BlockIDs)
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
		}
		path.Blocks = blocks
	}
	path.UpdatedAt = now()
	return c.JSON(http.StatusOK, *path)
}

func (s *Server) handleDeletePath(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := c.Param("id")
	for i, p := range s.paths {
		if p.ID == id {
			s.paths = append(s.paths[:i], s.paths[i+1:]...)
			return c.NoContent(http.StatusNoContent)
		}
	}
	return c.JSON(http.StatusNotFound, echo.Map{"error": "path not found"})
}

// SeedBlock creates a published text block owned by nobody in particular.
func (s *Server) SeedBlock(title, content string) domain.Block {
	block := &domain.Block{
		ID:          uuid.NewString(),
		Slug:        slugify(title),
		Title:       title,
		Content:     content,
		BlockType:   domain.BlockText,
		IsPublished: true,
		CreatedAt:   now(),
		UpdatedAt:   now(),
	}
	s.mu.Lock()
	s.blocks = append(s.blocks, block)
	s.mu.Unlock()
	return *block
}

// LockBlock marks the block locked so direct edits are refused.
func (s *Server) LockBlock(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if block := s.findBlock(id); block != nil {
		block.IsLocked = true
	}
}

// SeedPath creates a path over already seeded blocks. Unknown block ids
// panic, they are a test authoring mistake.
func (s *Server) SeedPath(title string, blockIDs ...string) domain.Path {
	s.mu.Lock()
	defer s.mu.Unlock()
	blocks, err := s.resolveBlocks(blockIDs)
	if err != nil {
		panic("kbtest: " + err.Error())
	}
	path := &domain.Path{
		ID:          uuid.NewString(),
		Slug:        slugify(title),
		Title:       title,
		Blocks:      blocks,
		IsPublished: true,
		CreatedAt:   now(),
		UpdatedAt:   now(),
	}
	s.paths = append(s.paths, path)
	return *path
}

// SeedSuggestion files a pending edit suggestion against a block.
func (s *Server) SeedSuggestion(blockID, title, content, summary string) domain.Suggestion {
	suggestion := &domain.Suggestion{
		ID:            uuid.NewString(),
		BlockID:       blockID,
		Title:         title,
		Content:       content,
		ChangeSummary: summary,
		Status:        domain.SuggestionPending,
		CreatedAt:     now(),
		UpdatedAt:     now(),
	}
	s.mu.Lock()
	s.suggestions = append(s.suggestions, suggestion)
	s.mu.Unlock()
	return *suggestion
}

func (s *Server) findBlock(id string) *domain.Block {
	for _, b := range s.blocks {
		if b.ID == id {
			return b
		}
	}
	return nil
}

func (s *Server) findPath(id string) *domain.Path {
	for _, p := range s.paths {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (s *Server) resolveBlocks(ids []string) ([]domain.Block, error) {
	blocks := make([]domain.Block, 0, len(ids))
	for _, id := range ids {
		block := s.findBlock(id)
		if block == nil {
			return nil, &unknownBlockError{id: id}
		}
		blocks = append(blocks, *block)
	}
	return blocks, nil
}

type unknownBlockError struct {
	id string
}

func (e *unknownBlockError) Error() string {
	return "unknown block id: " + e.id
}

func (s *Server) recordRevision(block *domain.Block, summary, authorID string) {
	s.revisions[block.ID] = append(s.revisions[block.ID], domain.Revision{
		ID:            uuid.NewString(),
		BlockID:       block.ID,
		Title:         block.Title,
		Content:       block.Content,
		ChangeSummary: summary,
		CreatedAt:     now(),
		CreatedByID:   authorID,
	})
}

func pageParams(c echo.Context) (skip, limit int) {
	skip, _ = strconv.Atoi(c.QueryParam("skip"))
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = 50
	}
	return skip, limit
}

func page[T any](items []T, skip, limit int) []T {
	if skip >= len(items) {
		return []T{}
	}
	end := skip + limit
	if end > len(items) {
		end = len(items)
	}
	return items[skip:end]
}

func slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ' || r == '-' || r == '_':
			return '-'
		}
		return -1
	}, slug)
	return strings.Trim(slug, "-")
}
