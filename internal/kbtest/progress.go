package kbtest

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/notimetolie/nttl-cli/internal/core/domain"
)

// masteryRecord is one per-user mastery mark. contentID points at a block
// or a path.
type masteryRecord struct {
	id         string
	contentID  string
	masteredAt time.Time
}

func (s *Server) handleMasterBlock(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	blockID := c.Param("id")
	if s.findBlock(blockID) == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "block not found"})
	}

	userID := callerIdentity(c).ID
	if rec := s.findMastery(userID, blockID); rec != nil {
		return c.JSON(http.StatusCreated, echo.Map{
			"message":     "block already mastered",
			"mastered_at": rec.masteredAt,
		})
	}
	rec := s.addMastery(userID, blockID)
	return c.JSON(http.StatusCreated, echo.Map{
		"message":     "block marked as mastered",
		"mastered_at": rec.masteredAt,
	})
}

func (s *Server) handleUnmasterBlock(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	blockID := c.Param("id")
	userID := callerIdentity(c).ID
	records := s.mastery[userID]
	for i, rec := range records {
		if rec.contentID == blockID {
			s.mastery[userID] = append(records[:i], records[i+1:]...)
			return c.JSON(http.StatusOK, echo.Map{"message": "block mastery removed"})
		}
	}
	return c.JSON(http.StatusNotFound, echo.Map{"error": "block is not marked as mastered"})
}

func (s *Server) handleBlockProgress(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.findMastery(callerIdentity(c).ID, c.Param("id"))
	if rec == nil {
		return c.JSON(http.StatusOK, echo.Map{"mastered": false})
	}
	return c.JSON(http.StatusOK, echo.Map{"mastered": true, "mastered_at": rec.masteredAt})
}

// handleMasterPath marks the path and every block on it. Already mastered
// blocks keep their marks and do not count as newly mastered.
func (s *Server) handleMasterPath(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	path := s.findPath(c.Param("id"))
	if path == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "path not found"})
	}

	userID := callerIdentity(c).ID
	newly := 0
	for _, block := range path.Blocks {
		if s.findMastery(userID, block.ID) == nil {
			s.addMastery(userID, block.ID)
			newly++
		}
	}
	if s.findMastery(userID, path.ID) == nil {
		s.addMastery(userID, path.ID)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message":        "path marked as mastered",
		"total_blocks":   len(path.Blocks),
		"newly_mastered": newly,
	})
}

func (s *Server) handleMyProgress(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := s.mastery[callerIdentity(c).ID]
	out := make([]domain.MasteryRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, domain.MasteryRecord{
			ID:         rec.id,
			ContentID:  rec.contentID,
			MasteredAt: rec.masteredAt,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// findMastery and addMastery expect s.mu to be held.
func (s *Server) findMastery(userID, contentID string) *masteryRecord {
	for _, rec := range s.mastery[userID] {
		if rec.contentID == contentID {
			return rec
		}
	}
	return nil
}

func (s *Server) addMastery(userID, contentID string) *masteryRecord {
	rec := &masteryRecord{
		id:         uuid.NewString(),
		contentID:  contentID,
		masteredAt: now(),
	}
	s.mastery[userID] = append(s.mastery[userID], rec)
	return rec
}
