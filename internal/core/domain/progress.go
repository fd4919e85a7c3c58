package domain

import "time"

// MasteryRecord marks one piece of content the user has worked through.
// ContentID points at a block or a path.
type MasteryRecord struct {
	ID         string    `json:"id"`
	ContentID  string    `json:"content_node_id"`
	MasteredAt time.Time `json:"mastered_at"`
}

// BlockMastery is the per-block progress check for the current user.
// MasteredAt is zero when Mastered is false.
type BlockMastery struct {
	Mastered   bool      `json:"mastered"`
	MasteredAt time.Time `json:"mastered_at"`
}

// PathMastery summarises a whole-path mastery sweep. NewlyMastered counts
// the blocks that were not already marked before the sweep.
type PathMastery struct {
	TotalBlocks   int `json:"total_blocks"`
	NewlyMastered int `json:"newly_mastered"`
}
