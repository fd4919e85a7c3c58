package domain

import "time"

// NodeLevel distinguishes the two kinds of content nodes.
type NodeLevel string

const (
	LevelBlock NodeLevel = "block"
	LevelPath  NodeLevel = "path"
)

// BlockType classifies the payload of a block.
type BlockType string

const (
	BlockText     BlockType = "text"
	BlockImage    BlockType = "image"
	BlockVideo    BlockType = "video"
	BlockCode     BlockType = "code"
	BlockLink     BlockType = "link"
	BlockEmbedded BlockType = "embedded"
	BlockCallout  BlockType = "callout"
	BlockTable    BlockType = "table"
)

// Block is a single unit of knowledge content.
type Block struct {
	ID          string         `json:"id"`
	Slug        string         `json:"slug"`
	Title       string         `json:"title"`
	Content     string         `json:"content,omitempty"`
	BlockType   BlockType      `json:"block_type"`
	IsPublished bool           `json:"is_published"`
	IsLocked    bool           `json:"is_locked"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	CreatedByID string         `json:"created_by_id,omitempty"`
}

// Revision is one historical version of a block, written whenever an edit
// or an approved suggestion lands.
type Revision struct {
	ID            string    `json:"id"`
	BlockID       string    `json:"block_id"`
	Title         string    `json:"title"`
	Content       string    `json:"content,omitempty"`
	ChangeSummary string    `json:"change_summary,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	CreatedByID   string    `json:"created_by_id,omitempty"`
}

// Path is an ordered sequence of blocks forming a learning path. Block
// order is significant and editable by the path editor.
type Path struct {
	ID          string         `json:"id"`
	Slug        string         `json:"slug"`
	Title       string         `json:"title"`
	Blocks      []Block        `json:"blocks"`
	IsPublished bool           `json:"is_published"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	CreatedByID string         `json:"created_by_id,omitempty"`
}

// BlockIDs returns the path's block ids in display order.
func (p Path) BlockIDs() []string {
	ids := make([]string, len(p.Blocks))
	for i, b := range p.Blocks {
		ids[i] = b.ID
	}
	return ids
}
