package domain

// SearchHit is a single match returned by the backend search index.
type SearchHit struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Slug    string    `json:"slug"`
	Level   NodeLevel `json:"level"`
	Snippet string    `json:"snippet,omitempty"`
}

// SearchResult is one page of hits with the query and paging echoed back.
type SearchResult struct {
	Query  string      `json:"query"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
	Total  int         `json:"total"`
	Hits   []SearchHit `json:"hits"`
}
