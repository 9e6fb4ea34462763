package catalog

// --- Data Structures ---

// Result represents a single book discovered in the catalog search results.
// It is immutable once produced by a search.
type Result struct {
	Author  string   // display-joined author names, "First Last" order
	Series  string   // may be empty
	Title   string
	Format  string   // uppercase file extension, e.g. "EPUB"
	Size    string   // human-readable, uppercase unit, e.g. "3.2 MB"
	Score   int      // 0-100 relevance against the originating query
	Mirrors []string // candidate download page URLs, in discovery order
}

// Query holds the free-text search terms. All fields may be empty; the
// combined author+title string is what gets sent to the catalog endpoint.
type Query struct {
	Author string
	Title  string
	Format string // optional filter, matched case-insensitively
}
