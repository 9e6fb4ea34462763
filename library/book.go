package library

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Book is one managed library entry. The JSON tags match the on-disk
// books.json schema.
type Book struct {
	Author       string `json:"author"`
	Series       string `json:"series,omitempty"`
	SeriesNumber string `json:"seriesNumber,omitempty"`
	Title        string `json:"title"`
	Published    string `json:"published,omitempty"`
	Type         string `json:"type,omitempty"`
	Description  string `json:"description,omitempty"`
	Added        string `json:"added"`
	Path         string `json:"path"`
	Format       string `json:"format"`
	ID           string `json:"id"`
}

// newBook builds a placeholder entry for a file; metadata extraction fills
// in the real fields afterwards.
func newBook(path string) *Book {
	return &Book{
		Author: "Unknown Author",
		Title:  "Unknown Title",
		Added:  time.Now().Format("2006-01-02 15:04:05"),
		Path:   path,
		Format: formatFromPath(path),
		ID:     uuid.NewString(),
	}
}

func formatFromPath(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	return strings.ToUpper(ext)
}
