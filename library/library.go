package library

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"librarium/download"
)

const dbFile = "books.json"

// maxSegmentLen caps a single author/title path segment.
const maxSegmentLen = 64

// Library owns the managed book tree: <root>/<author>/<title>/<author> -
// <title>.<ext>, with a books.json index at the root.
type Library struct {
	root       string
	metaPath   string // ebook-meta binary, "" disables metadata extraction
	pythonPath string // optional interpreter prefix for metaPath
	log        zerolog.Logger

	mu    sync.Mutex
	books []*Book
}

// Open loads (or initializes) the library at root.
func Open(root, metaPath, pythonPath string, logger zerolog.Logger) (*Library, error) {
	l := &Library{
		root:       root,
		metaPath:   metaPath,
		pythonPath: pythonPath,
		log:        logger,
	}
	if err := l.load(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Library) dbPath() string {
	return filepath.Join(l.root, dbFile)
}

func (l *Library) load() error {
	data, err := os.ReadFile(l.dbPath())
	if os.IsNotExist(err) {
		l.books = nil
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read library index: %w", err)
	}
	if err := json.Unmarshal(data, &l.books); err != nil {
		return fmt.Errorf("failed to parse library index: %w", err)
	}
	l.log.Info().Int("books", len(l.books)).Str("path", l.dbPath()).Msg("library loaded")
	return nil
}

// save persists the index. Caller must hold l.mu.
func (l *Library) save() error {
	if err := os.MkdirAll(l.root, 0o755); err != nil {
		return fmt.Errorf("failed to create library root: %w", err)
	}
	data, err := json.MarshalIndent(l.books, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode library index: %w", err)
	}
	if err := os.WriteFile(l.dbPath(), data, 0o644); err != nil {
		return fmt.Errorf("failed to write library index: %w", err)
	}
	return nil
}

// Books returns a snapshot of the catalog.
func (l *Library) Books() []*Book {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*Book, len(l.books))
	copy(out, l.books)
	return out
}

// BookByID returns the book with the given id, or nil.
func (l *Library) BookByID(id string) *Book {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, b := range l.books {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// AddBook copies the file at path into the managed tree and records it.
// Metadata is read with the ebook-meta tool when available; if that fails,
// the originating download job (may be nil) and then the filename supply
// the author and title.
func (l *Library) AddBook(path string, job *download.Job) (*Book, error) {
	l.log.Info().Str("path", path).Msg("adding book")

	book := newBook(path)
	meta, err := readMeta(l.metaPath, l.pythonPath, path)
	if err != nil {
		l.log.Info().Err(err).Msg("metadata extraction failed, using fallback fields")
		fallbackFields(book, path, job)
	} else {
		applyMeta(book, meta)
	}

	dir := l.bookDirectory(book)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create book directory: %w", err)
	}
	dest := l.bookFile(book)
	if err := copyFile(path, dest); err != nil {
		return nil, err
	}
	book.Path = dest

	if runes := []rune(book.Author); len(runes) > maxSegmentLen {
		book.Author = string(runes[:maxSegmentLen])
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.books = append(l.books, book)
	if err := l.save(); err != nil {
		return nil, err
	}
	l.log.Info().Str("id", book.ID).Str("title", book.Title).Msg("book added")
	return book, nil
}

// RemoveBook deletes the book's file and prunes now-empty directories.
func (l *Library) RemoveBook(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := -1
	for i, b := range l.books {
		if b.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("book %s not found", id)
	}

	book := l.books[idx]
	l.books = append(l.books[:idx], l.books[idx+1:]...)

	if err := os.Remove(book.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove book file: %w", err)
	}
	pruneEmptyDir(filepath.Dir(book.Path))
	pruneEmptyDir(filepath.Dir(filepath.Dir(book.Path)))

	return l.save()
}

func applyMeta(book *Book, meta bookMeta) {
	if meta.Author != "" {
		book.Author = meta.Author
	}
	if meta.Title != "" {
		book.Title = meta.Title
	}
	if meta.Published != "" {
		book.Published = meta.Published
	}
	if meta.Series != "" {
		book.Series = meta.Series
		book.SeriesNumber = meta.SeriesNumber
	}
}

// fallbackFields fills author/title from the download job when present,
// otherwise from an "Author - Title" filename split.
func fallbackFields(book *Book, path string, job *download.Job) {
	if job != nil {
		book.Author = job.Author
		book.Series = job.Series
		book.Title = job.Title
		return
	}
	name := filepath.Base(path)
	if author, title, ok := strings.Cut(name, "-"); ok {
		book.Author = strings.TrimSpace(author)
		book.Title = strings.TrimSpace(strings.TrimSuffix(title, filepath.Ext(title)))
		return
	}
	book.Title = strings.TrimSuffix(name, filepath.Ext(name))
}

func (l *Library) bookDirectory(book *Book) string {
	return filepath.Join(l.root, segmentOr(book.Author, "Unknown Author"), segmentOr(book.Title, "Unknown Title"))
}

func (l *Library) bookFile(book *Book) string {
	author := segmentOr(book.Author, "Unknown Author")
	title := segmentOr(book.Title, "Unknown Title")
	ext := strings.ToLower(filepath.Ext(book.Path))
	return filepath.Join(l.bookDirectory(book), fmt.Sprintf("%s - %s%s", author, title, ext))
}

func segmentOr(name, fallback string) string {
	if s := sanitizeSegment(name); s != "" {
		return s
	}
	return fallback
}

// sanitizeSegment strips characters invalid in file names and caps the
// segment length.
func sanitizeSegment(name string) string {
	sanitized := strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
			return -1
		}
		return r
	}, name)
	if runes := []rune(sanitized); len(runes) > maxSegmentLen {
		sanitized = string(runes[:maxSegmentLen])
	}
	sanitized = strings.Trim(sanitized, ".")
	return strings.TrimSpace(sanitized)
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return out.Close()
}

func pruneEmptyDir(dir string) {
	entries, err := os.ReadDir(dir)
	if err == nil && len(entries) == 0 {
		_ = os.Remove(dir)
	}
}
