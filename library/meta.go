package library

import (
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// publishedLayouts are tried in order when normalizing the Published field.
var publishedLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.999999-07:00",
	"2006-01-02",
	"January 2, 2006",
	"2 January 2006",
	"2006",
}

// bookMeta is what the ebook-meta tool reports for a file.
type bookMeta struct {
	Title        string
	Author       string
	Published    string
	Series       string
	SeriesNumber string
}

// readMeta shells out to the configured ebook-meta binary and parses its
// line-oriented output. An empty metaPath disables extraction.
func readMeta(metaPath, pythonPath, bookPath string) (bookMeta, error) {
	var meta bookMeta
	if metaPath == "" {
		return meta, fmt.Errorf("no ebook-meta tool configured")
	}

	var args []string
	if pythonPath != "" {
		args = append(args, pythonPath)
	}
	args = append(args, metaPath, bookPath)

	out, err := exec.Command(args[0], args[1:]...).Output()
	if err != nil {
		return meta, fmt.Errorf("ebook-meta failed for %s: %w", bookPath, err)
	}

	for _, line := range strings.Split(string(out), "\n") {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "Title":
			meta.Title = value
		case "Author(s)":
			// Calibre appends the sort form in brackets.
			if i := strings.Index(value, "["); i >= 0 {
				value = strings.TrimSpace(value[:i])
			}
			meta.Author = value
		case "Published":
			meta.Published = normalizePublished(value)
		case "Series":
			if i := strings.LastIndex(value, "#"); i >= 0 {
				meta.Series = strings.TrimSpace(value[:i])
				meta.SeriesNumber = strings.TrimSpace(value[i+1:])
			} else {
				meta.Series = value
			}
		}
	}
	return meta, nil
}

func normalizePublished(value string) string {
	for _, layout := range publishedLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return value
}
