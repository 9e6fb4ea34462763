package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Stream is the caller's view of an in-flight search. Results arrive on
// Results() as rows are parsed; the channel closes when the search ends.
// After the channel is closed, Err reports whether the search ended because
// the catalog ran out of pages (nil) or because of a failure (non-nil).
type Stream struct {
	results chan Result
	done    chan struct{}
	err     error
}

// Results returns the channel of discovered results. It is closed exactly
// once, after the last result has been delivered.
func (s *Stream) Results() <-chan Result {
	return s.results
}

// Err returns the terminal error of the search, if any. It must only be
// called after Results() has been closed.
func (s *Stream) Err() error {
	<-s.done
	return s.err
}

// Search launches a paginated catalog search in a background goroutine and
// returns immediately. Each call is independent; cancellation of ctx takes
// effect within one row's processing time.
func (c *Client) Search(ctx context.Context, q Query) *Stream {
	s := &Stream{
		results: make(chan Result),
		done:    make(chan struct{}),
	}
	go func() {
		defer close(s.done)
		defer close(s.results)
		s.err = c.search(ctx, q, s.results)
	}()
	return s
}

func (c *Client) search(ctx context.Context, q Query, out chan<- Result) error {
	query := strings.TrimSpace(strings.TrimSpace(q.Author) + " " + strings.TrimSpace(q.Title))
	c.log.Info().Str("query", query).Msg("searching catalog")

	for page := 1; page <= c.maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		pageURL := fmt.Sprintf("%s/index.php?req=%s&res=100&page=%d",
			c.baseURL, url.QueryEscape(query), page)
		c.log.Debug().Str("url", pageURL).Msg("requesting search page")

		rows, err := c.fetchPage(ctx, pageURL)
		if err != nil {
			return err
		}
		if rows == nil {
			// No result table on this page: natural end of results.
			break
		}

		for i := 0; i < rows.Length(); i++ {
			if err := ctx.Err(); err != nil {
				return err
			}

			row, err := c.parseRow(rows.Eq(i))
			if err != nil {
				// A malformed row is dropped, never the whole page.
				c.log.Debug().Err(err).Int("row", i).Msg("skipping unparseable result row")
				continue
			}
			if !c.keep(q, row) {
				continue
			}
			res := row.result
			res.Score = Score(q.Author, res.Author, q.Title, res.Title)

			select {
			case out <- res:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	c.log.Info().Msg("search complete")
	return nil
}

// fetchPage retrieves one search page and returns its result rows, or nil
// when the page carries no result table.
func (c *Client) fetchPage(ctx context.Context, pageURL string) (*goquery.Selection, error) {
	resp, err := c.get(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Warn().Err(cerr).Msg("failed to close search response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search failed with status %s for %s", resp.Status, pageURL)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse search results HTML from %s: %w", pageURL, err)
	}

	table := doc.Find("table#tablelibgen tbody").First()
	if table.Length() == 0 {
		return nil, nil
	}
	rows := table.Find("tr")
	if rows.Length() == 0 {
		return nil, nil
	}
	return rows, nil
}

// keep applies the language and format row filters.
func (c *Client) keep(q Query, row searchRow) bool {
	if !strings.EqualFold(row.language, c.language) {
		return false
	}
	if q.Format != "" && !strings.EqualFold(q.Format, row.result.Format) {
		return false
	}
	return true
}
