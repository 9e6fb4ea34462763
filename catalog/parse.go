package catalog

import (
	"fmt"
	"html"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// maxAuthorLen caps the joined author display string.
const maxAuthorLen = 40

// Search result rows on libgen.li look like:
//
//	td[0]  title link (tooltip attr carries "<edition info><br><title>"),
//	       optional <b> with the series name
//	td[1]  semicolon-separated "Last, First" author names
//	td[4]  language
//	td[6]  file size inside <nobr><a>
//	td[7]  file extension
//	td[8]  tooltip-anchors whose hrefs are relative mirror page paths
//
// Anything missing from that shape makes the row unparseable.

// searchRow is one parsed result row plus the fields that only matter for
// filtering and never leave this package.
type searchRow struct {
	result   Result
	language string
}

func (c *Client) parseRow(sel *goquery.Selection) (searchRow, error) {
	cells := sel.Find("td")
	if cells.Length() < 9 {
		return searchRow{}, fmt.Errorf("expected 9 columns, found %d", cells.Length())
	}

	titleLink := cells.Eq(0).Find("a[data-toggle='tooltip']").First()
	if titleLink.Length() == 0 {
		return searchRow{}, fmt.Errorf("title cell has no tooltip link")
	}
	rawTitle, ok := titleLink.Attr("title")
	if !ok || rawTitle == "" {
		return searchRow{}, fmt.Errorf("title link has no tooltip attribute")
	}
	title := html.UnescapeString(rawTitle)
	// The tooltip starts with an edition line terminated by a <br> marker;
	// the actual title is everything after the first one.
	if idx := strings.Index(title, "<br>"); idx >= 0 {
		title = title[idx+len("<br>"):]
	}
	title = strings.TrimSpace(title)

	authors := strings.Split(cells.Eq(1).Text(), ";")
	names := make([]string, 0, len(authors))
	for _, a := range authors {
		names = append(names, fixAuthor(a))
	}
	author := truncateAuthor(strings.Join(names, ", "))

	series := strings.TrimSpace(cells.Eq(0).Find("b").First().Text())
	language := strings.TrimSpace(cells.Eq(4).Text())

	size := strings.ToUpper(strings.TrimSpace(cells.Eq(6).Find("nobr a").First().Text()))
	if size == "" {
		size = "N/A"
	}
	format := strings.ToUpper(strings.TrimSpace(cells.Eq(7).Text()))

	var mirrors []string
	cells.Eq(8).Find("a[data-toggle='tooltip']").Each(func(_ int, m *goquery.Selection) {
		href, exists := m.Attr("href")
		if !exists || href == "" {
			return
		}
		if !strings.HasPrefix(href, "http") {
			href = c.baseURL + "/" + strings.TrimLeft(href, "/")
		}
		mirrors = append(mirrors, href)
	})

	return searchRow{
		result: Result{
			Author:  author,
			Series:  series,
			Title:   title,
			Format:  format,
			Size:    size,
			Mirrors: mirrors,
		},
		language: language,
	}, nil
}

// fixAuthor reorders "Last, First" catalog names to "First Last". Names
// without a comma pass through unchanged.
func fixAuthor(author string) string {
	if i := strings.Index(author, ","); i >= 0 {
		last := strings.TrimSpace(author[:i])
		first := strings.TrimSpace(author[i+1:])
		return strings.TrimSpace(first + " " + last)
	}
	return strings.TrimSpace(author)
}

// truncateAuthor caps the display string at maxAuthorLen characters, never
// splitting a multi-byte rune.
func truncateAuthor(author string) string {
	runes := []rune(author)
	if len(runes) > maxAuthorLen {
		return string(runes[:maxAuthorLen]) + "..."
	}
	return author
}

// --- Mirror pages ---

// MirrorParser resolves a fetched mirror page into the direct file URLs it
// advertises. The two known host families render different markup; hosts
// matching DirectHosts get the "download section" treatment, everything
// else is expected to carry a bare GET anchor.
type MirrorParser struct {
	DirectHosts []string
}

// Resolve parses the mirror page body and returns candidate download URLs
// in the order they should be attempted.
func (p MirrorParser) Resolve(pageURL string, body io.Reader) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mirror page HTML from %s: %w", pageURL, err)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mirror page URL %s: %w", pageURL, err)
	}

	if p.isDirect(base.Host) {
		return resolveDirectHost(doc, base)
	}
	return resolveGetAnchor(doc, base)
}

func (p MirrorParser) isDirect(host string) bool {
	for _, d := range p.DirectHosts {
		if d != "" && strings.Contains(host, d) {
			return true
		}
	}
	return false
}

// resolveDirectHost handles the catalog's primary mirror: the real file
// link is the first anchor in the download section, followed by the
// alternative mirror anchors listed under it.
func resolveDirectHost(doc *goquery.Document, base *url.URL) ([]string, error) {
	var urls []string

	primary, exists := doc.Find("div#download h2 a").First().Attr("href")
	if !exists || primary == "" {
		return nil, fmt.Errorf("no download link in download section of %s", base)
	}
	urls = append(urls, resolveHref(base, primary))

	doc.Find("ul > li > a").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok && href != "" {
			urls = append(urls, resolveHref(base, href))
		}
	})
	return urls, nil
}

// resolveGetAnchor handles generic mirrors: a single anchor whose visible
// text is exactly "GET", carrying a relative href.
func resolveGetAnchor(doc *goquery.Document, base *url.URL) ([]string, error) {
	var href string
	doc.Find("a").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.TrimSpace(s.Text()) != "GET" {
			return true
		}
		h, ok := s.Attr("href")
		if !ok || h == "" {
			return true
		}
		href = h
		return false
	})
	if href == "" {
		return nil, fmt.Errorf("no GET link on mirror page %s", base)
	}
	return []string{fmt.Sprintf("%s://%s/%s", base.Scheme, base.Host, strings.TrimLeft(href, "/"))}, nil
}

func resolveHref(base *url.URL, href string) string {
	resolved, err := base.Parse(href)
	if err != nil {
		return href
	}
	return resolved.String()
}
