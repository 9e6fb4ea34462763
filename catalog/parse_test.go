package catalog

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestFixAuthor(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"Doe, Jane", "Jane Doe"},
		{"Jane Doe", "Jane Doe"},
		{"  Tolkien,  J. R. R. ", "J. R. R. Tolkien"},
		{"Cher", "Cher"},
		{"", ""},
	}
	for _, test := range tests {
		if got := fixAuthor(test.in); got != test.expected {
			t.Errorf("fixAuthor(%q) = %q, expected %q", test.in, got, test.expected)
		}
	}
}

func TestTruncateAuthor(t *testing.T) {
	short := "Jane Doe"
	if got := truncateAuthor(short); got != short {
		t.Errorf("truncateAuthor(%q) = %q, expected unchanged", short, got)
	}

	long := strings.Repeat("a", 50)
	got := truncateAuthor(long)
	if len(got) != 43 || !strings.HasSuffix(got, "...") {
		t.Errorf("truncateAuthor long = %q, expected 40 chars plus ellipsis", got)
	}

	// Multi-byte names must be cut on a rune boundary, not mid-rune.
	accented := strings.Repeat("a", 39) + "ééé"
	got = truncateAuthor(accented)
	if !utf8.ValidString(got) {
		t.Fatalf("truncateAuthor(%q) = %q, not valid UTF-8", accented, got)
	}
	if want := strings.Repeat("a", 39) + "é..."; got != want {
		t.Errorf("truncateAuthor(%q) = %q, expected %q", accented, got, want)
	}
}

func TestScore(t *testing.T) {
	if got := Score("Jane Doe", "Jane Doe", "The Book", "The Book"); got != 100 {
		t.Errorf("identical strings scored %d, expected 100", got)
	}
	if got := Score("Jane Doe", "Doe Jane", "The Example Book", "Book The Example"); got != 100 {
		t.Errorf("token reordering scored %d, expected 100", got)
	}
	if got := Score("Jane Doe", "Xxqqzzww Vvkkppllmm", "The Book", "Zzyyxxwwvvuuttssrr"); got >= 30 {
		t.Errorf("unrelated strings scored %d, expected < 30", got)
	}
}

const directMirrorPage = `<html><body>
<div id="download">
  <h2><a href="https://cdn.example.com/main/book.epub">GET</a></h2>
</div>
<ul>
  <li><a href="https://alt1.example.com/book.epub">Cloudflare</a></li>
  <li><a href="https://alt2.example.com/book.epub">IPFS</a></li>
</ul>
</body></html>`

const getAnchorMirrorPage = `<html><body>
<h1>Example Book</h1>
<a href="/somewhere/else">home</a>
<table><tr><td><a href="get.php?md5=abc&key=xyz">GET</a></td></tr></table>
</body></html>`

func TestMirrorParser_DirectHost(t *testing.T) {
	p := MirrorParser{DirectHosts: []string{"library.lol"}}
	urls, err := p.Resolve("http://library.lol/fiction/abc", strings.NewReader(directMirrorPage))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	expected := []string{
		"https://cdn.example.com/main/book.epub",
		"https://alt1.example.com/book.epub",
		"https://alt2.example.com/book.epub",
	}
	if len(urls) != len(expected) {
		t.Fatalf("got %d candidates, expected %d: %v", len(urls), len(expected), urls)
	}
	for i := range expected {
		if urls[i] != expected[i] {
			t.Errorf("candidate %d = %q, expected %q", i, urls[i], expected[i])
		}
	}
}

func TestMirrorParser_GetAnchor(t *testing.T) {
	p := MirrorParser{DirectHosts: []string{"library.lol"}}
	urls, err := p.Resolve("https://mirror.example.net/ads.php?md5=abc", strings.NewReader(getAnchorMirrorPage))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(urls) != 1 {
		t.Fatalf("got %d candidates, expected 1: %v", len(urls), urls)
	}
	if want := "https://mirror.example.net/get.php?md5=abc&key=xyz"; urls[0] != want {
		t.Errorf("candidate = %q, expected %q", urls[0], want)
	}
}

func TestMirrorParser_NoLink(t *testing.T) {
	p := MirrorParser{}
	if _, err := p.Resolve("https://mirror.example.net/x", strings.NewReader("<html><body><a href='/y'>other</a></body></html>")); err == nil {
		t.Fatal("expected an error for a page with no GET anchor")
	}
}
