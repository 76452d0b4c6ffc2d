package extract

import (
	"bytes"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"github.com/Borislavv/go-favicon-cache/internal/fetch"
)

// Candidate is a discovered or guessed icon location. Lower priority wins.
type Candidate struct {
	Priority int
	Href     string
}

// guessPriority ranks the synthesized /favicon.ico guess below any declared
// square icon but above extension-only matches worse than png.
const guessPriority = 35

var (
	// relPattern accepts "icon"-terminated rel values and apple-touch-icon
	// variants.
	relPattern = regexp.MustCompile(`icon$|apple.*icon`)

	// hrefPattern allows specific image extensions, optionally followed by a
	// query string, or an inline base64 image data URI.
	hrefPattern = regexp.MustCompile(`(?i)\w+\.(jpg|jpeg|png|ico)(\?.*)?$|^data:image.*base64`)

	faviconRef = &url.URL{Path: "/favicon.ico"}
)

// FromPage scans a fetched page for icon candidates. The returned list is
// never empty: it always contains the default /favicon.ico guess resolved
// against the page's final (post-redirect) URL, which is the location every
// browser probes by default. Candidates are unsorted; call Rank.
func FromPage(page *fetch.Page) []Candidate {
	list := []Candidate{{
		Priority: guessPriority,
		Href:     page.URL.ResolveReference(faviconRef).String(),
	}}

	doc, err := parseDoc(page)
	if err != nil {
		// Unparseable body still leaves the default guess.
		return list
	}

	doc.Find("link[rel][href]").Each(func(_ int, sel *goquery.Selection) {
		rel, _ := sel.Attr("rel")
		href, _ := sel.Attr("href")
		if !relPattern.MatchString(rel) || !hrefPattern.MatchString(href) {
			return
		}

		full := resolveHref(page.URL, href)
		if full == "" {
			return
		}

		sizes, _ := sel.Attr("sizes")
		list = append(list, Candidate{Priority: Priority(full, sizes), Href: full})
	})

	return list
}

// Guesses synthesizes the blind candidates used when the page fetch failed
// entirely: the default favicon location over both schemes, in discovery
// order.
func Guesses(domain string) []Candidate {
	return []Candidate{
		{Priority: guessPriority, Href: "https://" + domain + "/favicon.ico"},
		{Priority: guessPriority, Href: "http://" + domain + "/favicon.ico"},
	}
}

func parseDoc(page *fetch.Page) (*goquery.Document, error) {
	// Decode the body to UTF-8 first, honoring the declared charset. The
	// charset reader sniffs meta tags when the header stays silent.
	body, err := charset.NewReader(bytes.NewReader(page.Body), page.ContentType())
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(body)
}

// resolveHref turns href into an absolute URL against the page's final base.
// Data URIs pass through untouched so their payload is not re-encoded.
func resolveHref(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if strings.HasPrefix(href, "data:") {
		return href
	}

	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
