package fetch

import (
	"net/http"
	"net/url"
	"strings"
)

// Page is a fetched site front page: the final URL after redirects, the
// response headers, the body capped at MaxPageBytes and the cookie string
// captured from the response.
type Page struct {
	URL     *url.URL
	Header  http.Header
	Body    []byte
	Cookies string
}

// ContentType returns the response content type for charset detection.
func (p *Page) ContentType() string {
	return p.Header.Get("Content-Type")
}

// cookieString concatenates every Set-Cookie value into a "name=value; "
// string reusable on follow-up icon requests to the same site. Some sites put
// extra protection in place, XSRF tokens for example, so the icon request has
// to carry the session cookies of the page response. Malformed cookies are
// skipped.
func cookieString(h http.Header) string {
	var b strings.Builder
	for _, raw := range h.Values("Set-Cookie") {
		c, err := http.ParseSetCookie(raw)
		if err != nil {
			continue
		}
		b.WriteString(c.Name)
		b.WriteByte('=')
		b.WriteString(c.Value)
		b.WriteString("; ")
	}
	return b.String()
}
