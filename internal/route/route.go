// Package route carries site navigation requests from the overlays to the
// root screen.
package route

import (
	"net/url"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	Checkout = "/checkout/"
	Search   = "/search/"
)

// Msg asks the root screen to navigate to Href.
type Msg struct {
	Href string
}

// To returns a command delivering Msg{Href: href}.
func To(href string) tea.Cmd {
	return func() tea.Msg { return Msg{Href: href} }
}

// SearchPage is the full search page for query.
func SearchPage(query string) string {
	return Search + "?q=" + url.QueryEscape(query)
}

// Query extracts the q parameter of a search page href.
func Query(href string) (string, bool) {
	u, err := url.Parse(href)
	if err != nil || !strings.HasPrefix(u.Path, Search) {
		return "", false
	}
	q := u.Query().Get("q")
	return q, q != ""
}

// ProductSlug extracts the slug of a /product/<slug>/ href.
func ProductSlug(href string) (string, bool) {
	u, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	rest, ok := strings.CutPrefix(u.Path, "/product/")
	if !ok {
		return "", false
	}
	slug := strings.Trim(rest, "/")
	return slug, slug != ""
}
