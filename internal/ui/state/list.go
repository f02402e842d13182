package state

import "github.com/atomicstack/storefront-tui/internal/shop"

// List holds the products shown on the page with cursor and viewport.
type List struct {
	Items          []shop.SearchResult
	Cursor         int
	ViewportOffset int
}

// NewList constructs a List positioned on the first item.
func NewList(items []shop.SearchResult) *List {
	l := &List{}
	l.UpdateItems(items)
	return l
}

// UpdateItems replaces the items and keeps the cursor in range.
func (l *List) UpdateItems(items []shop.SearchResult) {
	l.Items = cloneItems(items)
	l.Cursor = 0
	l.ViewportOffset = 0
}

// Selected returns the item under the cursor.
func (l *List) Selected() (shop.SearchResult, bool) {
	if l.Cursor < 0 || l.Cursor >= len(l.Items) {
		return shop.SearchResult{}, false
	}
	return l.Items[l.Cursor], true
}

// IndexOf returns the index of the item with the given slug.
func (l *List) IndexOf(slug string) int {
	if slug == "" {
		return -1
	}
	for i, item := range l.Items {
		if item.Slug == slug {
			return i
		}
	}
	return -1
}

func cloneItems(items []shop.SearchResult) []shop.SearchResult {
	if len(items) == 0 {
		return nil
	}
	dup := make([]shop.SearchResult, len(items))
	copy(dup, items)
	return dup
}
