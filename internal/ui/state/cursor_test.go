package state

import (
	"testing"

	"github.com/atomicstack/storefront-tui/internal/shop"
)

func newTestList(slugs ...string) *List {
	items := make([]shop.SearchResult, len(slugs))
	for i, slug := range slugs {
		items[i] = shop.SearchResult{ID: i + 1, Slug: slug, Name: slug}
	}
	return NewList(items)
}

func TestMoveCursorHome(t *testing.T) {
	l := newTestList("a", "b", "c")
	l.Cursor = 2
	if !l.MoveCursorHome() {
		t.Fatalf("expected move when items exist")
	}
	if l.Cursor != 0 {
		t.Fatalf("expected cursor 0, got %d", l.Cursor)
	}

	empty := newTestList()
	empty.Cursor = 5
	if empty.MoveCursorHome() {
		t.Fatalf("expected no movement for empty list")
	}
	if empty.Cursor != 0 {
		t.Fatalf("expected cursor reset to 0, got %d", empty.Cursor)
	}
}

func TestMoveCursorEnd(t *testing.T) {
	l := newTestList("a", "b", "c")
	if !l.MoveCursorEnd() {
		t.Fatalf("expected movement to end")
	}
	if l.Cursor != 2 {
		t.Fatalf("expected cursor 2, got %d", l.Cursor)
	}
	if empty := newTestList(); empty.MoveCursorEnd() {
		t.Fatalf("expected no movement for empty list")
	}
}

func TestMoveCursorByClamps(t *testing.T) {
	l := newTestList("a", "b", "c")
	if l.MoveCursorBy(-1) {
		t.Fatalf("expected no movement above the first item")
	}
	if !l.MoveCursorBy(5) || l.Cursor != 2 {
		t.Fatalf("expected cursor clamped to 2, got %d", l.Cursor)
	}
}

func TestMoveCursorPaging(t *testing.T) {
	l := newTestList("a", "b", "c", "d", "e")
	if !l.MoveCursorPageDown(2) {
		t.Fatalf("expected movement on first page down")
	}
	if l.Cursor != 2 {
		t.Fatalf("expected cursor 2, got %d", l.Cursor)
	}
	if !l.MoveCursorPageDown(2) {
		t.Fatalf("expected movement on second page down")
	}
	if l.Cursor != 4 {
		t.Fatalf("expected cursor 4, got %d", l.Cursor)
	}
	if l.MoveCursorPageDown(2) {
		t.Fatalf("expected no further movement past end")
	}
	if !l.MoveCursorPageUp(10) {
		t.Fatalf("expected movement back to start")
	}
	if l.Cursor != 0 {
		t.Fatalf("expected cursor at start, got %d", l.Cursor)
	}
}

func TestEnsureCursorVisibleAdjustsViewport(t *testing.T) {
	l := newTestList("a", "b", "c", "d", "e")
	l.Cursor = 4
	l.EnsureCursorVisible(2)
	if l.ViewportOffset != 3 {
		t.Fatalf("expected offset 3, got %d", l.ViewportOffset)
	}

	l.Cursor = -1
	l.EnsureCursorVisible(2)
	if l.Cursor != 0 {
		t.Fatalf("expected cursor normalized to 0, got %d", l.Cursor)
	}

	l.ViewportOffset = 4
	l.EnsureCursorVisible(0)
	if l.ViewportOffset != 0 {
		t.Fatalf("expected offset reset when maxVisible <= 0, got %d", l.ViewportOffset)
	}

	l.ViewportOffset = 4
	l.Cursor = 1
	l.EnsureCursorVisible(3)
	if l.ViewportOffset != 1 {
		t.Fatalf("expected offset aligned with cursor, got %d", l.ViewportOffset)
	}
}

func TestSelectedAndIndexOf(t *testing.T) {
	l := newTestList("linen-shirt", "wool-scarf")
	l.Cursor = 1
	item, ok := l.Selected()
	if !ok || item.Slug != "wool-scarf" {
		t.Fatalf("expected wool-scarf, got %+v", item)
	}
	if idx := l.IndexOf("linen-shirt"); idx != 0 {
		t.Fatalf("expected index 0, got %d", idx)
	}
	if idx := l.IndexOf("missing"); idx != -1 {
		t.Fatalf("expected -1 for unknown slug, got %d", idx)
	}
	if _, ok := newTestList().Selected(); ok {
		t.Fatalf("expected no selection on empty list")
	}
}
