package search

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/atomicstack/storefront-tui/internal/i18n"
	"github.com/atomicstack/storefront-tui/internal/overlay"
	"github.com/atomicstack/storefront-tui/internal/route"
	"github.com/atomicstack/storefront-tui/internal/shop/fixture"
	"github.com/atomicstack/storefront-tui/internal/testutil"
	"github.com/atomicstack/storefront-tui/internal/ui/command"
	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

type rig struct {
	ctl     *Controller
	store   *fixture.Store
	focus   *overlay.Focus
	delays  []time.Duration
	pending []tea.Cmd
	out     []tea.Msg
}

func newRig(t *testing.T, locale string) *rig {
	t.Helper()
	client, store := testutil.StartBackend(t, fixture.Demo())
	r := &rig{store: store, focus: overlay.NewFocus("")}
	r.ctl = New(Deps{
		Backend:    client,
		Bus:        command.New(context.Background()),
		Printer:    i18n.New(locale),
		Focus:      r.focus,
		MaxVisible: 2,
		After: func(d time.Duration, msg tea.Msg) tea.Cmd {
			r.delays = append(r.delays, d)
			return func() tea.Msg { return msg }
		},
	})
	r.ctl.input.Cursor.SetMode(cursor.CursorStatic)
	r.ctl.Focus()
	return r
}

// typeText sends each rune as a keystroke and keeps the returned commands
// pending, as if the keys arrived faster than the debounce delay.
func (r *rig) typeText(text string) {
	for _, ch := range text {
		r.pending = append(r.pending, r.ctl.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{ch}}))
	}
}

func (r *rig) backspace() {
	r.pending = append(r.pending, r.ctl.HandleKey(tea.KeyMsg{Type: tea.KeyBackspace}))
}

// settle runs every pending command to completion.
func (r *rig) settle() {
	queue := r.pending
	r.pending = nil
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		msg := next()
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		switch msg.(type) {
		case DebounceMsg, ResultsMsg:
			_, follow := r.ctl.Update(msg)
			queue = append(queue, follow)
		case nil:
		default:
			if _, isNav := msg.(route.Msg); isNav {
				r.out = append(r.out, msg)
			}
		}
	}
}

func TestShortQueryNeverRequests(t *testing.T) {
	r := newRig(t, "en")
	r.typeText("s")
	r.settle()
	if hits := r.store.Hits(fixture.RouteSearch); hits != 0 {
		t.Fatalf("expected no request for one rune, got %d", hits)
	}
	if r.ctl.Dropdown().IsOpen() {
		t.Fatalf("dropdown must stay hidden")
	}
	r.typeText(" ")
	r.settle()
	if hits := r.store.Hits(fixture.RouteSearch); hits != 0 {
		t.Fatalf("trailing space must not count toward the minimum, got %d", hits)
	}
}

func TestBurstIssuesOneRequest(t *testing.T) {
	r := newRig(t, "en")
	r.typeText("silk")
	r.settle()
	if hits := r.store.Hits(fixture.RouteSearch); hits != 1 {
		t.Fatalf("expected one request for the burst, got %d", hits)
	}
	for _, d := range r.delays {
		if d != DefaultDebounce {
			t.Fatalf("expected %v debounce, got %v", DefaultDebounce, d)
		}
	}
	if r.ctl.Query() != "silk" || len(r.ctl.Results()) != 1 || !r.ctl.Dropdown().IsOpen() {
		t.Fatalf("expected results for silk, got %q %v", r.ctl.Query(), r.ctl.Results())
	}
}

func TestShorteningBelowMinimumHidesImmediately(t *testing.T) {
	r := newRig(t, "en")
	r.typeText("si")
	r.settle()
	if !r.ctl.Dropdown().IsOpen() {
		t.Fatalf("expected dropdown open")
	}
	r.backspace()
	if r.ctl.Dropdown().IsOpen() {
		t.Fatalf("expected dropdown hidden without waiting for debounce")
	}
	r.settle()
	if hits := r.store.Hits(fixture.RouteSearch); hits != 1 {
		t.Fatalf("expected no extra request, got %d", hits)
	}
}

func TestStaleResultsDiscarded(t *testing.T) {
	r := newRig(t, "en")
	older := r.ctl.search("silk")
	newer := r.ctl.search("wool")
	r.ctl.Update(newer())
	r.ctl.Update(older())
	if r.ctl.Query() != "wool" {
		t.Fatalf("stale response applied: %q", r.ctl.Query())
	}
}

func TestEmptyStateHebrew(t *testing.T) {
	r := newRig(t, "he")
	r.typeText("שמלה")
	r.settle()
	if len(r.ctl.Results()) != 0 || !r.ctl.Dropdown().IsOpen() {
		t.Fatalf("expected open dropdown with no results")
	}
	view := ansi.Strip(r.ctl.DropdownView(60))
	if !strings.Contains(view, `לא נמצאו תוצאות עבור "שמלה"`) {
		t.Fatalf("expected empty message with query:\n%s", view)
	}
	q, ok := route.Query(r.ctl.SeeAllHref())
	if !ok || q != "שמלה" || !strings.HasPrefix(r.ctl.SeeAllHref(), "/search/?q=") {
		t.Fatalf("unexpected see-all link %q", r.ctl.SeeAllHref())
	}
}

func TestCursorClampsAndScrolls(t *testing.T) {
	r := newRig(t, "en")
	r.typeText("e")
	r.typeText("n")
	r.settle()
	n := len(r.ctl.Results())
	if n < 3 {
		t.Fatalf("expected at least three results, got %d", n)
	}
	r.ctl.HandleKey(tea.KeyMsg{Type: tea.KeyUp})
	if r.ctl.Cursor() != -1 {
		t.Fatalf("expected cursor to stay at -1, got %d", r.ctl.Cursor())
	}
	for i := 0; i < n+3; i++ {
		r.ctl.HandleKey(tea.KeyMsg{Type: tea.KeyDown})
	}
	if r.ctl.Cursor() != n-1 {
		t.Fatalf("expected cursor clamped to %d, got %d", n-1, r.ctl.Cursor())
	}
	if r.ctl.Offset() != n-2 {
		t.Fatalf("expected selected row scrolled into view, offset %d", r.ctl.Offset())
	}
}

func TestEnterNavigatesToSelection(t *testing.T) {
	r := newRig(t, "en")
	r.typeText("silk")
	r.settle()
	r.ctl.HandleKey(tea.KeyMsg{Type: tea.KeyDown})
	r.pending = append(r.pending, r.ctl.HandleKey(tea.KeyMsg{Type: tea.KeyEnter}))
	r.settle()
	if len(r.out) != 1 || r.out[0].(route.Msg).Href != "/product/silk-blouse/" {
		t.Fatalf("unexpected navigation %#v", r.out)
	}
	if r.ctl.Dropdown().IsOpen() {
		t.Fatalf("expected dropdown hidden after navigation")
	}
}

func TestEnterWithoutSelectionOpensSearchPage(t *testing.T) {
	r := newRig(t, "en")
	r.typeText("silk")
	r.settle()
	r.pending = append(r.pending, r.ctl.HandleKey(tea.KeyMsg{Type: tea.KeyEnter}))
	r.settle()
	if len(r.out) != 1 || r.out[0].(route.Msg).Href != route.SearchPage("silk") {
		t.Fatalf("unexpected navigation %#v", r.out)
	}
}

func TestClickRowOpensResultAndSeeAll(t *testing.T) {
	r := newRig(t, "en")
	r.typeText("silk")
	r.settle()
	results := r.ctl.Results()
	if len(results) == 0 {
		t.Fatalf("expected results for silk")
	}
	r.pending = append(r.pending, r.ctl.ClickRow(0))
	r.settle()
	if len(r.out) != 1 || r.out[0].(route.Msg).Href != results[0].Href() {
		t.Fatalf("expected first result opened, got %#v", r.out)
	}
	if r.ctl.Dropdown().IsOpen() {
		t.Fatalf("expected dropdown hidden after click")
	}

	r.out = nil
	r.pending = append(r.pending, r.ctl.Focus())
	r.settle()
	if !r.ctl.Dropdown().IsOpen() {
		t.Fatalf("expected dropdown reopened")
	}
	shown := min(len(r.ctl.Results()), 2)
	if cmd := r.ctl.ClickRow(shown + 1); cmd != nil {
		t.Fatalf("expected border row to be inert")
	}
	r.pending = append(r.pending, r.ctl.ClickRow(shown))
	r.settle()
	if len(r.out) != 1 || r.out[0].(route.Msg).Href != route.SearchPage("silk") {
		t.Fatalf("expected see-all navigation, got %#v", r.out)
	}
}

func TestClickRowEmptyStateLink(t *testing.T) {
	r := newRig(t, "en")
	r.typeText("qqqq")
	r.settle()
	if len(r.ctl.Results()) != 0 || !r.ctl.Dropdown().IsOpen() {
		t.Fatalf("expected open empty dropdown")
	}
	if cmd := r.ctl.ClickRow(0); cmd != nil {
		t.Fatalf("expected empty-state text to be inert")
	}
	r.pending = append(r.pending, r.ctl.ClickRow(1))
	r.settle()
	if len(r.out) != 1 || r.out[0].(route.Msg).Href != route.SearchPage("qqqq") {
		t.Fatalf("expected search page navigation, got %#v", r.out)
	}
}

func TestEscapeHidesAndBlurs(t *testing.T) {
	r := newRig(t, "en")
	r.typeText("silk")
	r.settle()
	r.ctl.HandleKey(tea.KeyMsg{Type: tea.KeyEsc})
	if r.ctl.Dropdown().IsOpen() || r.ctl.Focused() {
		t.Fatalf("expected hidden and blurred")
	}
}

func TestRefocusReissuesSearch(t *testing.T) {
	r := newRig(t, "en")
	r.typeText("silk")
	r.settle()
	r.ctl.HandleKey(tea.KeyMsg{Type: tea.KeyEsc})
	r.pending = append(r.pending, r.ctl.Focus())
	r.settle()
	if hits := r.store.Hits(fixture.RouteSearch); hits != 2 {
		t.Fatalf("expected search re-issued on focus, got %d", hits)
	}
	if !r.ctl.Dropdown().IsOpen() {
		t.Fatalf("expected dropdown shown again")
	}
}

func TestOutsideClickHides(t *testing.T) {
	r := newRig(t, "en")
	r.typeText("silk")
	r.settle()
	r.ctl.Dropdown().SetBounds(overlay.Rect{X: 0, Y: 1, W: 40, H: 1}, overlay.Rect{X: 0, Y: 2, W: 40, H: 5})
	if r.ctl.HandleMouse(tea.MouseMsg{X: 10, Y: 3, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}) {
		t.Fatalf("click inside dropdown must not hide it")
	}
	if !r.ctl.HandleMouse(tea.MouseMsg{X: 10, Y: 20, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}) {
		t.Fatalf("click outside should hide")
	}
	if r.ctl.Dropdown().IsOpen() {
		t.Fatalf("expected dropdown hidden")
	}
}

func TestHighlightEscapesQuery(t *testing.T) {
	mark := func(s string) string { return "<" + s + ">" }
	if got := Highlight("Silk blouse, silk", "SILK", mark); got != "<Silk> blouse, <silk>" {
		t.Fatalf("unexpected highlight %q", got)
	}
	if got := Highlight("a+b (c)", "+b (", mark); got != "a<+b (>c)" {
		t.Fatalf("metacharacters not escaped: %q", got)
	}
	if got := Highlight("text", "  ", mark); got != "text" {
		t.Fatalf("blank query must not highlight: %q", got)
	}
}
