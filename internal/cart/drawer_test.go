package cart

import (
	"context"
	"strings"
	"testing"

	"github.com/atomicstack/storefront-tui/internal/i18n"
	"github.com/atomicstack/storefront-tui/internal/overlay"
	"github.com/atomicstack/storefront-tui/internal/route"
	"github.com/atomicstack/storefront-tui/internal/shop"
	"github.com/atomicstack/storefront-tui/internal/shop/fixture"
	"github.com/atomicstack/storefront-tui/internal/testutil"
	"github.com/atomicstack/storefront-tui/internal/ui/command"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

type badge struct {
	count int
	set   bool
}

func (b *badge) SetCount(n int) {
	b.count = n
	b.set = true
}

type rig struct {
	drawer *Drawer
	store  *fixture.Store
	focus  *overlay.Focus
	badge  *badge
	out    []tea.Msg
}

func newRig(t *testing.T, store *fixture.Store) *rig {
	t.Helper()
	client, store := testutil.StartBackend(t, store)
	r := &rig{store: store, focus: overlay.NewFocus("page:list"), badge: &badge{}}
	r.drawer = New(Deps{
		Backend: client,
		Bus:     command.New(context.Background()),
		Printer: i18n.New("en"),
		Focus:   r.focus,
		Scroll:  overlay.NewScrollLock(),
		Badge:   r.badge,
	})
	return r
}

// run executes cmd and every command it leads to, feeding drawer messages
// back into the drawer and collecting the rest.
func (r *rig) run(cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
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
		if msg == nil {
			continue
		}
		handled, follow := r.drawer.Update(msg)
		if !handled {
			r.out = append(r.out, msg)
			continue
		}
		queue = append(queue, follow)
	}
}

func (r *rig) open(t *testing.T) {
	t.Helper()
	r.run(r.drawer.Open())
	if !r.drawer.Loaded() {
		t.Fatalf("expected snapshot after open")
	}
}

func (r *rig) itemID(t *testing.T, idx int) int {
	t.Helper()
	items := r.drawer.Snapshot().Items
	if idx >= len(items) {
		t.Fatalf("expected at least %d items, got %d", idx+1, len(items))
	}
	return items[idx].ID
}

func TestSummaryFor(t *testing.T) {
	remaining := shop.Price(15)
	cases := []struct {
		name string
		snap shop.CartSnapshot
		want Summary
	}{
		{"below threshold", shop.CartSnapshot{Subtotal: 60, ShippingFee: 15, FreeShippingThreshold: 75, RemainingForFreeShipping: &remaining},
			Summary{Subtotal: 60, Fee: 15, ShowNotice: true, Remaining: 15}},
		{"server omits remaining", shop.CartSnapshot{Subtotal: 50, ShippingFee: 15, FreeShippingThreshold: 75},
			Summary{Subtotal: 50, Fee: 15, ShowNotice: true, Remaining: 25}},
		{"at threshold", shop.CartSnapshot{Subtotal: 75, ShippingFee: 15, FreeShippingThreshold: 75},
			Summary{Subtotal: 75, Free: true}},
		{"empty", shop.CartSnapshot{FreeShippingThreshold: 75},
			Summary{Free: true}},
	}
	for _, tc := range cases {
		if got := SummaryFor(tc.snap); got != tc.want {
			t.Fatalf("%s: expected %+v, got %+v", tc.name, tc.want, got)
		}
	}
}

func TestShippingNoticeFollowsServerTotals(t *testing.T) {
	r := newRig(t, testutil.TwoLineCart())
	r.open(t)
	sum := SummaryFor(r.drawer.Snapshot())
	if !sum.ShowNotice || sum.Remaining != 15 {
		t.Fatalf("expected remaining 15 notice, got %+v", sum)
	}
	view := ansi.Strip(r.drawer.View(60, 40))
	if !strings.Contains(view, "Add ₪15.00 more for free shipping") {
		t.Fatalf("expected remaining notice in view:\n%s", view)
	}
	if !r.badge.set || r.badge.count != 3 {
		t.Fatalf("expected badge mirrored to 3, got %+v", r.badge)
	}

	r.store.PutLine(2, 0, 1)
	r.run(r.drawer.Refresh())
	sum = SummaryFor(r.drawer.Snapshot())
	if !sum.Free || sum.ShowNotice {
		t.Fatalf("expected free shipping at 80, got %+v", sum)
	}
	for _, width := range []int{40, 60, 90} {
		view = ansi.Strip(r.drawer.View(width, 40))
		if strings.Contains(view, "more for free shipping") || strings.Contains(view, "Fre…") {
			t.Fatalf("expected free shipping without notice at width %d:\n%s", width, view)
		}
		for _, line := range strings.Split(view, "\n") {
			if strings.Contains(line, "Shipping") && !strings.Contains(line, "Free") {
				t.Fatalf("expected full shipping value at width %d, got %q", width, line)
			}
			if strings.Contains(line, "Subtotal") && strings.Contains(line, "…") {
				t.Fatalf("expected full subtotal at width %d, got %q", width, line)
			}
		}
	}
}

func TestQuantityOutOfRangeNeverReachesNetwork(t *testing.T) {
	r := newRig(t, testutil.TwoLineCart())
	r.open(t)
	id := r.itemID(t, 0)

	if cmd := r.drawer.SetQuantity(id, 0); cmd != nil {
		t.Fatalf("expected no request below 1")
	}
	if text, _ := r.drawer.Notice(); text != i18n.QuantityMin {
		t.Fatalf("expected minimum notice, got %q", text)
	}
	if cmd := r.drawer.SetQuantity(id, 6); cmd != nil {
		t.Fatalf("expected no request above max")
	}
	if text, _ := r.drawer.Notice(); text != i18n.QuantityMax {
		t.Fatalf("expected maximum notice, got %q", text)
	}
	if cmd := r.drawer.Step(id, -1); cmd != nil {
		t.Fatalf("decrement at 1 must be rejected locally")
	}
	if hits := r.store.Hits(fixture.RouteUpdate); hits != 0 {
		t.Fatalf("expected no update requests, got %d", hits)
	}
}

func TestSetQuantityRefreshesFromServer(t *testing.T) {
	r := newRig(t, testutil.TwoLineCart())
	r.open(t)
	id := r.itemID(t, 0)
	r.run(r.drawer.SetQuantity(id, 2))
	item, _ := r.drawer.Snapshot().Item(id)
	if item.Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", item.Quantity)
	}
	if got := r.drawer.Snapshot().Subtotal.Float(); got != 90 {
		t.Fatalf("expected server subtotal 90, got %v", got)
	}
	if hits := r.store.Hits(fixture.RouteCartData); hits != 2 {
		t.Fatalf("expected refresh after mutation, got %d fetches", hits)
	}
	if r.badge.count != 4 {
		t.Fatalf("expected badge 4, got %d", r.badge.count)
	}
}

func TestQuantityFailureShowsServerMessage(t *testing.T) {
	r := newRig(t, testutil.TwoLineCart())
	r.open(t)
	id := r.itemID(t, 0)
	r.store.FailNext(fixture.RouteUpdate, "")
	r.run(r.drawer.SetQuantity(id, 2))
	if text, _ := r.drawer.Notice(); text != i18n.QuantityFailed {
		t.Fatalf("expected fallback message, got %q", text)
	}
	item, _ := r.drawer.Snapshot().Item(id)
	if item.Quantity != 1 {
		t.Fatalf("quantity changed on failure: %d", item.Quantity)
	}
	if r.drawer.Pending(id) {
		t.Fatalf("item should be re-enabled after failure")
	}
}

func TestMutationsSerializedPerItem(t *testing.T) {
	r := newRig(t, testutil.TwoLineCart())
	r.open(t)
	id := r.itemID(t, 0)
	first := r.drawer.SetQuantity(id, 2)
	if first == nil {
		t.Fatalf("expected request")
	}
	if cmd := r.drawer.SetQuantity(id, 3); cmd != nil {
		t.Fatalf("expected second mutation to be rejected while in flight")
	}
	if text, _ := r.drawer.Notice(); text != i18n.StillUpdating {
		t.Fatalf("expected still updating notice, got %q", text)
	}
	other := r.itemID(t, 1)
	if cmd := r.drawer.SetQuantity(other, 1); cmd == nil {
		t.Fatalf("other items must not be blocked")
	}
	r.run(first)
	if r.drawer.Pending(id) {
		t.Fatalf("expected item released after response")
	}
}

func TestRemoveRequiresConfirmation(t *testing.T) {
	r := newRig(t, testutil.TwoLineCart())
	r.open(t)
	id := r.itemID(t, 0)
	r.drawer.RequestRemove(id)
	if r.drawer.Confirming() != id {
		t.Fatalf("expected confirmation prompt")
	}
	if got := r.drawer.Focusables(); len(got) != 2 {
		t.Fatalf("expected confirmation to trap focus, got %v", got)
	}
	r.drawer.CancelRemove()
	if r.store.Hits(fixture.RouteRemove) != 0 {
		t.Fatalf("cancel must not send a request")
	}
	if r.focus.Current() != itemControl(id, "remove") {
		t.Fatalf("expected focus back on remove, got %q", r.focus.Current())
	}
}

func TestRemoveFailureKeepsRow(t *testing.T) {
	r := newRig(t, testutil.TwoLineCart())
	r.open(t)
	id := r.itemID(t, 0)
	r.store.FailNext(fixture.RouteRemove, "X")
	r.drawer.RequestRemove(id)
	r.run(r.drawer.ConfirmRemove())
	if _, ok := r.drawer.Snapshot().Item(id); !ok {
		t.Fatalf("row removed despite failure")
	}
	if text, _ := r.drawer.Notice(); text != "X" {
		t.Fatalf("expected verbatim server message, got %q", text)
	}
	if !strings.Contains(ansi.Strip(r.drawer.View(60, 40)), "X") {
		t.Fatalf("expected message in view")
	}
	if !r.drawer.IsOpen() {
		t.Fatalf("failure must not close the drawer")
	}
}

func TestRemoveSuccessRefreshes(t *testing.T) {
	r := newRig(t, testutil.TwoLineCart())
	r.open(t)
	id := r.itemID(t, 0)
	r.focus.Set(itemControl(id, "remove"))
	r.run(r.drawer.Activate(itemControl(id, "remove")))
	r.run(r.drawer.Activate(confirmYes))
	if _, ok := r.drawer.Snapshot().Item(id); ok {
		t.Fatalf("expected row removed")
	}
	if text, _ := r.drawer.Notice(); text != "A removed from cart" {
		t.Fatalf("expected server message, got %q", text)
	}
	if r.badge.count != 2 {
		t.Fatalf("expected badge 2, got %d", r.badge.count)
	}
	if !r.drawer.Overlay().Contains(r.focus.Current()) {
		t.Fatalf("focus left the drawer: %q", r.focus.Current())
	}
}

func TestStaleSnapshotDiscarded(t *testing.T) {
	r := newRig(t, testutil.TwoLineCart())
	r.open(t)
	older := r.drawer.Refresh()
	newer := r.drawer.Refresh()
	newMsg := newer()
	r.store.PutLine(2, 0, 1)
	oldMsg := older()
	r.drawer.Update(newMsg)
	r.drawer.Update(oldMsg)
	if got := len(r.drawer.Snapshot().Items); got != 2 {
		t.Fatalf("stale snapshot applied: %d items", got)
	}
}

func TestFailedRefreshKeepsRenderedSnapshot(t *testing.T) {
	r := newRig(t, testutil.TwoLineCart())
	r.open(t)
	before := ansi.Strip(r.drawer.View(60, 40))

	r.store.FailNext(fixture.RouteCartData, "session expired")
	r.run(r.drawer.Refresh())
	if got := len(r.drawer.Snapshot().Items); got != 2 {
		t.Fatalf("failed refresh replaced the snapshot: %d items", got)
	}
	if !r.drawer.Loaded() || r.drawer.Loading() {
		t.Fatalf("expected loaded and idle after failed refresh")
	}
	if r.badge.count != 3 {
		t.Fatalf("failed refresh changed the badge to %d", r.badge.count)
	}
	after := ansi.Strip(r.drawer.View(60, 40))
	for _, want := range []string{"₪30.00", "₪60.00"} {
		if !strings.Contains(after, want) {
			t.Fatalf("expected %s still rendered after failed refresh:\n%s", want, after)
		}
	}
	if after != before {
		t.Fatalf("expected unchanged frame after failed refresh:\nbefore:\n%s\nafter:\n%s", before, after)
	}
}

func TestOpenCloseRestoresFocusAndTraps(t *testing.T) {
	r := newRig(t, testutil.TwoLineCart())
	r.open(t)
	if r.focus.Current() != closeID {
		t.Fatalf("expected focus on close button, got %q", r.focus.Current())
	}
	r.drawer.HandleKey(tea.KeyMsg{Type: tea.KeyShiftTab})
	if r.focus.Current() != continueID {
		t.Fatalf("expected wrap to last control, got %q", r.focus.Current())
	}
	r.drawer.HandleKey(tea.KeyMsg{Type: tea.KeyTab})
	if r.focus.Current() != closeID {
		t.Fatalf("expected wrap to first control, got %q", r.focus.Current())
	}
	r.drawer.HandleKey(tea.KeyMsg{Type: tea.KeyEsc})
	if r.drawer.IsOpen() || r.focus.Current() != "page:list" {
		t.Fatalf("expected closed with focus restored, got %q", r.focus.Current())
	}
	if r.drawer.Loaded() {
		t.Fatalf("snapshot must be dropped on close")
	}
}

func TestEmptyCartShowsEmptyBlock(t *testing.T) {
	r := newRig(t, nil)
	r.open(t)
	view := ansi.Strip(r.drawer.View(60, 20))
	if !strings.Contains(view, i18n.CartEmpty) {
		t.Fatalf("expected empty block:\n%s", view)
	}
	if strings.Contains(view, i18n.Subtotal) || strings.Contains(view, i18n.Checkout) {
		t.Fatalf("expected summary hidden:\n%s", view)
	}
}

func TestCheckoutNavigates(t *testing.T) {
	r := newRig(t, testutil.TwoLineCart())
	r.open(t)
	r.run(r.drawer.Activate(checkoutID))
	if r.drawer.IsOpen() {
		t.Fatalf("expected drawer closed")
	}
	if len(r.out) != 1 {
		t.Fatalf("expected navigation message, got %#v", r.out)
	}
	if nav, ok := r.out[0].(route.Msg); !ok || nav.Href != route.Checkout {
		t.Fatalf("unexpected message %#v", r.out[0])
	}
}
