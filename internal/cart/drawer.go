// Package cart implements the cart drawer: a snapshot of the server cart
// kept in sync through round-trips, with the server as the only source of
// totals.
package cart

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/atomicstack/storefront-tui/internal/i18n"
	"github.com/atomicstack/storefront-tui/internal/logging"
	"github.com/atomicstack/storefront-tui/internal/logging/events"
	"github.com/atomicstack/storefront-tui/internal/notice"
	"github.com/atomicstack/storefront-tui/internal/overlay"
	"github.com/atomicstack/storefront-tui/internal/route"
	"github.com/atomicstack/storefront-tui/internal/shop"
	"github.com/atomicstack/storefront-tui/internal/ui/command"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	SurfaceID  = "cart"
	TriggerID  = "header:cart"
	closeID    = "cart:close"
	checkoutID = "cart:checkout"
	continueID = "cart:continue"
	confirmYes = "cart:confirm:yes"
	confirmNo  = "cart:confirm:no"
)

// Backend is the part of the storefront client the drawer talks to.
type Backend interface {
	CartData(ctx context.Context) (shop.CartSnapshot, error)
	UpdateQuantity(ctx context.Context, itemID, quantity int) (shop.MutationResult, error)
	RemoveItem(ctx context.Context, itemID int) (shop.MutationResult, error)
}

// Badge receives the header cart count.
type Badge interface {
	SetCount(n int)
}

type Deps struct {
	Backend  Backend
	Bus      *command.Bus
	Printer  *i18n.Printer
	Currency string
	Focus    *overlay.Focus
	Scroll   *overlay.ScrollLock
	Badge    Badge
	Now      func() time.Time
}

type mutation int

const (
	opUpdate mutation = iota
	opRemove
)

func (m mutation) String() string {
	if m == opRemove {
		return "remove"
	}
	return "update"
}

// SnapshotMsg carries a cart fetch result tagged with its request token.
type SnapshotMsg struct {
	seq  int
	snap shop.CartSnapshot
	err  error
}

// MutationMsg carries the response of a quantity update or removal.
type MutationMsg struct {
	op       mutation
	itemID   int
	quantity int
	result   shop.MutationResult
	err      error
}

// Drawer is the cart drawer surface.
type Drawer struct {
	deps     Deps
	overlay  *overlay.Controller
	snap     shop.CartSnapshot
	loaded   bool
	loading  bool
	loadErr  bool
	seq      int
	inflight map[int]mutation
	confirm  int
	notice   notice.Notice
}

func New(deps Deps) *Drawer {
	d := &Drawer{
		deps:     deps,
		inflight: make(map[int]mutation),
		notice:   notice.New(deps.Now),
	}
	d.overlay = overlay.New(overlay.Options{
		ID:               SurfaceID,
		Trigger:          TriggerID,
		TrapFocus:        true,
		LockScroll:       true,
		CloseOnEscape:    true,
		DismissOnOutside: true,
		Focusables:       d.Focusables,
		OnClose:          d.reset,
	}, deps.Focus, deps.Scroll)
	return d
}

func (d *Drawer) Overlay() *overlay.Controller { return d.overlay }

func (d *Drawer) IsOpen() bool { return d.overlay.IsOpen() }

func (d *Drawer) Snapshot() shop.CartSnapshot { return d.snap }

func (d *Drawer) Loaded() bool { return d.loaded }

func (d *Drawer) Loading() bool { return d.loading }

// Pending reports whether a mutation for itemID is in flight.
func (d *Drawer) Pending(itemID int) bool {
	_, ok := d.inflight[itemID]
	return ok
}

// Confirming returns the item awaiting remove confirmation, or 0.
func (d *Drawer) Confirming() int { return d.confirm }

func (d *Drawer) Notice() (string, notice.Kind) { return d.notice.Current() }

func (d *Drawer) t(key string, args ...interface{}) string {
	return d.deps.Printer.T(key, args...)
}

// Open shows the drawer and fetches a fresh snapshot.
func (d *Drawer) Open() tea.Cmd {
	if d.overlay.IsOpen() {
		return nil
	}
	return tea.Batch(d.overlay.Open(), d.Refresh())
}

func (d *Drawer) Close() {
	d.overlay.Close()
}

// reset drops everything fetched for this open.
func (d *Drawer) reset() {
	d.snap = shop.CartSnapshot{}
	d.loaded = false
	d.loading = false
	d.loadErr = false
	d.confirm = 0
	d.notice.Clear()
}

// Refresh fetches the cart. Only the latest issued fetch is applied.
func (d *Drawer) Refresh() tea.Cmd {
	d.seq++
	seq := d.seq
	d.loading = true
	events.Cart.Refresh(seq)
	backend := d.deps.Backend
	return d.deps.Bus.Execute(command.Request{
		Label: "cart.refresh",
		Run: func(ctx context.Context) tea.Msg {
			snap, err := backend.CartData(ctx)
			return SnapshotMsg{seq: seq, snap: snap, err: err}
		},
	})
}

// Update applies drawer messages. It reports whether msg belonged to the
// drawer.
func (d *Drawer) Update(msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case SnapshotMsg:
		d.applySnapshot(msg)
		return true, nil
	case MutationMsg:
		return true, d.applyMutation(msg)
	case overlay.FocusFirstMsg:
		return d.overlay.HandleFocusFirst(msg), nil
	}
	return false, nil
}

func (d *Drawer) applySnapshot(msg SnapshotMsg) {
	if msg.seq != d.seq {
		events.Cart.Stale(msg.seq, d.seq)
		return
	}
	d.loading = false
	if msg.err != nil {
		logging.Errorf("cart refresh", msg.err)
		d.loadErr = !d.loaded
		return
	}
	if d.deps.Badge != nil {
		d.deps.Badge.SetCount(msg.snap.TotalItems)
	}
	if !d.overlay.IsOpen() {
		return
	}
	d.snap = msg.snap
	d.loaded = true
	d.loadErr = false
	if d.confirm != 0 {
		if _, ok := d.snap.Item(d.confirm); !ok {
			d.confirm = 0
		}
	}
	events.Cart.Loaded(msg.seq, len(d.snap.Items), d.snap.TotalItems)
	d.refocus()
}

// SetQuantity requests quantity n for an item. Values outside [1, max] and
// items with a mutation in flight are rejected locally.
func (d *Drawer) SetQuantity(itemID, n int) tea.Cmd {
	item, ok := d.snap.Item(itemID)
	if !ok {
		return nil
	}
	if err := CheckQuantity(item, n); err != nil {
		events.Cart.Rejected(itemID, n, err.Error())
		if n < 1 {
			d.notice.Set(notice.Warning, d.t(i18n.QuantityMin))
		} else {
			d.notice.Set(notice.Warning, d.t(i18n.QuantityMax))
		}
		return nil
	}
	if d.busy(itemID) {
		return nil
	}
	d.inflight[itemID] = opUpdate
	events.Cart.Quantity(itemID, n)
	backend := d.deps.Backend
	return d.deps.Bus.Execute(command.Request{
		Label: "cart.update",
		Run: func(ctx context.Context) tea.Msg {
			res, err := backend.UpdateQuantity(ctx, itemID, n)
			return MutationMsg{op: opUpdate, itemID: itemID, quantity: n, result: res, err: err}
		},
	})
}

// Step moves an item's quantity by delta through SetQuantity.
func (d *Drawer) Step(itemID, delta int) tea.Cmd {
	item, ok := d.snap.Item(itemID)
	if !ok {
		return nil
	}
	return d.SetQuantity(itemID, item.Quantity+delta)
}

// RequestRemove asks for confirmation before removing an item.
func (d *Drawer) RequestRemove(itemID int) {
	if _, ok := d.snap.Item(itemID); !ok {
		return
	}
	if d.busy(itemID) {
		return
	}
	d.confirm = itemID
	events.Cart.RemovePrompt(itemID)
	d.deps.Focus.Set(confirmYes)
}

// CancelRemove dismisses the confirmation and keeps the item.
func (d *Drawer) CancelRemove() {
	if d.confirm == 0 {
		return
	}
	id := d.confirm
	d.confirm = 0
	events.Cart.RemoveCancel(id)
	d.deps.Focus.Set(itemControl(id, "remove"))
}

// ConfirmRemove sends the removal of the item awaiting confirmation.
func (d *Drawer) ConfirmRemove() tea.Cmd {
	id := d.confirm
	if id == 0 {
		return nil
	}
	d.confirm = 0
	if d.busy(id) {
		return nil
	}
	d.inflight[id] = opRemove
	d.deps.Focus.Set(itemControl(id, "remove"))
	events.Cart.Remove(id)
	backend := d.deps.Backend
	return d.deps.Bus.Execute(command.Request{
		Label: "cart.remove",
		Run: func(ctx context.Context) tea.Msg {
			res, err := backend.RemoveItem(ctx, id)
			return MutationMsg{op: opRemove, itemID: id, result: res, err: err}
		},
	})
}

func (d *Drawer) busy(itemID int) bool {
	if _, ok := d.inflight[itemID]; !ok {
		return false
	}
	events.Cart.Rejected(itemID, 0, ErrItemBusy.Error())
	d.notice.Set(notice.Warning, d.t(i18n.StillUpdating))
	return true
}

func (d *Drawer) applyMutation(msg MutationMsg) tea.Cmd {
	delete(d.inflight, msg.itemID)
	if msg.err != nil {
		events.Cart.Failure(msg.op.String(), msg.itemID, msg.err)
		if !d.overlay.IsOpen() {
			return nil
		}
		d.notice.Set(notice.Error, d.failureText(msg.op, msg.err))
		return nil
	}
	if msg.result.TotalItems != nil && d.deps.Badge != nil {
		d.deps.Badge.SetCount(*msg.result.TotalItems)
	}
	if !d.overlay.IsOpen() {
		return nil
	}
	switch msg.op {
	case opUpdate:
		for i := range d.snap.Items {
			if d.snap.Items[i].ID == msg.itemID {
				d.snap.Items[i].Quantity = msg.quantity
			}
		}
	case opRemove:
		items := d.snap.Items[:0:0]
		for _, item := range d.snap.Items {
			if item.ID != msg.itemID {
				items = append(items, item)
			}
		}
		d.snap.Items = items
		if msg.result.Message != "" {
			d.notice.Set(notice.Success, msg.result.Message)
		}
		d.refocus()
	}
	return d.Refresh()
}

// failureText prefers the server message of a logical failure. Transport
// and decode failures are logged and shown with the localized fallback.
func (d *Drawer) failureText(op mutation, err error) string {
	if text, ok := shop.ServerMessage(err); ok {
		return text
	}
	if !shop.IsLogical(err) {
		logging.Errorf("cart "+op.String(), err)
	}
	if op == opRemove {
		return d.t(i18n.RemoveFailed)
	}
	return d.t(i18n.QuantityFailed)
}

// refocus moves focus back into the drawer when its control disappeared.
func (d *Drawer) refocus() {
	if !d.overlay.IsOpen() {
		return
	}
	if current := d.deps.Focus.Current(); current != "" && d.overlay.Contains(current) {
		return
	}
	d.overlay.FocusFirst()
}

// Focusables lists the live controls in tab order. A pending confirmation
// is modal.
func (d *Drawer) Focusables() []string {
	if d.confirm != 0 {
		return []string{confirmYes, confirmNo}
	}
	ids := []string{closeID}
	if !d.loaded {
		return ids
	}
	for _, item := range d.snap.Items {
		ids = append(ids, itemControl(item.ID, "dec"), itemControl(item.ID, "inc"), itemControl(item.ID, "remove"))
	}
	if len(d.snap.Items) > 0 {
		ids = append(ids, checkoutID)
	}
	return append(ids, continueID)
}

// HandleKey routes a key while the drawer is open.
func (d *Drawer) HandleKey(msg tea.KeyMsg) tea.Cmd {
	if d.confirm != 0 {
		switch msg.String() {
		case "esc", "n":
			d.CancelRemove()
			return nil
		case "y":
			return d.ConfirmRemove()
		}
	}
	if d.overlay.HandleKey(msg) {
		return nil
	}
	focused := d.deps.Focus.Current()
	switch msg.String() {
	case "enter", " ":
		return d.Activate(focused)
	case "+", "=":
		if id, _, ok := parseItemControl(focused); ok {
			return d.Step(id, 1)
		}
	case "-":
		if id, _, ok := parseItemControl(focused); ok {
			return d.Step(id, -1)
		}
	case "delete", "x":
		if id, _, ok := parseItemControl(focused); ok {
			d.RequestRemove(id)
		}
	}
	return nil
}

// Activate presses the control with the given focus id.
func (d *Drawer) Activate(id string) tea.Cmd {
	switch id {
	case closeID, continueID:
		d.Close()
		return nil
	case checkoutID:
		d.Close()
		events.App.Navigate(route.Checkout)
		return route.To(route.Checkout)
	case confirmYes:
		return d.ConfirmRemove()
	case confirmNo:
		d.CancelRemove()
		return nil
	}
	itemID, part, ok := parseItemControl(id)
	if !ok {
		return nil
	}
	switch part {
	case "dec":
		return d.Step(itemID, -1)
	case "inc":
		return d.Step(itemID, 1)
	case "remove":
		d.RequestRemove(itemID)
	}
	return nil
}

// HandleMouse closes the drawer on a click outside it.
func (d *Drawer) HandleMouse(msg tea.MouseMsg) bool {
	return d.overlay.HandleMouse(msg)
}

func itemControl(itemID int, part string) string {
	return fmt.Sprintf("cart:item:%d:%s", itemID, part)
}

func parseItemControl(id string) (int, string, bool) {
	rest, ok := strings.CutPrefix(id, "cart:item:")
	if !ok {
		return 0, "", false
	}
	idPart, part, ok := strings.Cut(rest, ":")
	if !ok {
		return 0, "", false
	}
	n, err := strconv.Atoi(idPart)
	if err != nil {
		return 0, "", false
	}
	return n, part, true
}
