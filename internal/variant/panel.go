// Package variant implements the quick-add panel: it loads a product's
// variant catalog, walks the fabric and size cascade and submits the
// chosen variant to the cart.
package variant

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
	"github.com/atomicstack/storefront-tui/internal/shop"
	"github.com/atomicstack/storefront-tui/internal/ui/command"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	SurfaceID = "variant"
	closeID   = "variant:close"
	qtyDecID  = "variant:qty:dec"
	qtyIncID  = "variant:qty:inc"
	addID     = "variant:add"
)

// Backend is the part of the storefront client the panel talks to.
type Backend interface {
	ProductVariants(ctx context.Context, productID int) (shop.VariantCatalog, error)
	AddToCart(ctx context.Context, productID, variantID, quantity int) (shop.AddResult, error)
}

type Deps struct {
	Backend  Backend
	Bus      *command.Bus
	Printer  *i18n.Printer
	Currency string
	Focus    *overlay.Focus
	Scroll   *overlay.ScrollLock
	// Trigger receives focus on close when nothing was focused at open.
	Trigger string
	Now     func() time.Time
}

// CatalogMsg carries a variant catalog tagged with its request token.
type CatalogMsg struct {
	seq       int
	productID int
	catalog   shop.VariantCatalog
	err       error
}

// SubmitMsg carries an add-to-cart response tagged with its request token.
type SubmitMsg struct {
	seq       int
	productID int
	result    shop.AddResult
	err       error
}

// AddedMsg announces a successful add. The host updates the cart badge when
// HasCount is set and opens the cart when OpenCart is set.
type AddedMsg struct {
	ProductID int
	CartCount int
	HasCount  bool
	OpenCart  bool
}

// Panel is the quick-add surface.
type Panel struct {
	deps       Deps
	overlay    *overlay.Controller
	productID  int
	selector   *Selector
	catalogSeq int
	submitSeq  int
	submitting bool
	loadErr    bool
	notice     notice.Notice
}

func New(deps Deps) *Panel {
	p := &Panel{deps: deps, selector: NewSelector(), notice: notice.New(deps.Now)}
	p.overlay = overlay.New(overlay.Options{
		ID:               SurfaceID,
		Trigger:          deps.Trigger,
		TrapFocus:        true,
		LockScroll:       true,
		CloseOnEscape:    true,
		DismissOnOutside: true,
		Focusables:       p.Focusables,
		OnClose:          p.reset,
	}, deps.Focus, deps.Scroll)
	return p
}

func (p *Panel) Overlay() *overlay.Controller { return p.overlay }

func (p *Panel) IsOpen() bool { return p.overlay.IsOpen() }

func (p *Panel) ProductID() int { return p.productID }

func (p *Panel) Selector() *Selector { return p.selector }

func (p *Panel) Submitting() bool { return p.submitting }

func (p *Panel) Notice() (string, notice.Kind) { return p.notice.Current() }

func (p *Panel) t(key string, args ...interface{}) string {
	return p.deps.Printer.T(key, args...)
}

// Open shows the panel for productID and fetches its catalog. Opening again
// for another product while open restarts the fetch; the earlier response
// is discarded by its token.
func (p *Panel) Open(productID int) tea.Cmd {
	if p.overlay.IsOpen() && p.productID == productID {
		return nil
	}
	var focusCmd tea.Cmd
	if p.overlay.IsOpen() {
		p.clear()
	} else {
		focusCmd = p.overlay.Open()
	}
	p.productID = productID
	p.catalogSeq++
	seq := p.catalogSeq
	events.Variant.Open(productID, seq)
	backend := p.deps.Backend
	fetch := p.deps.Bus.Execute(command.Request{
		Label: "variant.catalog",
		Run: func(ctx context.Context) tea.Msg {
			c, err := backend.ProductVariants(ctx, productID)
			return CatalogMsg{seq: seq, productID: productID, catalog: c, err: err}
		},
	})
	return tea.Batch(focusCmd, fetch)
}

func (p *Panel) Close() {
	p.overlay.Close()
}

func (p *Panel) reset() {
	p.clear()
	p.productID = 0
}

// clear destroys the selection state and invalidates pending responses.
func (p *Panel) clear() {
	p.selector = NewSelector()
	p.catalogSeq++
	p.submitSeq++
	p.submitting = false
	p.loadErr = false
	p.notice.Clear()
}

// Update applies panel messages. It reports whether msg belonged to the
// panel.
func (p *Panel) Update(msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case CatalogMsg:
		p.applyCatalog(msg)
		return true, nil
	case SubmitMsg:
		return true, p.applySubmit(msg)
	case overlay.FocusFirstMsg:
		return p.overlay.HandleFocusFirst(msg), nil
	}
	return false, nil
}

func (p *Panel) applyCatalog(msg CatalogMsg) {
	if msg.seq != p.catalogSeq || !p.overlay.IsOpen() {
		events.Variant.Stale("catalog", msg.seq, p.catalogSeq)
		return
	}
	if msg.err != nil {
		logging.Errorf("variant catalog", msg.err)
		p.loadErr = true
		p.notice.Set(notice.Error, p.t(i18n.GenericError))
		return
	}
	p.selector.Load(msg.catalog)
	events.Variant.Catalog(msg.productID, p.selector.State().String(), len(msg.catalog.Fabrics))
}

// SelectFabric picks a fabric in the open panel.
func (p *Panel) SelectFabric(id int) {
	if p.submitting {
		return
	}
	if p.selector.SelectFabric(id) {
		events.Variant.Fabric(id)
	}
}

// SelectSize picks a size of the selected fabric.
func (p *Panel) SelectSize(id int) {
	if p.submitting {
		return
	}
	if p.selector.SelectSize(id) {
		events.Variant.Size(id)
	}
}

// Submit sends the selection to the cart. It is a no-op unless the add
// control is enabled.
func (p *Panel) Submit() tea.Cmd {
	if !p.overlay.IsOpen() || p.submitting || !p.selector.CanAdd() {
		return nil
	}
	p.submitting = true
	p.submitSeq++
	seq := p.submitSeq
	productID := p.productID
	variantID := p.selector.VariantID()
	quantity := p.selector.Quantity()
	events.Variant.Submit(productID, variantID, quantity)
	backend := p.deps.Backend
	return p.deps.Bus.Execute(command.Request{
		Label: "variant.add",
		Run: func(ctx context.Context) tea.Msg {
			res, err := backend.AddToCart(ctx, productID, variantID, quantity)
			return SubmitMsg{seq: seq, productID: productID, result: res, err: err}
		},
	})
}

func (p *Panel) applySubmit(msg SubmitMsg) tea.Cmd {
	if msg.seq != p.submitSeq {
		events.Variant.Stale("submit", msg.seq, p.submitSeq)
		if msg.err != nil {
			return nil
		}
		return added(msg, false)
	}
	p.submitting = false
	if msg.err != nil {
		events.Variant.Failure(msg.productID, msg.err)
		text, ok := shop.ServerMessage(msg.err)
		if !ok {
			if !shop.IsLogical(msg.err) {
				logging.Errorf("add to cart", msg.err)
			}
			text = p.t(i18n.AddFailed)
		}
		p.notice.Set(notice.Error, text)
		if !p.overlay.Contains(p.deps.Focus.Current()) {
			p.overlay.FocusFirst()
		}
		return nil
	}
	count := -1
	if msg.result.CartCount != nil {
		count = *msg.result.CartCount
	}
	events.Variant.Added(msg.productID, count)
	p.Close()
	return added(msg, true)
}

func added(msg SubmitMsg, openCart bool) tea.Cmd {
	out := AddedMsg{ProductID: msg.productID, OpenCart: openCart}
	if msg.result.CartCount != nil {
		out.CartCount = *msg.result.CartCount
		out.HasCount = true
	}
	return func() tea.Msg { return out }
}

// Focusables lists the enabled controls in tab order.
func (p *Panel) Focusables() []string {
	ids := []string{closeID}
	s := p.selector
	if s.State() == Loading || p.submitting {
		return ids
	}
	for _, f := range s.Fabrics() {
		ids = append(ids, fabricControl(f.ID))
	}
	for _, size := range s.Sizes() {
		ids = append(ids, sizeControl(size.ID))
	}
	ids = append(ids, qtyDecID, qtyIncID)
	if s.CanAdd() {
		ids = append(ids, addID)
	}
	return ids
}

// HandleKey routes a key while the panel is open.
func (p *Panel) HandleKey(msg tea.KeyMsg) tea.Cmd {
	if p.overlay.HandleKey(msg) {
		return nil
	}
	switch msg.String() {
	case "enter", " ":
		return p.Activate(p.deps.Focus.Current())
	case "+", "=":
		p.selector.Increment()
	case "-":
		p.selector.Decrement()
	}
	return nil
}

// Activate presses the control with the given focus id.
func (p *Panel) Activate(id string) tea.Cmd {
	switch id {
	case closeID:
		p.Close()
	case qtyDecID:
		p.selector.Decrement()
	case qtyIncID:
		p.selector.Increment()
	case addID:
		return p.Submit()
	default:
		if n, ok := parseControl(id, "variant:fabric:"); ok {
			p.SelectFabric(n)
		} else if n, ok := parseControl(id, "variant:size:"); ok {
			p.SelectSize(n)
		}
	}
	return nil
}

// HandleMouse closes the panel on a click outside it.
func (p *Panel) HandleMouse(msg tea.MouseMsg) bool {
	return p.overlay.HandleMouse(msg)
}

func fabricControl(id int) string { return fmt.Sprintf("variant:fabric:%d", id) }

func sizeControl(id int) string { return fmt.Sprintf("variant:size:%d", id) }

func parseControl(id, prefix string) (int, bool) {
	rest, ok := strings.CutPrefix(id, prefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	return n, err == nil
}
