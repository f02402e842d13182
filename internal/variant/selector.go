package variant

import (
	"github.com/atomicstack/storefront-tui/internal/i18n"
	"github.com/atomicstack/storefront-tui/internal/shop"
)

type State int

const (
	Loading State = iota
	AddEnabled
	AwaitingFabric
	AwaitingSize
	Ready
	Unavailable
)

func (s State) String() string {
	switch s {
	case AddEnabled:
		return "add_enabled"
	case AwaitingFabric:
		return "awaiting_fabric"
	case AwaitingSize:
		return "awaiting_size"
	case Ready:
		return "ready"
	case Unavailable:
		return "unavailable"
	}
	return "loading"
}

// Selector walks the fabric then size cascade of one catalog. A zero id
// means nothing is selected.
type Selector struct {
	catalog  shop.VariantCatalog
	loaded   bool
	fabricID int
	sizeID   int
	quantity int
}

func NewSelector() *Selector {
	return &Selector{quantity: 1}
}

// Load replaces the catalog and resets the selection. A lone fabric is
// selected straight away.
func (s *Selector) Load(c shop.VariantCatalog) {
	s.catalog = c
	s.loaded = true
	s.fabricID = 0
	s.sizeID = 0
	s.quantity = 1
	if c.HasVariants && len(c.Fabrics) == 1 {
		s.fabricID = c.Fabrics[0].ID
	}
}

func (s *Selector) Catalog() shop.VariantCatalog { return s.catalog }

func (s *Selector) State() State {
	switch {
	case !s.loaded:
		return Loading
	case !s.catalog.HasVariants:
		return AddEnabled
	case len(s.catalog.Fabrics) == 0:
		return Unavailable
	case s.fabricID == 0:
		return AwaitingFabric
	case s.sizeID == 0:
		return AwaitingSize
	}
	return Ready
}

// ShowFabrics reports whether fabric choices are rendered.
func (s *Selector) ShowFabrics() bool {
	return s.loaded && s.catalog.HasVariants && len(s.catalog.Fabrics) > 1
}

// ShowSizes reports whether the size section is rendered.
func (s *Selector) ShowSizes() bool {
	return s.loaded && s.catalog.HasVariants && len(s.catalog.Fabrics) > 0
}

func (s *Selector) Fabrics() []shop.Fabric {
	if !s.ShowFabrics() {
		return nil
	}
	return s.catalog.Fabrics
}

func (s *Selector) FabricID() int { return s.fabricID }

func (s *Selector) VariantID() int { return s.sizeID }

// Sizes lists the sizes of the selected fabric.
func (s *Selector) Sizes() []shop.Size {
	f, ok := s.catalog.Fabric(s.fabricID)
	if s.fabricID == 0 || !ok {
		return nil
	}
	return f.Sizes
}

// SelectFabric picks a fabric, clearing any size and disabling add.
func (s *Selector) SelectFabric(id int) bool {
	if !s.catalog.HasVariants {
		return false
	}
	if _, ok := s.catalog.Fabric(id); !ok {
		return false
	}
	s.fabricID = id
	s.sizeID = 0
	return true
}

// SelectSize picks a size of the selected fabric.
func (s *Selector) SelectSize(id int) bool {
	for _, size := range s.Sizes() {
		if size.ID == id {
			s.sizeID = id
			return true
		}
	}
	return false
}

func (s *Selector) selectedSize() (shop.Size, bool) {
	for _, size := range s.Sizes() {
		if size.ID == s.sizeID {
			return size, true
		}
	}
	return shop.Size{}, false
}

func (s *Selector) CanAdd() bool {
	st := s.State()
	return st == AddEnabled || st == Ready
}

// DisplayPrice is the base price unless the selected size carries a
// different one.
func (s *Selector) DisplayPrice() float64 {
	base := s.catalog.Product.Price.Float()
	if size, ok := s.selectedSize(); ok && size.Price != nil && size.Price.Float() != base {
		return size.Price.Float()
	}
	return base
}

func (s *Selector) Quantity() int { return s.quantity }

func (s *Selector) maxQuantity() int {
	if s.catalog.Product.StockQuantity < 1 {
		return 1
	}
	return s.catalog.Product.StockQuantity
}

// Increment and Decrement clamp silently to [1, stock].
func (s *Selector) Increment() {
	if s.quantity < s.maxQuantity() {
		s.quantity++
	}
}

func (s *Selector) Decrement() {
	if s.quantity > 1 {
		s.quantity--
	}
}

// AddLabel is the catalog key for the add control in the current state.
func (s *Selector) AddLabel() string {
	switch s.State() {
	case Loading:
		return i18n.Loading
	case Unavailable:
		return i18n.Unavailable
	case AddEnabled, Ready:
		return i18n.Add
	}
	return i18n.ChooseSize
}

// SizeMessage is the catalog key shown in place of the size list, or "".
func (s *Selector) SizeMessage() string {
	switch s.State() {
	case AwaitingFabric:
		return i18n.ChooseFabricFirst
	case AwaitingSize:
		if len(s.Sizes()) == 0 {
			return i18n.NoSizes
		}
	}
	return ""
}
