// Package fixture is an in-memory storefront backend. It serves the same
// JSON endpoints as the real site and backs both the package tests and the
// --demo mode.
package fixture

import (
	"sort"
	"strings"
	"sync"

	"github.com/atomicstack/storefront-tui/internal/shop"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Route names used by FailNext and Hits.
const (
	RouteRoot     = "root"
	RouteCartData = "cart_data"
	RouteUpdate   = "update"
	RouteRemove   = "remove"
	RouteVariants = "variants"
	RouteAdd      = "add"
	RouteSearch   = "search"
)

const searchLimit = 8

// Product is a catalog entry. Fabrics nil means the product has no variants.
type Product struct {
	ID       int
	Slug     string
	Name     string
	Subtitle string
	Price    float64
	Stock    int
	Fabrics  []shop.Fabric
}

func (p Product) variant(id int) (shop.Fabric, shop.Size, bool) {
	for _, f := range p.Fabrics {
		for _, s := range f.Sizes {
			if s.ID == id {
				return f, s, true
			}
		}
	}
	return shop.Fabric{}, shop.Size{}, false
}

type line struct {
	id        int
	productID int
	variantID int
	quantity  int
}

// Store holds products, one shared cart and failure injection state.
type Store struct {
	mu        sync.Mutex
	products  map[int]Product
	order     []int
	lines     []*line
	nextLine  int
	threshold float64
	fee       float64
	failures  map[string]string
	hits      map[string]int
}

// New returns an empty store with a 75 free-shipping threshold and a 15
// shipping fee.
func New() *Store {
	return &Store{
		products:  make(map[int]Product),
		nextLine:  1,
		threshold: 75,
		fee:       15,
		failures:  make(map[string]string),
		hits:      make(map[string]int),
	}
}

// SetShipping overrides the free-shipping threshold and flat fee.
func (s *Store) SetShipping(threshold, fee float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.threshold = threshold
	s.fee = fee
}

// AddProduct registers p, replacing any product with the same id.
func (s *Store) AddProduct(p Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[p.ID]; !ok {
		s.order = append(s.order, p.ID)
	}
	s.products[p.ID] = p
}

// PutLine places a cart line directly and returns its id.
func (s *Store) PutLine(productID, variantID, quantity int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := &line{id: s.nextLine, productID: productID, variantID: variantID, quantity: quantity}
	s.nextLine++
	s.lines = append(s.lines, l)
	return l.id
}

// FailNext makes the next request to route answer success=false with
// message. An empty message yields a failure without an error text.
func (s *Store) FailNext(route, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = message
}

// Hits returns how many requests route has served.
func (s *Store) Hits(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[route]
}

func (s *Store) hit(route string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hits[route]++
	msg, ok := s.failures[route]
	if ok {
		delete(s.failures, route)
	}
	return msg, ok
}

// Snapshot computes the cart the way the real backend does.
func (s *Store) Snapshot() shop.CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() shop.CartSnapshot {
	snap := shop.CartSnapshot{Items: []shop.CartItem{}}
	var subtotal float64
	for _, l := range s.lines {
		p := s.products[l.productID]
		item := shop.CartItem{
			ID:          l.id,
			ProductName: p.Name,
			Subtitle:    p.Subtitle,
			UnitPrice:   shop.Price(p.Price),
			Quantity:    l.quantity,
			MaxQuantity: p.Stock,
		}
		if f, size, ok := p.variant(l.variantID); ok {
			item.VariantDisplay = f.Name + " / " + size.Display()
			item.Size = size.Display()
			if size.Price != nil {
				item.UnitPrice = *size.Price
			}
		}
		subtotal += item.UnitPrice.Float() * float64(l.quantity)
		snap.TotalItems += l.quantity
		snap.Items = append(snap.Items, item)
	}
	snap.Subtotal = shop.Price(subtotal)
	snap.FreeShippingThreshold = shop.Price(s.threshold)
	remaining := shop.Price(0)
	if subtotal > 0 && subtotal < s.threshold {
		snap.ShippingFee = shop.Price(s.fee)
		remaining = shop.Price(s.threshold - subtotal)
	}
	snap.RemainingForFreeShipping = &remaining
	return snap
}

func (s *Store) totalItemsLocked() int {
	total := 0
	for _, l := range s.lines {
		total += l.quantity
	}
	return total
}

func (s *Store) lineLocked(id int) (int, *line) {
	for i, l := range s.lines {
		if l.id == id {
			return i, l
		}
	}
	return -1, nil
}

// search ranks product names and subtitles against query.
func (s *Store) search(query string) []shop.SearchResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return []shop.SearchResult{}
	}
	targets := make([]string, len(s.order))
	for i, id := range s.order {
		p := s.products[id]
		targets[i] = p.Name + " " + p.Subtitle
	}
	ranks := fuzzy.RankFindNormalizedFold(trimmed, targets)
	sort.Sort(ranks)
	results := make([]shop.SearchResult, 0, len(ranks))
	for _, rank := range ranks {
		if len(results) == searchLimit {
			break
		}
		p := s.products[s.order[rank.OriginalIndex]]
		results = append(results, shop.SearchResult{
			ID:       p.ID,
			Slug:     p.Slug,
			Name:     p.Name,
			Subtitle: p.Subtitle,
			Price:    shop.Price(p.Price),
		})
	}
	return results
}
