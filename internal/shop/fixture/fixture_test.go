package fixture

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/atomicstack/storefront-tui/internal/shop"
)

func newClient(t *testing.T, s *Store) *shop.Client {
	t.Helper()
	srv := httptest.NewServer(s.Router())
	t.Cleanup(srv.Close)
	client, err := shop.NewClient(srv.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestSnapshotShippingBelowThreshold(t *testing.T) {
	s := New()
	s.AddProduct(Product{ID: 1, Slug: "a", Name: "A", Price: 30, Stock: 5})
	s.PutLine(1, 0, 2)
	snap := s.Snapshot()
	if snap.Subtotal.Float() != 60 {
		t.Fatalf("expected subtotal 60, got %v", snap.Subtotal)
	}
	if snap.ShippingFee.Float() != 15 {
		t.Fatalf("expected fee 15, got %v", snap.ShippingFee)
	}
	if snap.RemainingForFreeShipping == nil || snap.RemainingForFreeShipping.Float() != 15 {
		t.Fatalf("expected remaining 15, got %v", snap.RemainingForFreeShipping)
	}
	if snap.TotalItems != 2 {
		t.Fatalf("expected 2 items, got %d", snap.TotalItems)
	}
}

func TestMutationsRequireCSRFCookie(t *testing.T) {
	s := New()
	s.AddProduct(Product{ID: 1, Slug: "a", Name: "A", Price: 10, Stock: 3})
	id := s.PutLine(1, 0, 1)
	client := newClient(t, s)

	if _, err := client.UpdateQuantity(context.Background(), id, 2); err != nil {
		t.Fatalf("UpdateQuantity: %v", err)
	}
	if s.Hits(RouteRoot) != 1 {
		t.Fatalf("expected one priming request, got %d", s.Hits(RouteRoot))
	}
	if _, err := client.UpdateQuantity(context.Background(), id, 3); err != nil {
		t.Fatalf("second UpdateQuantity: %v", err)
	}
	if s.Hits(RouteRoot) != 1 {
		t.Fatalf("expected token reuse, got %d priming requests", s.Hits(RouteRoot))
	}
	if got := s.Snapshot().Items[0].Quantity; got != 3 {
		t.Fatalf("expected quantity 3, got %d", got)
	}
}

func TestAddRequiresVariantWhenProductHasFabrics(t *testing.T) {
	s := Demo()
	client := newClient(t, s)
	_, err := client.AddToCart(context.Background(), 2, 0, 1)
	if msg, ok := shop.ServerMessage(err); !ok || msg != "a size must be selected" {
		t.Fatalf("expected logical failure, got %v", err)
	}
	res, err := client.AddToCart(context.Background(), 2, 102, 1)
	if err != nil {
		t.Fatalf("AddToCart: %v", err)
	}
	if res.CartCount == nil || *res.CartCount != 3 {
		t.Fatalf("expected cart count 3, got %v", res.CartCount)
	}
}

func TestSearchRanksMatches(t *testing.T) {
	s := Demo()
	client := newClient(t, s)
	results, err := client.Search(context.Background(), "silk")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Slug != "silk-blouse" {
		t.Fatalf("unexpected results %+v", results)
	}
	if results[0].Href() != "/product/silk-blouse/" {
		t.Fatalf("unexpected href %q", results[0].Href())
	}
}
