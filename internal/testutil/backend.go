// Package testutil starts throwaway storefront backends for package tests.
package testutil

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/atomicstack/storefront-tui/internal/shop"
	"github.com/atomicstack/storefront-tui/internal/shop/fixture"
)

// StartBackend serves store on a loopback listener for the lifetime of the
// test and returns a client pointed at it. A nil store starts an empty one.
func StartBackend(t *testing.T, store *fixture.Store) (*shop.Client, *fixture.Store) {
	t.Helper()
	if store == nil {
		store = fixture.New()
	}
	srv := httptest.NewServer(store.Router())
	t.Cleanup(srv.Close)
	client, err := shop.NewClient(srv.URL, shop.WithTimeout(5*time.Second))
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client, store
}

// TwoLineCart returns a store whose cart holds two lines of product A at 30
// each (subtotal 60) plus a spare product B priced 20.
func TwoLineCart() *fixture.Store {
	s := fixture.New()
	s.AddProduct(fixture.Product{ID: 1, Slug: "a", Name: "A", Price: 30, Stock: 5})
	s.AddProduct(fixture.Product{ID: 2, Slug: "b", Name: "B", Price: 20, Stock: 5})
	s.AddProduct(fixture.Product{ID: 3, Slug: "c", Name: "C", Price: 15, Stock: 5})
	s.PutLine(1, 0, 1)
	s.PutLine(3, 0, 2)
	return s
}
