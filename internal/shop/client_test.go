package shop_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/atomicstack/storefront-tui/internal/shop"
	"github.com/atomicstack/storefront-tui/internal/shop/fixture"
)

func TestPriceAcceptsNumbersAndStrings(t *testing.T) {
	var v struct {
		A shop.Price `json:"a"`
		B shop.Price `json:"b"`
		C shop.Price `json:"c"`
	}
	if err := json.Unmarshal([]byte(`{"a": 12.5, "b": "99.90", "c": null}`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v.A != 12.5 || v.B != 99.9 || v.C != 0 {
		t.Fatalf("unexpected prices %+v", v)
	}
	if err := json.Unmarshal([]byte(`{"a": "abc"}`), &v); err == nil {
		t.Fatalf("expected error for non-numeric price")
	}
}

func TestResolve(t *testing.T) {
	u, err := shop.Resolve("shop.example/")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if u.String() != "http://shop.example" {
		t.Fatalf("unexpected url %q", u.String())
	}
	if _, err := shop.Resolve("ftp://x"); err == nil {
		t.Fatalf("expected scheme error")
	}
	if _, err := shop.Resolve("  "); err == nil {
		t.Fatalf("expected empty error")
	}
}

func TestCartDataDecodesSnapshot(t *testing.T) {
	s := fixture.New()
	s.AddProduct(fixture.Product{ID: 1, Slug: "a", Name: "A", Price: 30, Stock: 4})
	s.PutLine(1, 0, 2)
	srv := httptest.NewServer(s.Router())
	defer srv.Close()
	client, err := shop.NewClient(srv.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	snap, err := client.CartData(context.Background())
	if err != nil {
		t.Fatalf("CartData: %v", err)
	}
	if len(snap.Items) != 1 || snap.Items[0].MaxQuantity != 4 || snap.TotalItems != 2 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestRemoveFailureIsLogical(t *testing.T) {
	s := fixture.New()
	s.AddProduct(fixture.Product{ID: 1, Slug: "a", Name: "A", Price: 30, Stock: 4})
	id := s.PutLine(1, 0, 1)
	s.FailNext(fixture.RouteRemove, "X")
	srv := httptest.NewServer(s.Router())
	defer srv.Close()
	client, _ := shop.NewClient(srv.URL)

	_, err := client.RemoveItem(context.Background(), id)
	msg, ok := shop.ServerMessage(err)
	if !ok || msg != "X" {
		t.Fatalf("expected server message X, got %v", err)
	}
	if len(s.Snapshot().Items) != 1 {
		t.Fatalf("expected item to remain")
	}
}

func TestStatusAndMalformedErrors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/cart/data/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>"))
	})
	mux.HandleFunc("/search/api/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	client, _ := shop.NewClient(srv.URL)

	_, err := client.CartData(context.Background())
	var malformed *shop.MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected malformed response error, got %v", err)
	}
	_, err = client.Search(context.Background(), "ab")
	var status *shop.StatusError
	if !errors.As(err, &status) || status.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestMissingSuccessFlagIsMalformed(t *testing.T) {
	for _, body := range []string{`null`, `{}`, `{"error":"session expired"}`, `{"items":[],"total_items":0}`} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))
		client, _ := shop.NewClient(srv.URL)
		_, err := client.CartData(context.Background())
		srv.Close()
		var malformed *shop.MalformedResponseError
		if !errors.As(err, &malformed) {
			t.Fatalf("body %s: expected malformed response error, got %v", body, err)
		}
	}
}

func TestAddWithoutSuccessFlagFails(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "csrftoken", Value: "t", Path: "/"})
	})
	mux.HandleFunc("/cart/add/7/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"cart_count": 3}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	client, _ := shop.NewClient(srv.URL)

	_, err := client.AddToCart(context.Background(), 7, 0, 1)
	var malformed *shop.MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected add without success flag to be malformed, got %v", err)
	}
}

func TestTimeoutIsNetworkError(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)
	client, _ := shop.NewClient(srv.URL, shop.WithTimeout(50*time.Millisecond))

	_, err := client.CartData(context.Background())
	var netErr *shop.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected network error, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestRequestsCarryHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte(`{"results": []}`))
	}))
	defer srv.Close()
	client, _ := shop.NewClient(srv.URL)
	if _, err := client.Search(context.Background(), "שמלה"); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if got.Get("X-Requested-With") != "XMLHttpRequest" {
		t.Fatalf("missing X-Requested-With header")
	}
	if got.Get("X-Request-ID") == "" {
		t.Fatalf("missing request id")
	}
}
