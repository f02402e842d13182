package fixture

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/atomicstack/storefront-tui/internal/shop"
)

const csrfCookie = "csrftoken"

// Router mounts the storefront endpoints.
func (s *Store) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/", s.handleRoot)
	r.Get("/cart/data/", s.handleCartData)
	r.Get("/product/{id}/variants/", s.handleVariants)
	r.Get("/search/api/", s.handleSearch)
	r.Group(func(r chi.Router) {
		r.Use(requireCSRF)
		r.Post("/cart/update/{id}/", s.handleUpdate)
		r.Post("/cart/remove/{id}/", s.handleRemove)
		r.Post("/cart/add/{id}/", s.handleAdd)
	})
	return r
}

// requireCSRF rejects mutations whose header does not echo the cookie.
func requireCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ck, err := r.Cookie(csrfCookie)
		if err != nil || ck.Value == "" || r.Header.Get("X-CSRFToken") != ck.Value {
			http.Error(w, "csrf verification failed", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Store) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.hit(RouteRoot)
	if _, err := r.Cookie(csrfCookie); err != nil {
		http.SetCookie(w, &http.Cookie{Name: csrfCookie, Value: uuid.NewString(), Path: "/"})
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte("<!doctype html><title>storefront</title>"))
}

func (s *Store) handleCartData(w http.ResponseWriter, r *http.Request) {
	if msg, fail := s.hit(RouteCartData); fail {
		writeFailure(w, msg)
		return
	}
	snap := s.Snapshot()
	writeJSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
		shop.CartSnapshot
	}{true, snap})
}

func (s *Store) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if msg, fail := s.hit(RouteUpdate); fail {
		writeFailure(w, msg)
		return
	}
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "bad item id", http.StatusBadRequest)
		return
	}
	qty, err := strconv.Atoi(r.FormValue("quantity"))
	if err != nil {
		writeFailure(w, "invalid quantity")
		return
	}

	s.mu.Lock()
	_, l := s.lineLocked(id)
	if l == nil {
		s.mu.Unlock()
		writeFailure(w, "item not found")
		return
	}
	p := s.products[l.productID]
	if qty < 1 || qty > p.Stock {
		s.mu.Unlock()
		writeFailure(w, "quantity out of range")
		return
	}
	l.quantity = qty
	price := p.Price
	if _, size, ok := p.variant(l.variantID); ok && size.Price != nil {
		price = size.Price.Float()
	}
	subtotal := shop.Price(price * float64(qty))
	total := s.totalItemsLocked()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"item_subtotal": subtotal,
		"total_items":   total,
	})
}

func (s *Store) handleRemove(w http.ResponseWriter, r *http.Request) {
	if msg, fail := s.hit(RouteRemove); fail {
		writeFailure(w, msg)
		return
	}
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "bad item id", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	idx, l := s.lineLocked(id)
	if l == nil {
		s.mu.Unlock()
		writeFailure(w, "item not found")
		return
	}
	name := s.products[l.productID].Name
	s.lines = append(s.lines[:idx], s.lines[idx+1:]...)
	total := s.totalItemsLocked()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"message":     name + " removed from cart",
		"total_items": total,
	})
}

func (s *Store) handleVariants(w http.ResponseWriter, r *http.Request) {
	if msg, fail := s.hit(RouteVariants); fail {
		writeFailure(w, msg)
		return
	}
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "bad product id", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	p, ok := s.products[id]
	s.mu.Unlock()
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	fabrics := p.Fabrics
	if fabrics == nil {
		fabrics = []shop.Fabric{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"product": shop.Product{
			ID:            p.ID,
			Name:          p.Name,
			Subtitle:      p.Subtitle,
			Price:         shop.Price(p.Price),
			StockQuantity: p.Stock,
		},
		"has_variants": p.Fabrics != nil,
		"fabrics":      fabrics,
	})
}

func (s *Store) handleAdd(w http.ResponseWriter, r *http.Request) {
	if msg, fail := s.hit(RouteAdd); fail {
		writeFailure(w, msg)
		return
	}
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "bad product id", http.StatusBadRequest)
		return
	}
	qty, err := strconv.Atoi(r.FormValue("quantity"))
	if err != nil || qty < 1 {
		qty = 1
	}
	variantID := 0
	if v := r.FormValue("variant_id"); v != "" {
		if variantID, err = strconv.Atoi(v); err != nil {
			writeFailure(w, "invalid variant")
			return
		}
	}

	s.mu.Lock()
	p, ok := s.products[id]
	if !ok {
		s.mu.Unlock()
		writeFailure(w, "product not found")
		return
	}
	if p.Fabrics != nil {
		if _, _, found := p.variant(variantID); !found {
			s.mu.Unlock()
			writeFailure(w, "a size must be selected")
			return
		}
	}
	var existing *line
	for _, l := range s.lines {
		if l.productID == id && l.variantID == variantID {
			existing = l
			break
		}
	}
	current := 0
	if existing != nil {
		current = existing.quantity
	}
	if current+qty > p.Stock {
		s.mu.Unlock()
		writeFailure(w, "not enough stock")
		return
	}
	if existing != nil {
		existing.quantity += qty
	} else {
		s.lines = append(s.lines, &line{id: s.nextLine, productID: id, variantID: variantID, quantity: qty})
		s.nextLine++
	}
	count := s.totalItemsLocked()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"cart_count": count,
	})
}

func (s *Store) handleSearch(w http.ResponseWriter, r *http.Request) {
	s.hit(RouteSearch)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"results": s.search(r.URL.Query().Get("q")),
	})
}

func writeFailure(w http.ResponseWriter, msg string) {
	body := map[string]interface{}{"success": false}
	if msg != "" {
		body["error"] = msg
	}
	writeJSON(w, http.StatusOK, body)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
