package dispatcher

import (
	"errors"
	"testing"

	"github.com/atomicstack/storefront-tui/internal/backend"
	"github.com/atomicstack/storefront-tui/internal/state"
)

func TestHandleCartCount(t *testing.T) {
	badge := state.NewBadgeStore()
	d := New(badge)
	res := d.Handle(backend.Event{Kind: backend.KindCartCount, Data: 4})
	if !res.BadgeUpdated || badge.Count() != 4 {
		t.Fatalf("expected badge 4, got %d (%+v)", badge.Count(), res)
	}
	if res := d.Handle(backend.Event{Kind: backend.KindCartCount, Data: 4}); res.BadgeUpdated {
		t.Fatalf("expected unchanged count to report no update")
	}
}

func TestHandleIgnoresErrors(t *testing.T) {
	badge := state.NewBadgeStore()
	badge.SetCount(2)
	d := New(badge)
	res := d.Handle(backend.Event{Kind: backend.KindCartCount, Err: errors.New("offline")})
	if res.BadgeUpdated || badge.Count() != 2 {
		t.Fatalf("expected errors to keep the last count")
	}
}
