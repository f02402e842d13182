package dispatcher

import (
	"github.com/atomicstack/storefront-tui/internal/backend"
	"github.com/atomicstack/storefront-tui/internal/state"
)

type Result struct {
	BadgeUpdated bool
}

type Dispatcher struct {
	badge state.BadgeStore
}

func New(badge state.BadgeStore) *Dispatcher {
	return &Dispatcher{badge: badge}
}

func (d *Dispatcher) Handle(evt backend.Event) Result {
	var res Result
	if evt.Err != nil {
		return res
	}
	switch evt.Kind {
	case backend.KindCartCount:
		if count, ok := evt.Data.(int); ok {
			if d.badge.Known() && d.badge.Count() == count {
				return res
			}
			d.badge.SetCount(count)
			res.BadgeUpdated = true
		}
	}
	return res
}
