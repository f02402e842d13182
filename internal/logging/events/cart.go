package events

import "github.com/atomicstack/storefront-tui/internal/logging"

type CartTracer struct{}

var Cart = CartTracer{}

func (CartTracer) Refresh(seq int) {
	logging.Trace("cart.refresh", map[string]interface{}{"seq": seq})
}

func (CartTracer) Loaded(seq, items, total int) {
	logging.Trace("cart.loaded", map[string]interface{}{"seq": seq, "items": items, "total": total})
}

func (CartTracer) Stale(seq, latest int) {
	logging.Trace("cart.stale", map[string]interface{}{"seq": seq, "latest": latest})
}

func (CartTracer) Quantity(itemID, quantity int) {
	logging.Trace("cart.quantity", map[string]interface{}{"item": itemID, "quantity": quantity})
}

func (CartTracer) Rejected(itemID, quantity int, reason string) {
	logging.Trace("cart.quantity.rejected", map[string]interface{}{"item": itemID, "quantity": quantity, "reason": reason})
}

func (CartTracer) RemovePrompt(itemID int) {
	logging.Trace("cart.remove.prompt", map[string]interface{}{"item": itemID})
}

func (CartTracer) RemoveCancel(itemID int) {
	logging.Trace("cart.remove.cancel", map[string]interface{}{"item": itemID})
}

func (CartTracer) Remove(itemID int) {
	logging.Trace("cart.remove", map[string]interface{}{"item": itemID})
}

func (CartTracer) Failure(op string, itemID int, err error) {
	payload := map[string]interface{}{"op": op, "item": itemID}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("cart.failure", payload)
}
