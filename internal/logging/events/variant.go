package events

import "github.com/atomicstack/storefront-tui/internal/logging"

type VariantTracer struct{}

var Variant = VariantTracer{}

func (VariantTracer) Open(productID, seq int) {
	logging.Trace("variant.open", map[string]interface{}{"product": productID, "seq": seq})
}

func (VariantTracer) Catalog(productID int, state string, fabrics int) {
	logging.Trace("variant.catalog", map[string]interface{}{"product": productID, "state": state, "fabrics": fabrics})
}

func (VariantTracer) Stale(kind string, seq, latest int) {
	logging.Trace("variant.stale", map[string]interface{}{"kind": kind, "seq": seq, "latest": latest})
}

func (VariantTracer) Fabric(fabricID int) {
	logging.Trace("variant.fabric", map[string]interface{}{"fabric": fabricID})
}

func (VariantTracer) Size(variantID int) {
	logging.Trace("variant.size", map[string]interface{}{"variant": variantID})
}

func (VariantTracer) Submit(productID, variantID, quantity int) {
	logging.Trace("variant.submit", map[string]interface{}{"product": productID, "variant": variantID, "quantity": quantity})
}

func (VariantTracer) Added(productID, cartCount int) {
	logging.Trace("variant.added", map[string]interface{}{"product": productID, "cart_count": cartCount})
}

func (VariantTracer) Failure(productID int, err error) {
	payload := map[string]interface{}{"product": productID}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("variant.failure", payload)
}
