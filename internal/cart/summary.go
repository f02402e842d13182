package cart

import "github.com/atomicstack/storefront-tui/internal/shop"

// Summary is the shipping presentation of a snapshot. Every amount comes
// from the server; nothing here is summed locally.
type Summary struct {
	Subtotal   float64
	Fee        float64
	Free       bool
	ShowNotice bool
	Remaining  float64
}

// SummaryFor applies the free-shipping policy to snap.
func SummaryFor(snap shop.CartSnapshot) Summary {
	sum := Summary{Subtotal: snap.Subtotal.Float()}
	threshold := snap.FreeShippingThreshold.Float()
	switch {
	case sum.Subtotal >= threshold:
		sum.Free = true
	case sum.Subtotal > 0:
		sum.Fee = snap.ShippingFee.Float()
		sum.ShowNotice = true
		if snap.RemainingForFreeShipping != nil {
			sum.Remaining = snap.RemainingForFreeShipping.Float()
		} else {
			sum.Remaining = threshold - sum.Subtotal
		}
	default:
		sum.Free = true
	}
	return sum
}
