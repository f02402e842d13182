package cart

import (
	"errors"
	"fmt"

	"github.com/atomicstack/storefront-tui/internal/shop"
)

var (
	// ErrQuantityOutOfRange rejects a quantity outside [1, max] before any
	// request is made.
	ErrQuantityOutOfRange = errors.New("quantity out of range")
	// ErrItemBusy rejects a mutation while another one for the same item is
	// in flight.
	ErrItemBusy = errors.New("item mutation in flight")
)

// CheckQuantity validates n against the stock ceiling of item.
func CheckQuantity(item shop.CartItem, n int) error {
	if n < 1 || n > item.MaxQuantity {
		return fmt.Errorf("%w: %d not in [1, %d]", ErrQuantityOutOfRange, n, item.MaxQuantity)
	}
	return nil
}
