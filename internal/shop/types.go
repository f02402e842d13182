// Package shop is the storefront backend client. It speaks the JSON
// endpoints the overlays consume and classifies every failure.
package shop

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Price accepts a JSON number or a decimal string.
type Price float64

func (p *Price) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*p = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*p = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("price %q: %w", s, err)
		}
		*p = Price(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*p = Price(v)
	return nil
}

func (p Price) Float() float64 { return float64(p) }

// CartItem is one line of the cart drawer.
type CartItem struct {
	ID             int    `json:"id"`
	ProductName    string `json:"product_name"`
	Subtitle       string `json:"product_subtitle,omitempty"`
	VariantDisplay string `json:"variant_display,omitempty"`
	Size           string `json:"product_size,omitempty"`
	UnitPrice      Price  `json:"product_price"`
	Quantity       int    `json:"quantity"`
	MaxQuantity    int    `json:"max_quantity"`
	ImageURL       string `json:"product_image,omitempty"`
}

// Variant returns the variant description shown under the product name.
func (i CartItem) Variant() string {
	if i.VariantDisplay != "" {
		return i.VariantDisplay
	}
	return i.Size
}

// CartSnapshot is the server-computed state of the cart. Totals are never
// derived locally.
type CartSnapshot struct {
	Items                    []CartItem `json:"items"`
	Subtotal                 Price      `json:"subtotal"`
	ShippingFee              Price      `json:"shipping_fee"`
	FreeShippingThreshold    Price      `json:"free_shipping_threshold"`
	RemainingForFreeShipping *Price     `json:"remaining_for_free_shipping,omitempty"`
	TotalItems               int        `json:"total_items"`
}

// Item looks up a line by id.
func (s CartSnapshot) Item(id int) (CartItem, bool) {
	for _, item := range s.Items {
		if item.ID == id {
			return item, true
		}
	}
	return CartItem{}, false
}

type cartDataResponse struct {
	envelope
	CartSnapshot
}

// MutationResult is the response of a quantity update or removal.
type MutationResult struct {
	Message      string `json:"message,omitempty"`
	ItemSubtotal *Price `json:"item_subtotal,omitempty"`
	TotalItems   *int   `json:"total_items,omitempty"`
}

type mutationResponse struct {
	envelope
	MutationResult
}

// Product is the base product of a variant catalog.
type Product struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Subtitle      string `json:"subtitle,omitempty"`
	Price         Price  `json:"price"`
	ImageURL      string `json:"image,omitempty"`
	StockQuantity int    `json:"stock_quantity"`
}

// Size is a concrete purchasable variant. Price overrides the product price
// when present.
type Size struct {
	ID    int    `json:"id"`
	Label string `json:"size_display"`
	Code  string `json:"size,omitempty"`
	Price *Price `json:"price,omitempty"`
}

// Display returns the human label, falling back to the size code.
func (s Size) Display() string {
	if s.Label != "" {
		return s.Label
	}
	return s.Code
}

type Fabric struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Sizes []Size `json:"sizes"`
}

// VariantCatalog describes the fabric and size cascade of one product.
type VariantCatalog struct {
	Product     Product  `json:"product"`
	HasVariants bool     `json:"has_variants"`
	Fabrics     []Fabric `json:"fabrics"`
}

// Fabric looks up a fabric by id.
func (c VariantCatalog) Fabric(id int) (Fabric, bool) {
	for _, f := range c.Fabrics {
		if f.ID == id {
			return f, true
		}
	}
	return Fabric{}, false
}

type catalogResponse struct {
	envelope
	VariantCatalog
}

// AddResult is the response of an add-to-cart submission. CartCount is nil
// when the server did not report it.
type AddResult struct {
	CartCount *int   `json:"cart_count,omitempty"`
	Message   string `json:"message,omitempty"`
}

type addResponse struct {
	envelope
	AddResult
}

// SearchResult is one ranked product match.
type SearchResult struct {
	ID       int    `json:"id,omitempty"`
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	Subtitle string `json:"subtitle,omitempty"`
	Price    Price  `json:"price"`
	ImageURL string `json:"image,omitempty"`
}

// Href is the product page link of the result.
func (r SearchResult) Href() string {
	return "/product/" + r.Slug + "/"
}

type searchResponse struct {
	Results []SearchResult `json:"results"`
}

// envelope carries the success flag shared by the JSON endpoints. Only an
// explicit true is a success; a body without the flag is malformed.
type envelope struct {
	Success *bool  `json:"success,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (e envelope) check(op string) error {
	switch {
	case e.Success == nil:
		return &MalformedResponseError{Op: op, Err: errMissingSuccess}
	case !*e.Success:
		return &LogicalError{Op: op, Message: e.Error}
	}
	return nil
}

var errMissingSuccess = errors.New("missing success flag")
