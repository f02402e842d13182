// Package i18n holds the user-facing message catalog. Keys are the English
// strings; other locales register translations against them.
package i18n

import (
	"fmt"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	ChooseSize        = "Choose a size"
	Add               = "Add to order"
	Adding            = "Adding..."
	Unavailable       = "Unavailable"
	ChooseFabricFirst = "Choose a fabric first"
	NoSizes           = "No sizes available"
	AddFailed         = "Could not add the product to the cart"
	QuantityMax       = "You have reached the maximum stock for this product"
	QuantityMin       = "The minimum quantity is 1"
	QuantityFailed    = "Could not update the quantity"
	RemoveFailed      = "Could not remove the product"
	RemoveConfirm     = "Remove this product from the cart?"
	StillUpdating     = "This item is still updating"
	LoadFailed        = "Could not load the cart"
	CartTitle         = "Shopping cart"
	CartEmpty         = "Your cart is empty"
	ContinueShopping  = "Continue shopping"
	Checkout          = "Checkout"
	Subtotal          = "Subtotal"
	Shipping          = "Shipping"
	Free              = "Free"
	RemainingForFree  = "Add %s more for free shipping"
	Total             = "Total"
	Quantity          = "Quantity"
	Yes               = "Yes"
	No                = "No"
	Close             = "Close"
	SearchPlaceholder = "Search products..."
	SeeAll            = "Show all results for \"%s\""
	NoResults         = "No results for \"%s\""
	SearchSite        = "Search the whole site"
	SearchResultsFor  = "Results for \"%s\""
	Loading           = "Loading..."
	GenericError      = "Something went wrong"
	CartCount         = "Cart (%d)"
	StoreTitle        = "Storefront"
	PageEmpty         = "Search for products to fill this page"
	QuickAdd          = "quick add"
	HelpSearch        = "search"
	HelpCart          = "cart"
	HelpOpen          = "open"
	HelpMove          = "move"
	HelpNext          = "next"
	HelpQuit          = "quit"
	Navigated         = "Opened %s"
)

var hebrew = map[string]string{
	ChooseSize:        "בחר מידה",
	Add:               "הוספה להזמנה",
	Adding:            "מוסיף...",
	Unavailable:       "לא זמין",
	ChooseFabricFirst: "יש לבחור סוג בד קודם",
	NoSizes:           "אין מידות זמינות",
	AddFailed:         "אירעה שגיאה בהוספת המוצר לעגלה",
	QuantityMax:       "הגעת למלאי המקסימלי של מוצר זה",
	QuantityMin:       "הכמות המינימלית היא 1",
	QuantityFailed:    "אירעה שגיאה בעדכון הכמות",
	RemoveFailed:      "אירעה שגיאה בהסרת המוצר",
	RemoveConfirm:     "האם אתה בטוח שברצונך להסיר מוצר זה מהעגלה?",
	StillUpdating:     "המוצר עדיין מתעדכן",
	LoadFailed:        "אירעה שגיאה בטעינת העגלה",
	CartTitle:         "סל הקניות",
	CartEmpty:         "העגלה שלך ריקה",
	ContinueShopping:  "המשך בקניות",
	Checkout:          "לתשלום",
	Subtotal:          "סכום ביניים",
	Shipping:          "משלוח",
	Free:              "חינם",
	RemainingForFree:  "הוסף עוד %s למשלוח חינם",
	Total:             "סה\"כ",
	Quantity:          "כמות",
	Yes:               "כן",
	No:                "לא",
	Close:             "סגור",
	SearchPlaceholder: "חיפוש מוצרים...",
	SeeAll:            "הצג את כל התוצאות עבור \"%s\"",
	NoResults:         "לא נמצאו תוצאות עבור \"%s\"",
	SearchSite:        "חפש בכל האתר",
	SearchResultsFor:  "תוצאות עבור \"%s\"",
	Loading:           "טוען...",
	GenericError:      "אירעה שגיאה",
	CartCount:         "עגלה (%d)",
	StoreTitle:        "החנות",
	PageEmpty:         "חפשו מוצרים כדי למלא את העמוד",
	QuickAdd:          "הוספה מהירה",
	HelpSearch:        "חיפוש",
	HelpCart:          "עגלה",
	HelpOpen:          "פתיחה",
	HelpMove:          "מעבר",
	HelpNext:          "הבא",
	HelpQuit:          "יציאה",
	Navigated:         "נפתח %s",
}

var registerOnce sync.Once

func register() {
	registerOnce.Do(func() {
		for key, tr := range hebrew {
			if err := message.SetString(language.Hebrew, key, tr); err != nil {
				panic(fmt.Sprintf("i18n: register %q: %v", key, err))
			}
		}
	})
}

// Printer renders catalog keys for a single locale.
type Printer struct {
	tag language.Tag
	p   *message.Printer
}

// New returns a printer for the given BCP 47 locale. Unknown or empty locales
// fall back to English.
func New(locale string) *Printer {
	register()
	tag := language.English
	if locale != "" {
		if parsed, err := language.Parse(locale); err == nil {
			tag = parsed
		}
	}
	base, _ := tag.Base()
	if hb, _ := language.Hebrew.Base(); base == hb {
		tag = language.Hebrew
	} else {
		tag = language.English
	}
	return &Printer{tag: tag, p: message.NewPrinter(tag)}
}

// Supported reports whether locale parses to a language with a catalog.
func Supported(locale string) bool {
	tag, err := language.Parse(locale)
	if err != nil {
		return false
	}
	base, _ := tag.Base()
	en, _ := language.English.Base()
	he, _ := language.Hebrew.Base()
	return base == en || base == he
}

func (p *Printer) Tag() language.Tag {
	if p == nil {
		return language.English
	}
	return p.tag
}

// Text translates a key that takes no arguments. Use it for keys that are
// only known at run time.
func (p *Printer) Text(key string) string {
	if p == nil || p.p == nil {
		return key
	}
	return p.p.Sprintf(key)
}

// T renders key with optional arguments.
func (p *Printer) T(key string, args ...interface{}) string {
	if p == nil || p.p == nil {
		return fmt.Sprintf(key, args...)
	}
	return p.p.Sprintf(key, args...)
}
