package i18n

import "testing"

func TestEnglishFallsBackToKey(t *testing.T) {
	p := New("en")
	if got := p.T(ChooseSize); got != ChooseSize {
		t.Fatalf("expected %q, got %q", ChooseSize, got)
	}
	if got := p.T(NoResults, "dress"); got != `No results for "dress"` {
		t.Fatalf("unexpected formatted message %q", got)
	}
}

func TestHebrewCatalog(t *testing.T) {
	p := New("he-IL")
	if got := p.T(Free); got != "חינם" {
		t.Fatalf("expected hebrew free label, got %q", got)
	}
	if got := p.T(NoResults, "שמלה"); got != `לא נמצאו תוצאות עבור "שמלה"` {
		t.Fatalf("unexpected hebrew empty message %q", got)
	}
}

func TestUnknownLocaleUsesEnglish(t *testing.T) {
	p := New("not a locale")
	if got := p.T(Add); got != Add {
		t.Fatalf("expected english label, got %q", got)
	}
	if Supported("!!") {
		t.Fatalf("expected invalid locale to be unsupported")
	}
	if !Supported("he") || !Supported("en-US") {
		t.Fatalf("expected he and en-US to be supported")
	}
}

func TestNilPrinterFormats(t *testing.T) {
	var p *Printer
	if got := p.T(CartCount, 3); got != "Cart (3)" {
		t.Fatalf("unexpected nil printer output %q", got)
	}
}

func TestTextTranslatesRuntimeKeys(t *testing.T) {
	keys := []string{Free, HelpQuit}
	he := New("he")
	if got := he.Text(keys[0]); got != "חינם" {
		t.Fatalf("expected Hebrew free, got %q", got)
	}
	if got := New("en").Text(keys[1]); got != HelpQuit {
		t.Fatalf("expected English fallback, got %q", got)
	}
	var nilPrinter *Printer
	if got := nilPrinter.Text("100% cotton"); got != "100% cotton" {
		t.Fatalf("expected key untouched, got %q", got)
	}
}
