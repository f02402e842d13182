package state

import "github.com/atomicstack/storefront-tui/internal/shop"

// PageStore holds what the main page currently lists.
type PageStore interface {
	Location() string
	SetLocation(string)
	Query() string
	Products() []shop.SearchResult
	SetProducts(query string, products []shop.SearchResult)
	Err() error
	SetErr(error)
}

type pageStore struct {
	location string
	query    string
	products []shop.SearchResult
	err      error
}

func NewPageStore() PageStore {
	return &pageStore{}
}

func (p *pageStore) Location() string {
	return p.location
}

func (p *pageStore) SetLocation(href string) {
	p.location = href
}

func (p *pageStore) Query() string {
	return p.query
}

func (p *pageStore) Products() []shop.SearchResult {
	return cloneProducts(p.products)
}

func (p *pageStore) SetProducts(query string, products []shop.SearchResult) {
	p.query = query
	p.products = cloneProducts(products)
	p.err = nil
}

func (p *pageStore) Err() error {
	return p.err
}

func (p *pageStore) SetErr(err error) {
	p.err = err
}

func cloneProducts(products []shop.SearchResult) []shop.SearchResult {
	if len(products) == 0 {
		return nil
	}
	dup := make([]shop.SearchResult, len(products))
	copy(dup, products)
	return dup
}
