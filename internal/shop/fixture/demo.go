package fixture

import "github.com/atomicstack/storefront-tui/internal/shop"

func price(v float64) *shop.Price {
	p := shop.Price(v)
	return &p
}

// Demo returns a store seeded with a small catalog and a two-line cart.
func Demo() *Store {
	s := New()
	s.AddProduct(Product{
		ID: 1, Slug: "linen-shirt", Name: "Linen shirt", Subtitle: "Relaxed fit",
		Price: 30, Stock: 5,
	})
	s.AddProduct(Product{
		ID: 2, Slug: "summer-dress", Name: "Summer dress", Subtitle: "Midi length",
		Price: 120, Stock: 4,
		Fabrics: []shop.Fabric{
			{ID: 10, Name: "Cotton", Sizes: []shop.Size{
				{ID: 101, Label: "Small", Code: "S"},
				{ID: 102, Label: "Medium", Code: "M"},
				{ID: 103, Label: "Large", Code: "L", Price: price(135)},
			}},
			{ID: 11, Name: "Silk", Sizes: []shop.Size{
				{ID: 111, Label: "Small", Code: "S", Price: price(180)},
				{ID: 112, Label: "Medium", Code: "M", Price: price(180)},
			}},
			{ID: 12, Name: "Velvet"},
		},
	})
	s.AddProduct(Product{
		ID: 3, Slug: "wool-scarf", Name: "Wool scarf",
		Price: 45, Stock: 10,
		Fabrics: []shop.Fabric{
			{ID: 20, Name: "Merino", Sizes: []shop.Size{
				{ID: 201, Label: "One size", Code: "OS"},
			}},
		},
	})
	s.AddProduct(Product{
		ID: 4, Slug: "canvas-tote", Name: "Canvas tote", Subtitle: "Natural",
		Price: 25, Stock: 0, Fabrics: []shop.Fabric{},
	})
	s.AddProduct(Product{
		ID: 5, Slug: "denim-jacket", Name: "Denim jacket", Subtitle: "Washed blue",
		Price: 210, Stock: 3,
	})
	s.AddProduct(Product{
		ID: 6, Slug: "silk-blouse", Name: "Silk blouse",
		Price: 95, Stock: 6,
	})
	s.PutLine(1, 0, 1)
	s.PutLine(3, 201, 1)
	return s
}
