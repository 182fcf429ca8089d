package domain

// AddOnPortion requests quantity units of an add-on for one product.
type AddOnPortion struct {
	AddOnID  int64
	Quantity int
}

// CatalogFilter narrows catalog listings. Nil fields match everything.
type CatalogFilter struct {
	Active   *bool
	Category *Category
}

// OrderLine asks for quantity units of a product with optional add-ons.
type OrderLine struct {
	ProductID int64
	Quantity  int
	AddOns    []AddOnPortion
}
