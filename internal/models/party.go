package models

// Category groups parties and items for the entry forms. It only controls
// which selection lists a name appears in; vouchers may reference a party
// regardless of its current category.
type Category string

const (
	CategoryPurchase Category = "Purchase"
	CategorySale     Category = "Sale"
	CategoryPayment  Category = "Payment"
	CategoryBank     Category = "Bank"
)

// PartyCategories are the categories a party may carry.
var PartyCategories = []Category{CategoryPurchase, CategorySale, CategoryPayment, CategoryBank}

// ItemCategories are the categories an item may carry.
var ItemCategories = []Category{CategoryPurchase, CategorySale}

// Party is a master-data row. Name is the case-sensitive join key vouchers
// reference; there is no enforced foreign key, a stale name just matches
// nothing.
type Party struct {
	Name     string
	Category Category
}

// Row encodes the party as its 2-cell wire row.
func (p Party) Row() []string {
	return []string{p.Name, string(p.Category)}
}

// Item is a master-data row used only to populate entry-form lists.
type Item struct {
	Name     string
	Category Category
}

// Row encodes the item as its 2-cell wire row.
func (i Item) Row() []string {
	return []string{i.Name, string(i.Category)}
}
