// Package item defines the item model: a named, priced record owned by
// exactly one user.
package item

// Item is a single record in a user's personal collection.
// OwnerID is set at creation and never reassigned by an update.
type Item struct {
	ID      string  `json:"id"`
	OwnerID string  `json:"userId"`
	Name    string  `json:"name"`
	Price   float64 `json:"price"`
}
