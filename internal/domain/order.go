package domain

import "time"

// Order is a past cart of a user. The catalog calls these carts; they are
// read-only history from the storefront's point of view.
type Order struct {
	ID       int         `json:"id"`
	UserID   int         `json:"userId"`
	Date     time.Time   `json:"date"`
	Products []OrderLine `json:"products"`
}

type OrderLine struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}
