package cart

import "maps"

// LineItem is one product in the cart. Title, Price and Image are copied from
// the catalog when the product is first added and are never refreshed.
type LineItem struct {
	ID       ProductID `json:"id"`
	Title    string    `json:"title"`
	Price    float64   `json:"price"`
	Image    string    `json:"image"`
	Quantity int       `json:"quantity"`
}

// Item is the payload accepted by Add.
type Item struct {
	ID    ProductID `json:"id"`
	Title string    `json:"title"`
	Price float64   `json:"price"`
	Image string    `json:"image"`
}

// State is the cart aggregate. TotalItems is kept equal to the sum of all
// quantities by AddItem and RemoveItem, except when RemoveItem is called with
// an id that is not in the cart.
type State struct {
	Items      map[ProductID]LineItem `json:"items"`
	TotalItems int                    `json:"totalItems"`
}

// Empty returns a cart with no items.
func Empty() State {
	return State{Items: map[ProductID]LineItem{}}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := State{TotalItems: s.TotalItems, Items: make(map[ProductID]LineItem, len(s.Items))}
	maps.Copy(out.Items, s.Items)
	return out
}

// Quantity returns the quantity of id, or 0 when absent.
func (s State) Quantity(id ProductID) int {
	return s.Items[id].Quantity
}

// Sum returns the sum of all line item quantities.
func (s State) Sum() int {
	total := 0
	for _, item := range s.Items {
		total += item.Quantity
	}
	return total
}

// AddItem returns s with one more unit of in. An existing line keeps its
// descriptive fields even when in carries different ones.
func AddItem(s State, in Item) State {
	next := s.Clone()
	if line, ok := next.Items[in.ID]; ok {
		line.Quantity++
		next.Items[in.ID] = line
	} else {
		next.Items[in.ID] = LineItem{
			ID:       in.ID,
			Title:    in.Title,
			Price:    in.Price,
			Image:    in.Image,
			Quantity: 1,
		}
	}
	next.TotalItems++
	return next
}

// RemoveItem returns s with one unit of id removed. The line is deleted when
// its quantity reaches zero.
//
// TotalItems is decremented even when id is not in the cart, so removing an
// absent id leaves TotalItems lower than the sum of quantities. Callers that
// care should check Quantity first.
func RemoveItem(s State, id ProductID) State {
	next := s.Clone()
	if line, ok := next.Items[id]; ok {
		line.Quantity--
		if line.Quantity <= 0 {
			delete(next.Items, id)
		} else {
			next.Items[id] = line
		}
	}
	next.TotalItems--
	return next
}
