package cart

import (
	"errors"
	"math"
)

var (
	// ErrMissingID is returned by Add when the item has no product id.
	ErrMissingID = errors.New("cart: item id required")
	// ErrInvalidPrice is returned by Add when the price is NaN or infinite.
	ErrInvalidPrice = errors.New("cart: item price must be finite")
)

// Store owns a cart for one session. It is not safe for concurrent use; the
// owner must serialize calls.
type Store struct {
	storage Storage
	state   State
}

// New returns a Store rehydrated from storage.
func New(storage Storage) *Store {
	return &Store{storage: storage, state: Load(storage)}
}

// Resume returns a Store that continues from state. Storage is written by
// later transitions but not read.
func Resume(storage Storage, state State) *Store {
	return &Store{storage: storage, state: state.Clone()}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	return s.state.Clone()
}

// Add puts one unit of in into the cart and persists the result.
func (s *Store) Add(in Item) error {
	if in.ID == "" {
		return ErrMissingID
	}
	if math.IsNaN(in.Price) || math.IsInf(in.Price, 0) {
		return ErrInvalidPrice
	}
	s.state = AddItem(s.state, in)
	save(s.storage, s.state)
	return nil
}

// Remove takes one unit of id out of the cart and persists the result. See
// RemoveItem for the behavior on ids that are not in the cart.
func (s *Store) Remove(id ProductID) {
	s.state = RemoveItem(s.state, id)
	save(s.storage, s.state)
}

// Checkout empties the cart and erases the stored copy.
func (s *Store) Checkout() {
	s.state = Empty()
	s.storage.RemoveItem(StorageKey)
}
