package cart

import (
	"encoding/json"
	"errors"
)

// StorageKey is the session storage slot holding the serialized cart.
const StorageKey = "cart"

// Storage is a per-session key-value store, shaped after the browser's
// sessionStorage.
type Storage interface {
	GetItem(key string) ([]byte, bool)
	SetItem(key string, value []byte)
	RemoveItem(key string)
}

var errNoItems = errors.New("cart: stored value has no items")

// Encode serializes s in the storage format.
func Encode(s State) ([]byte, error) {
	if s.Items == nil {
		s.Items = map[ProductID]LineItem{}
	}
	return json.Marshal(s)
}

// Decode parses a stored cart.
func Decode(data []byte) (State, error) {
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return State{}, err
	}
	if s.Items == nil {
		return State{}, errNoItems
	}
	return s, nil
}

// Load reads the cart slot from storage. A missing or unreadable slot yields
// the empty cart.
func Load(storage Storage) State {
	data, ok := storage.GetItem(StorageKey)
	if !ok {
		return Empty()
	}
	s, err := Decode(data)
	if err != nil {
		return Empty()
	}
	return s
}

// shouldSave reports whether a state produced by add or remove is written to
// storage. A state that fails the check is neither written nor erased.
func shouldSave(s State) bool {
	return s.TotalItems > 0 || len(s.Items) > 0
}

func save(storage Storage, s State) {
	if !shouldSave(s) {
		return
	}
	data, err := Encode(s)
	if err != nil {
		// prices are checked for finiteness in Add
		return
	}
	storage.SetItem(StorageKey, data)
}
