package cart

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"storefront/internal/cart"
	"storefront/internal/domain"
)

// LiveSlot holds the cart as the shopper last saw it. The "cart" slot follows
// the save rules of cart.Store and may lag behind, for example after the last
// unit is removed; LiveSlot is written after every transition so that the next
// request continues from the same state.
const LiveSlot = "cart.live"

// Service runs cart transitions against a session's storage and renders the
// result for the storefront.
type Service struct {
	products productLookup
}

type productLookup interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}

func New(products productLookup) *Service {
	return &Service{products: products}
}

// AddInput is the body of an add request. Only ID is required; when the
// product is not in the cart yet and the descriptive fields are all empty,
// they are filled from the catalog.
type AddInput struct {
	ID    cart.ProductID `json:"id"`
	Title string         `json:"title"`
	Price float64        `json:"price"`
	Image string         `json:"image"`
}

func (in AddInput) idOnly() bool {
	return in.Title == "" && in.Price == 0 && in.Image == ""
}

// Line is a cart line with its subtotal.
type Line struct {
	cart.LineItem
	Subtotal decimal.Decimal `json:"subtotal"`
}

// View is what the storefront renders for a cart.
type View struct {
	Lines []Line `json:"lines"`
	// TotalItems is the stored counter.
	TotalItems int `json:"totalItems"`
	// ItemCount is the sum of line quantities, which is what the cart page
	// shows.
	ItemCount   int             `json:"itemCount"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Empty       bool            `json:"empty"`
}

// Get renders the cart held in storage.
func (s *Service) Get(storage cart.Storage) View {
	return render(open(storage).Snapshot())
}

// Add puts one unit of a product into the cart.
func (s *Service) Add(ctx context.Context, storage cart.Storage, in AddInput) (View, error) {
	in.ID = cart.ProductID(strings.TrimSpace(string(in.ID)))
	if in.ID == "" {
		return View{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, cart.ErrMissingID)
	}
	store := open(storage)

	item := cart.Item{ID: in.ID, Title: in.Title, Price: in.Price, Image: in.Image}
	if in.idOnly() && store.Snapshot().Quantity(in.ID) == 0 && s.products != nil {
		p, err := s.products.GetProduct(ctx, string(in.ID))
		if err != nil {
			return View{}, fmt.Errorf("lookup product %s: %w", in.ID, err)
		}
		item.Title, item.Price, item.Image = p.Title, p.Price, p.Image
	}

	if err := store.Add(item); err != nil {
		if errors.Is(err, cart.ErrMissingID) || errors.Is(err, cart.ErrInvalidPrice) {
			return View{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
		return View{}, err
	}
	return render(keepLive(storage, store)), nil
}

// Remove takes one unit of a product out of the cart.
func (s *Service) Remove(storage cart.Storage, id cart.ProductID) View {
	store := open(storage)
	store.Remove(id)
	return render(keepLive(storage, store))
}

// Checkout empties the cart. Nothing is submitted to the catalog.
func (s *Service) Checkout(storage cart.Storage) View {
	store := open(storage)
	store.Checkout()
	storage.RemoveItem(LiveSlot)
	return render(store.Snapshot())
}

// open continues from the live state, or rehydrates from the "cart" slot when
// the session has none.
func open(storage cart.Storage) *cart.Store {
	if raw, ok := storage.GetItem(LiveSlot); ok {
		if st, err := cart.Decode(raw); err == nil {
			return cart.Resume(storage, st)
		}
	}
	return cart.New(storage)
}

func keepLive(storage cart.Storage, store *cart.Store) cart.State {
	st := store.Snapshot()
	if raw, err := cart.Encode(st); err == nil {
		storage.SetItem(LiveSlot, raw)
	}
	return st
}

func render(st cart.State) View {
	v := View{Lines: make([]Line, 0, len(st.Items)), TotalItems: st.TotalItems, TotalAmount: decimal.Zero}
	for _, item := range st.Items {
		subtotal := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		v.Lines = append(v.Lines, Line{LineItem: item, Subtotal: subtotal.Round(2)})
		v.ItemCount += item.Quantity
		v.TotalAmount = v.TotalAmount.Add(subtotal)
	}
	v.TotalAmount = v.TotalAmount.Round(2)
	v.Empty = v.ItemCount == 0
	sort.Slice(v.Lines, func(i, j int) bool {
		return lessID(v.Lines[i].ID, v.Lines[j].ID)
	})
	return v
}

// lessID orders numeric ids numerically and puts them before other ids.
func lessID(a, b cart.ProductID) bool {
	na, errA := strconv.ParseInt(string(a), 10, 64)
	nb, errB := strconv.ParseInt(string(b), 10, 64)
	switch {
	case errA == nil && errB == nil:
		return na < nb
	case errA == nil:
		return true
	case errB == nil:
		return false
	}
	return a < b
}
