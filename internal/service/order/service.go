package order

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

type orderSource interface {
	UserCarts(ctx context.Context, userID int) ([]domain.Order, error)
	GetCart(ctx context.Context, id string) (*domain.Order, error)
}

type productSource interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

// Service reads order history. The catalog has no order totals, so they are
// priced against the current catalog.
type Service struct {
	orders   orderSource
	products productSource
	userID   int
}

func New(orders orderSource, products productSource, userID int) *Service {
	return &Service{orders: orders, products: products, userID: userID}
}

// Summary is one entry of the order history list.
type Summary struct {
	ID        int             `json:"id"`
	Date      time.Time       `json:"date"`
	ItemCount int             `json:"itemCount"`
	Total     decimal.Decimal `json:"total"`
}

// Line is one product of an order.
type Line struct {
	ProductID int             `json:"productId"`
	Title     string          `json:"title,omitempty"`
	Image     string          `json:"image,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// Detail is a single order with priced lines.
type Detail struct {
	ID     int             `json:"id"`
	UserID int             `json:"userId"`
	Date   time.Time       `json:"date"`
	Lines  []Line          `json:"lines"`
	Total  decimal.Decimal `json:"total"`
}

// History lists the configured user's orders, newest first.
func (s *Service) History(ctx context.Context) ([]Summary, error) {
	orders, err := s.orders.UserCarts(ctx, s.userID)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}
	if len(orders) == 0 {
		return []Summary{}, nil
	}
	catalog, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Summary, 0, len(orders))
	for _, o := range orders {
		d := price(o, catalog)
		count := 0
		for _, l := range o.Products {
			count += l.Quantity
		}
		out = append(out, Summary{ID: o.ID, Date: o.Date, ItemCount: count, Total: d.Total})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

// Details returns one order. Orders of other users are reported as not
// found.
func (s *Service) Details(ctx context.Context, id string) (*Detail, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	o, err := s.orders.GetCart(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.UserID != s.userID {
		return nil, domain.ErrNotFound
	}
	catalog, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}
	d := price(*o, catalog)
	return &d, nil
}

func (s *Service) catalog(ctx context.Context) (map[int]domain.Product, error) {
	products, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	out := make(map[int]domain.Product, len(products))
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}

// price values each line at the catalog price; products missing from the
// catalog count as zero.
func price(o domain.Order, catalog map[int]domain.Product) Detail {
	d := Detail{ID: o.ID, UserID: o.UserID, Date: o.Date, Lines: make([]Line, 0, len(o.Products)), Total: decimal.Zero}
	for _, l := range o.Products {
		p := catalog[l.ProductID]
		unit := decimal.NewFromFloat(p.Price)
		sub := unit.Mul(decimal.NewFromInt(int64(l.Quantity)))
		d.Lines = append(d.Lines, Line{
			ProductID: l.ProductID,
			Title:     p.Title,
			Image:     p.Image,
			Quantity:  l.Quantity,
			UnitPrice: unit,
			Subtotal:  sub.Round(2),
		})
		d.Total = d.Total.Add(sub)
	}
	d.Total = d.Total.Round(2)
	return d
}
