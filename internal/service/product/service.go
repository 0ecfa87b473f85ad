package product

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"storefront/internal/domain"
)

// Sort orders accepted by List.
const (
	SortDefault   = "default"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortNameAsc   = "name_asc"
	SortNameDesc  = "name_desc"
)

type catalog interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListCategories(ctx context.Context) ([]string, error)
}

type Service struct {
	catalog catalog
}

func New(catalog catalog) *Service {
	return &Service{catalog: catalog}
}

// Filter narrows and orders the catalog.
type Filter struct {
	Query    string
	Category string
	Sort     string
}

// List returns the products matching f.
func (s *Service) List(ctx context.Context, f Filter) ([]domain.Product, error) {
	order, err := normalizeSort(f.Sort)
	if err != nil {
		return nil, err
	}
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if matchesQuery(p, f.Query) && (f.Category == "" || p.Category == f.Category) {
			out = append(out, p)
		}
	}
	sortProducts(out, order)
	return out, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.catalog.GetProduct(ctx, id)
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.catalog.ListCategories(ctx)
}

func normalizeSort(order string) (string, error) {
	order = strings.ToLower(strings.TrimSpace(order))
	switch order {
	case "":
		return SortDefault, nil
	case SortDefault, SortPriceAsc, SortPriceDesc, SortNameAsc, SortNameDesc:
		return order, nil
	}
	return "", fmt.Errorf("%w: unknown sort %q", domain.ErrInvalidInput, order)
}

// matchesQuery matches the title case-insensitively or the price as written,
// so "109" finds a product priced 109.95.
func matchesQuery(p domain.Product, query string) bool {
	if query == "" {
		return true
	}
	if strings.Contains(strings.ToLower(p.Title), strings.ToLower(query)) {
		return true
	}
	return strings.Contains(strconv.FormatFloat(p.Price, 'f', -1, 64), query)
}

func sortProducts(products []domain.Product, order string) {
	switch order {
	case SortPriceAsc:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price < products[j].Price })
	case SortPriceDesc:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price > products[j].Price })
	case SortNameAsc, SortNameDesc:
		col := collate.New(language.English, collate.IgnoreCase)
		sort.SliceStable(products, func(i, j int) bool {
			cmp := col.CompareString(products[i].Title, products[j].Title)
			if order == SortNameDesc {
				return cmp > 0
			}
			return cmp < 0
		})
	}
}
