package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"storefront/internal/cart"
	"storefront/internal/domain"
	"storefront/internal/session"
)

type stubProducts struct {
	product *domain.Product
	err     error
	calls   int
	lastID  string
}

func (s *stubProducts) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	s.calls++
	s.lastID = id
	return s.product, s.err
}

func TestServiceAddFullPayload(t *testing.T) {
	products := &stubProducts{}
	svc := New(products)
	sess := session.New()

	view, err := svc.Add(context.Background(), sess, AddInput{ID: "1", Title: "Backpack", Price: 109.95, Image: "b.jpg"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if products.calls != 0 {
		t.Fatalf("catalog should not be consulted for a full payload")
	}
	if len(view.Lines) != 1 || view.Lines[0].Title != "Backpack" || view.Lines[0].Quantity != 1 {
		t.Fatalf("unexpected view %+v", view)
	}
	if view.TotalItems != 1 || view.ItemCount != 1 || view.Empty {
		t.Fatalf("unexpected totals %+v", view)
	}
	if !sess.Dirty() {
		t.Fatalf("expected session to be written")
	}
}

func TestServiceAddIDOnlyFillsFromCatalog(t *testing.T) {
	products := &stubProducts{product: &domain.Product{ID: 3, Title: "Jacket", Price: 55.99, Image: "j.jpg"}}
	svc := New(products)
	sess := session.New()

	view, err := svc.Add(context.Background(), sess, AddInput{ID: " 3 "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if products.lastID != "3" {
		t.Fatalf("unexpected lookup id %q", products.lastID)
	}
	line := view.Lines[0]
	if line.ID != "3" || line.Title != "Jacket" || line.Price != 55.99 || line.Image != "j.jpg" {
		t.Fatalf("unexpected line %+v", line)
	}
}

func TestServiceAddIDOnlyExistingLineSkipsCatalog(t *testing.T) {
	products := &stubProducts{}
	svc := New(products)
	sess := session.New()
	if _, err := svc.Add(context.Background(), sess, AddInput{ID: "1", Title: "Backpack", Price: 10}); err != nil {
		t.Fatalf("seed add: %v", err)
	}

	view, err := svc.Add(context.Background(), sess, AddInput{ID: "1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if products.calls != 0 {
		t.Fatalf("catalog consulted for an existing line")
	}
	if view.Lines[0].Quantity != 2 || view.Lines[0].Title != "Backpack" {
		t.Fatalf("unexpected line %+v", view.Lines[0])
	}
}

func TestServiceAddUnknownProduct(t *testing.T) {
	svc := New(&stubProducts{err: domain.ErrNotFound})
	sess := session.New()

	_, err := svc.Add(context.Background(), sess, AddInput{ID: "999"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if sess.Dirty() {
		t.Fatalf("failed add must not touch the session")
	}
}

func TestServiceAddMissingID(t *testing.T) {
	svc := New(nil)
	_, err := svc.Add(context.Background(), session.New(), AddInput{ID: "  ", Title: "x"})
	if !errors.Is(err, domain.ErrInvalidInput) || !errors.Is(err, cart.ErrMissingID) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestServiceRemoveAndCheckout(t *testing.T) {
	svc := New(nil)
	sess := session.New()
	for _, in := range []AddInput{
		{ID: "1", Title: "A", Price: 10},
		{ID: "1", Title: "A", Price: 10},
		{ID: "2", Title: "B", Price: 2.5},
	} {
		if _, err := svc.Add(context.Background(), sess, in); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	view := svc.Remove(sess, "1")
	if view.Lines[0].Quantity != 1 || view.TotalItems != 2 {
		t.Fatalf("unexpected view after remove %+v", view)
	}

	view = svc.Checkout(sess)
	if !view.Empty || len(view.Lines) != 0 || view.TotalItems != 0 || !view.TotalAmount.IsZero() {
		t.Fatalf("unexpected view after checkout %+v", view)
	}
	if _, ok := sess.GetItem(cart.StorageKey); ok {
		t.Fatalf("checkout should erase the cart slot")
	}
}

func TestServiceGetRendersTotals(t *testing.T) {
	svc := New(nil)
	sess := session.New()
	for _, in := range []AddInput{
		{ID: "10", Title: "Ten", Price: 0.1},
		{ID: "10", Title: "Ten", Price: 0.1},
		{ID: "10", Title: "Ten", Price: 0.1},
		{ID: "2", Title: "Two", Price: 109.95},
		{ID: "sku-a", Title: "Letter", Price: 1},
	} {
		if _, err := svc.Add(context.Background(), sess, in); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	view := svc.Get(sess)
	if view.ItemCount != 5 || view.TotalItems != 5 {
		t.Fatalf("unexpected counts %+v", view)
	}
	if want := decimal.RequireFromString("111.25"); !view.TotalAmount.Equal(want) {
		t.Fatalf("unexpected total %s", view.TotalAmount)
	}
	if want := decimal.RequireFromString("0.3"); !view.Lines[1].Subtotal.Equal(want) {
		t.Fatalf("unexpected subtotal %s", view.Lines[1].Subtotal)
	}
	var ids []cart.ProductID
	for _, l := range view.Lines {
		ids = append(ids, l.ID)
	}
	if ids[0] != "2" || ids[1] != "10" || ids[2] != "sku-a" {
		t.Fatalf("unexpected order %v", ids)
	}
}

func TestServiceGetEmpty(t *testing.T) {
	view := New(nil).Get(session.New())
	if !view.Empty || view.Lines == nil {
		t.Fatalf("expected empty view with non-nil lines, got %+v", view)
	}
}

func TestServiceRemoveLastUnitStaysRemoved(t *testing.T) {
	svc := New(nil)
	sess := session.New()
	if _, err := svc.Add(context.Background(), sess, AddInput{ID: "1", Title: "A", Price: 10}); err != nil {
		t.Fatalf("add: %v", err)
	}
	svc.Remove(sess, "1")

	// a later request sees the session as stored, not the same object
	next := session.Restore(sess.ID(), sess.Values())
	view := svc.Get(next)
	if !view.Empty || view.TotalItems != 0 {
		t.Fatalf("removed item came back: %+v", view)
	}
	if _, ok := next.GetItem(cart.StorageKey); !ok {
		t.Fatalf("the cart slot keeps its last saved copy")
	}

	view = svc.Remove(next, "1")
	if view.TotalItems != -1 || !view.Empty {
		t.Fatalf("unexpected view after second remove %+v", view)
	}
}

func TestServiceRemoveAbsentOnEmptyCartCarriesOver(t *testing.T) {
	svc := New(nil)
	sess := session.New()

	svc.Remove(sess, "9")
	if _, ok := sess.GetItem(cart.StorageKey); ok {
		t.Fatalf("nothing should be saved to the cart slot")
	}

	view := svc.Get(session.Restore(sess.ID(), sess.Values()))
	if view.TotalItems != -1 {
		t.Fatalf("expected the counter to stay at -1, got %d", view.TotalItems)
	}
}

func TestServiceRehydratesFromCartSlot(t *testing.T) {
	raw, err := cart.Encode(cart.AddItem(cart.Empty(), cart.Item{ID: "4", Title: "D", Price: 4}))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	sess := session.Restore("5d3c6c44-8f1e-4a57-9c0e-2b7f0e1f6a11", map[string][]byte{cart.StorageKey: raw})

	view := New(nil).Get(sess)
	if view.TotalItems != 1 || len(view.Lines) != 1 || view.Lines[0].ID != "4" {
		t.Fatalf("unexpected view %+v", view)
	}
}

func TestServiceCheckoutClearsLiveState(t *testing.T) {
	svc := New(nil)
	sess := session.New()
	if _, err := svc.Add(context.Background(), sess, AddInput{ID: "1", Title: "A", Price: 10}); err != nil {
		t.Fatalf("add: %v", err)
	}
	svc.Checkout(sess)

	if sess.Len() != 0 {
		t.Fatalf("expected no slots left, got %v", sess.Values())
	}
}
