package cart

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStorage struct {
	values  map[string][]byte
	writes  int
	removes int
}

func newMemStorage() *memStorage {
	return &memStorage{values: map[string][]byte{}}
}

func (m *memStorage) GetItem(key string) ([]byte, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *memStorage) SetItem(key string, value []byte) {
	m.writes++
	m.values[key] = value
}

func (m *memStorage) RemoveItem(key string) {
	m.removes++
	delete(m.values, key)
}

var testItem = Item{ID: "1", Title: "Test Item", Price: 10, Image: "test.jpg"}

func TestStoreAddNewItem(t *testing.T) {
	store := New(newMemStorage())

	require.NoError(t, store.Add(testItem))

	got := store.Snapshot()
	assert.Equal(t, LineItem{ID: "1", Title: "Test Item", Price: 10, Image: "test.jpg", Quantity: 1}, got.Items["1"])
	assert.Equal(t, 1, got.TotalItems)
}

func TestStoreAddSameItemTwice(t *testing.T) {
	store := New(newMemStorage())

	require.NoError(t, store.Add(testItem))
	require.NoError(t, store.Add(testItem))

	got := store.Snapshot()
	assert.Equal(t, 2, got.Items["1"].Quantity)
	assert.Equal(t, 2, got.TotalItems)
}

func TestStoreAddKeepsOriginalFields(t *testing.T) {
	store := New(newMemStorage())

	require.NoError(t, store.Add(testItem))
	require.NoError(t, store.Add(Item{ID: "1", Title: "Renamed", Price: 99, Image: "other.jpg"}))

	line := store.Snapshot().Items["1"]
	assert.Equal(t, "Test Item", line.Title)
	assert.Equal(t, 10.0, line.Price)
	assert.Equal(t, "test.jpg", line.Image)
	assert.Equal(t, 2, line.Quantity)
}

func TestStoreAddIDOnly(t *testing.T) {
	store := New(newMemStorage())

	require.NoError(t, store.Add(Item{ID: "7"}))

	assert.Equal(t, LineItem{ID: "7", Quantity: 1}, store.Snapshot().Items["7"])
}

func TestStoreAddRejectsInvalidInput(t *testing.T) {
	storage := newMemStorage()
	store := New(storage)

	assert.ErrorIs(t, store.Add(Item{Title: "no id"}), ErrMissingID)
	assert.ErrorIs(t, store.Add(Item{ID: "1", Price: math.NaN()}), ErrInvalidPrice)
	assert.ErrorIs(t, store.Add(Item{ID: "1", Price: math.Inf(1)}), ErrInvalidPrice)

	assert.Equal(t, Empty(), store.Snapshot())
	assert.Zero(t, storage.writes)
}

func TestStoreRemoveLastUnitDeletesLine(t *testing.T) {
	store := New(newMemStorage())

	require.NoError(t, store.Add(testItem))
	store.Remove("1")

	got := store.Snapshot()
	_, ok := got.Items["1"]
	assert.False(t, ok)
	assert.Equal(t, 0, got.TotalItems)
}

func TestStoreRemoveDecrementsQuantity(t *testing.T) {
	store := New(newMemStorage())

	require.NoError(t, store.Add(testItem))
	require.NoError(t, store.Add(testItem))
	store.Remove("1")

	got := store.Snapshot()
	assert.Equal(t, 1, got.Items["1"].Quantity)
	assert.Equal(t, 1, got.TotalItems)
}

// Removing an id that is not in the cart still decrements TotalItems. This
// pins the current behavior so a change to it is a deliberate one.
func TestStoreRemoveAbsentIDDecrementsTotal(t *testing.T) {
	storage := newMemStorage()
	store := New(storage)

	require.NoError(t, store.Add(testItem))
	store.Remove("404")

	got := store.Snapshot()
	assert.Equal(t, 1, got.Items["1"].Quantity)
	assert.Equal(t, 0, got.TotalItems)
	assert.NotEqual(t, got.Sum(), got.TotalItems)

	// items is still non-empty, so the inconsistent state is written
	stored, err := Decode(storage.values[StorageKey])
	require.NoError(t, err)
	assert.Equal(t, got, stored)
}

func TestStoreRemoveAbsentIDOnEmptyCart(t *testing.T) {
	storage := newMemStorage()
	store := New(storage)

	store.Remove("1")

	got := store.Snapshot()
	assert.Empty(t, got.Items)
	assert.Equal(t, -1, got.TotalItems)
	assert.Zero(t, storage.writes, "nothing to save when items are empty and total is not positive")
	assert.Zero(t, storage.removes)
}

func TestStoreRemoveToEmptyKeepsPreviousSnapshot(t *testing.T) {
	storage := newMemStorage()
	store := New(storage)

	require.NoError(t, store.Add(testItem))
	before := append([]byte(nil), storage.values[StorageKey]...)
	store.Remove("1")

	assert.Equal(t, 1, storage.writes)
	assert.Zero(t, storage.removes)
	assert.Equal(t, before, storage.values[StorageKey])
}

func TestStoreInvariantHoldsForPresentRemoves(t *testing.T) {
	store := New(newMemStorage())
	ops := []struct {
		add bool
		id  ProductID
	}{
		{true, "1"}, {true, "2"}, {true, "1"}, {false, "1"}, {true, "3"},
		{false, "2"}, {true, "3"}, {false, "3"}, {false, "1"}, {true, "2"},
	}

	for i, op := range ops {
		if op.add {
			require.NoError(t, store.Add(Item{ID: op.id, Title: "t", Price: 1}))
		} else {
			require.Positive(t, store.Snapshot().Quantity(op.id), "op %d removes a present id", i)
			store.Remove(op.id)
		}
		got := store.Snapshot()
		assert.Equal(t, got.Sum(), got.TotalItems, "after op %d", i)
		for id, line := range got.Items {
			assert.GreaterOrEqual(t, line.Quantity, 1, "line %s after op %d", id, i)
		}
	}
}

func TestStoreCheckout(t *testing.T) {
	storage := newMemStorage()
	store := New(storage)

	require.NoError(t, store.Add(testItem))
	store.Checkout()

	assert.Equal(t, Empty(), store.Snapshot())
	_, ok := storage.GetItem(StorageKey)
	assert.False(t, ok, "checkout erases the slot instead of storing an empty cart")

	reloaded := New(storage)
	assert.Equal(t, Empty(), reloaded.Snapshot())
}

func TestStoreCheckoutOnEmptyCartErases(t *testing.T) {
	storage := newMemStorage()
	store := New(storage)

	store.Checkout()

	assert.Equal(t, 1, storage.removes)
	assert.Zero(t, storage.writes)
}

func TestStoreRehydrates(t *testing.T) {
	storage := newMemStorage()
	first := New(storage)
	require.NoError(t, first.Add(testItem))
	require.NoError(t, first.Add(Item{ID: "2", Title: "Other", Price: 2.5, Image: "o.jpg"}))
	require.NoError(t, first.Add(testItem))

	second := New(storage)

	assert.Equal(t, first.Snapshot(), second.Snapshot())
}

func TestStoreSnapshotIsACopy(t *testing.T) {
	store := New(newMemStorage())
	require.NoError(t, store.Add(testItem))

	snap := store.Snapshot()
	snap.Items["1"] = LineItem{ID: "1", Quantity: 50}
	delete(snap.Items, "1")
	snap.TotalItems = 99

	got := store.Snapshot()
	assert.Equal(t, 1, got.Items["1"].Quantity)
	assert.Equal(t, 1, got.TotalItems)
}

func TestStoreResumeSkipsStorage(t *testing.T) {
	storage := newMemStorage()
	require.NoError(t, New(storage).Add(testItem))

	live := RemoveItem(Load(storage), "1")
	store := Resume(storage, live)

	assert.Equal(t, live, store.Snapshot())
	assert.Empty(t, store.Snapshot().Items, "the stored copy is not read back")

	require.NoError(t, store.Add(Item{ID: "2", Title: "Other", Price: 1}))
	stored, err := Decode(storage.values[StorageKey])
	require.NoError(t, err)
	assert.Equal(t, store.Snapshot(), stored)
}
