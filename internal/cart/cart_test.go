package cart_test

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/munera-collective/munera-platform/internal/cache"
	"github.com/munera-collective/munera-platform/internal/cart"
	"github.com/munera-collective/munera-platform/internal/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryStorage keeps JSON payloads the way the redis cache does.
type memoryStorage struct {
	data   map[string][]byte
	setErr error
	writes int
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{data: map[string][]byte{}}
}

func (m *memoryStorage) Get(_ context.Context, key string, value any) (bool, error) {
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}

	if err := json.Unmarshal(raw, value); err != nil {
		return false, err
	}

	return true, nil
}

func (m *memoryStorage) Set(_ context.Context, key string, value any, _ time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	m.data[key] = raw
	m.writes++

	return nil
}

func (m *memoryStorage) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

var (
	tshirt = cart.Product{ID: uuid.MustParse("3f1c9a52-1111-4c1a-9f55-0d6d3b8a0001"), Name: "T-Shirt Munera", Price: decimal.RequireFromString("25.00"), Image: "https://cdn.example.com/tshirt.png"}
	hoodie = cart.Product{ID: uuid.MustParse("3f1c9a52-2222-4c1a-9f55-0d6d3b8a0002"), Name: "Hoodie", Price: decimal.RequireFromString("49.90")}
	poster = cart.Product{ID: uuid.MustParse("3f1c9a52-3333-4c1a-9f55-0d6d3b8a0003"), Name: "Poster", Price: decimal.RequireFromString("9.99")}
)

const testKey = "munera_cart:session-1"

func TestKey(t *testing.T) {
	assert.Equal(t, "munera_cart:abc", cart.Key("", "abc"))
	assert.Equal(t, "other:abc", cart.Key("other", "abc"))
}

func TestAdd(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - same product and variant twice gives one line", func(t *testing.T) {
		// Arrange
		storage := newMemoryStorage()
		store := cart.Load(ctx, storage, testKey, 0)

		// Act
		require.NoError(t, store.Add(ctx, tshirt, "M"))
		require.NoError(t, store.Add(ctx, tshirt, "M"))

		// Assert
		items := store.Items()
		require.Len(t, items, 1)
		assert.Equal(t, 2, items[0].Quantity)
		assert.Equal(t, "M", items[0].Variant)
		assert.True(t, store.IsOpen())
	})

	t.Run("Success - different variants are separate lines", func(t *testing.T) {
		// Arrange
		store := cart.Load(ctx, newMemoryStorage(), testKey, 0)

		// Act
		require.NoError(t, store.Add(ctx, tshirt, "M"))
		require.NoError(t, store.Add(ctx, tshirt, "L"))
		require.NoError(t, store.Add(ctx, tshirt, ""))

		// Assert
		assert.Len(t, store.Items(), 3)
		assert.Equal(t, 3, store.Count())
	})

	t.Run("Failure - persistence error is returned", func(t *testing.T) {
		// Arrange
		storage := newMemoryStorage()
		storage.setErr = errors.New("redis down")
		store := cart.Load(ctx, storage, testKey, 0)

		// Act
		err := store.Add(ctx, poster, "")

		// Assert
		assert.Error(t, err)
		assert.ErrorIs(t, err, storage.setErr)
	})
}

func TestRemove(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - removes only the matching variant", func(t *testing.T) {
		// Arrange
		store := cart.Load(ctx, newMemoryStorage(), testKey, 0)
		require.NoError(t, store.Add(ctx, tshirt, "M"))
		require.NoError(t, store.Add(ctx, tshirt, "L"))

		// Act
		require.NoError(t, store.Remove(ctx, tshirt.ID, "M"))

		// Assert
		items := store.Items()
		require.Len(t, items, 1)
		assert.Equal(t, "L", items[0].Variant)
	})

	t.Run("Success - absent line is a no-op", func(t *testing.T) {
		// Arrange
		storage := newMemoryStorage()
		store := cart.Load(ctx, storage, testKey, 0)
		require.NoError(t, store.Add(ctx, hoodie, ""))
		writes := storage.writes

		// Act
		err := store.Remove(ctx, poster.ID, "")

		// Assert
		assert.NoError(t, err)
		assert.Len(t, store.Items(), 1)
		assert.Equal(t, writes, storage.writes)
	})
}

func TestUpdateQuantity(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - increments", func(t *testing.T) {
		store := cart.Load(ctx, newMemoryStorage(), testKey, 0)
		require.NoError(t, store.Add(ctx, hoodie, "XL"))

		require.NoError(t, store.UpdateQuantity(ctx, hoodie.ID, 4, "XL"))

		assert.Equal(t, 5, store.Items()[0].Quantity)
	})

	t.Run("Success - never below one", func(t *testing.T) {
		store := cart.Load(ctx, newMemoryStorage(), testKey, 0)
		require.NoError(t, store.Add(ctx, hoodie, "XL"))
		require.NoError(t, store.Add(ctx, hoodie, "XL"))

		require.NoError(t, store.UpdateQuantity(ctx, hoodie.ID, -10, "XL"))

		items := store.Items()
		require.Len(t, items, 1)
		assert.Equal(t, 1, items[0].Quantity)
	})

	t.Run("Success - wrong variant is ignored", func(t *testing.T) {
		store := cart.Load(ctx, newMemoryStorage(), testKey, 0)
		require.NoError(t, store.Add(ctx, hoodie, "XL"))

		require.NoError(t, store.UpdateQuantity(ctx, hoodie.ID, 3, "S"))

		assert.Equal(t, 1, store.Items()[0].Quantity)
	})
}

func TestClearAndTotal(t *testing.T) {
	ctx := context.Background()
	store := cart.Load(ctx, newMemoryStorage(), testKey, 0)

	require.NoError(t, store.Add(ctx, tshirt, "M"))
	require.NoError(t, store.Add(ctx, tshirt, "M"))
	require.NoError(t, store.Add(ctx, poster, ""))

	// 2 x 25.00 + 9.99
	assert.True(t, decimal.RequireFromString("59.99").Equal(store.Total()))

	require.NoError(t, store.UpdateQuantity(ctx, poster.ID, 2, ""))
	assert.True(t, decimal.RequireFromString("79.97").Equal(store.Total()))

	require.NoError(t, store.Clear(ctx))
	assert.Empty(t, store.Items())
	assert.True(t, decimal.Zero.Equal(store.Total()))
}

func TestPersistence(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - round trip yields identical lines", func(t *testing.T) {
		// Arrange
		storage := newMemoryStorage()
		store := cart.Load(ctx, storage, testKey, 0)
		require.NoError(t, store.Add(ctx, tshirt, "M"))
		require.NoError(t, store.Add(ctx, hoodie, ""))
		require.NoError(t, store.UpdateQuantity(ctx, hoodie.ID, 2, ""))

		// Act
		reloaded := cart.Load(ctx, storage, testKey, 0)

		// Assert
		want := store.Items()
		got := reloaded.Items()
		require.Len(t, got, len(want))
		for i := range want {
			assert.Equal(t, want[i].ProductID, got[i].ProductID)
			assert.Equal(t, want[i].Variant, got[i].Variant)
			assert.Equal(t, want[i].Quantity, got[i].Quantity)
			assert.True(t, want[i].Price.Equal(got[i].Price))
		}
		assert.False(t, reloaded.IsOpen())
	})

	t.Run("Success - corrupted payload yields empty cart", func(t *testing.T) {
		// Arrange
		storage := newMemoryStorage()
		storage.data[testKey] = []byte(`{"not":"a list"`)

		// Act
		store := cart.Load(ctx, storage, testKey, 0)

		// Assert
		assert.Empty(t, store.Items())
		assert.True(t, decimal.Zero.Equal(store.Total()))
	})

	t.Run("Success - duplicate persisted lines are merged", func(t *testing.T) {
		// Arrange
		storage := newMemoryStorage()
		storage.data[testKey] = []byte(`[
			{"id":"` + tshirt.ID.String() + `","name":"T-Shirt","price":"25","selected_size":"M","quantity":1},
			{"id":"` + tshirt.ID.String() + `","name":"T-Shirt","price":"25","selected_size":"M","quantity":0}
		]`)

		// Act
		store := cart.Load(ctx, storage, testKey, 0)

		// Assert
		items := store.Items()
		require.Len(t, items, 1)
		assert.Equal(t, 2, items[0].Quantity)
	})
}

func TestRedisBackedCart(t *testing.T) {
	ctx := context.Background()
	client, mock := redismock.NewClientMock()
	storage := cache.NewRedisCache(client, &config.CacheConfig{DefaultTTL: time.Hour})

	t.Run("Success - mutation writes the full line list in a transaction", func(t *testing.T) {
		// Arrange
		mock.ExpectGet(testKey).RedisNil()
		store := cart.Load(ctx, storage, testKey, 24*time.Hour)

		expected, err := json.Marshal([]cart.Item{{
			ProductID: poster.ID,
			Name:      poster.Name,
			Price:     poster.Price,
			Quantity:  1,
		}})
		require.NoError(t, err)
		mock.ExpectWatch(testKey)
		mock.ExpectGet(testKey).RedisNil()
		mock.ExpectTxPipeline()
		mock.ExpectSet(testKey, expected, 24*time.Hour).SetVal("OK")
		mock.ExpectTxPipelineExec()

		// Act
		err = store.Add(ctx, poster, "")

		// Assert
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - redis error yields empty cart", func(t *testing.T) {
		mock.ExpectGet(testKey).SetErr(errors.New("connection refused"))

		store := cart.Load(ctx, storage, testKey, time.Hour)

		assert.Empty(t, store.Items())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStaleStores(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - two stores loaded before either writes keep both adds", func(t *testing.T) {
		// Arrange
		storage := newMemoryStorage()
		first := cart.Load(ctx, storage, testKey, 0)
		second := cart.Load(ctx, storage, testKey, 0)

		// Act
		require.NoError(t, first.Add(ctx, tshirt, "M"))
		require.NoError(t, second.Add(ctx, tshirt, "M"))

		// Assert
		items := cart.Load(ctx, storage, testKey, 0).Items()
		require.Len(t, items, 1)
		assert.Equal(t, 2, items[0].Quantity)
		assert.Equal(t, 2, second.Count())
	})

	t.Run("Success - remove on a stale store drops a line added elsewhere", func(t *testing.T) {
		// Arrange
		storage := newMemoryStorage()
		stale := cart.Load(ctx, storage, testKey, 0)
		require.NoError(t, cart.Load(ctx, storage, testKey, 0).Add(ctx, hoodie, ""))

		// Act
		require.NoError(t, stale.Remove(ctx, hoodie.ID, ""))

		// Assert
		assert.Empty(t, cart.Load(ctx, storage, testKey, 0).Items())
	})

	t.Run("Success - updater storage receives every mutation", func(t *testing.T) {
		// Arrange
		storage := &updaterStorage{memoryStorage: newMemoryStorage()}
		store := cart.Load(ctx, storage, testKey, time.Hour)

		// Act
		require.NoError(t, store.Add(ctx, poster, ""))
		require.NoError(t, store.UpdateQuantity(ctx, poster.ID, 2, ""))
		require.NoError(t, store.Remove(ctx, hoodie.ID, ""))

		// Assert
		assert.Equal(t, 3, storage.updates)
		assert.Equal(t, 2, storage.writes)
		assert.Equal(t, 3, store.Count())
	})

	t.Run("Failure - updater conflict is returned", func(t *testing.T) {
		// Arrange
		storage := &updaterStorage{memoryStorage: newMemoryStorage(), err: cache.ErrConflict}
		store := cart.Load(ctx, storage, testKey, time.Hour)

		// Act
		err := store.Add(ctx, poster, "")

		// Assert
		assert.ErrorIs(t, err, cache.ErrConflict)
	})
}

// updaterStorage runs Update as a plain read-modify-write over memoryStorage.
type updaterStorage struct {
	*memoryStorage
	updates int
	err     error
}

func (u *updaterStorage) Update(ctx context.Context, key string, value any, ttl time.Duration, fn func(found bool) (bool, error)) error {
	u.updates++
	if u.err != nil {
		return u.err
	}

	found, err := u.Get(ctx, key, value)
	if err != nil {
		found = false
	}

	write, err := fn(found)
	if err != nil || !write {
		return err
	}

	return u.Set(ctx, key, value, ttl)
}

// Random operation sequences must keep lines unique and quantities >= 1.
func TestLinesStayConsistentUnderRandomOperations(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))
	products := []cart.Product{tshirt, hoodie, poster}
	variants := []string{"", "S", "M", "L"}

	storage := newMemoryStorage()
	store := cart.Load(ctx, storage, testKey, 0)

	for i := 0; i < 500; i++ {
		p := products[rng.Intn(len(products))]
		v := variants[rng.Intn(len(variants))]

		switch rng.Intn(3) {
		case 0:
			require.NoError(t, store.Add(ctx, p, v))
		case 1:
			require.NoError(t, store.Remove(ctx, p.ID, v))
		default:
			require.NoError(t, store.UpdateQuantity(ctx, p.ID, rng.Intn(7)-4, v))
		}

		seen := map[string]bool{}
		expected := decimal.Zero
		for _, item := range store.Items() {
			key := item.ProductID.String() + "/" + item.Variant
			require.False(t, seen[key], "duplicate line %s", key)
			seen[key] = true
			require.GreaterOrEqual(t, item.Quantity, 1)
			expected = expected.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
		require.True(t, expected.Equal(store.Total()))
	}

	reloaded := cart.Load(ctx, storage, testKey, 0)
	assert.Equal(t, len(store.Items()), len(reloaded.Items()))
}
