// Package cart holds the shopping cart state for one cart session.
//
// A Store is constructed explicitly for a session key and loads its lines from
// durable storage. Every mutation re-reads the stored lines and writes the full
// list back in one step.
// Lines are unique per (product id, variant) and quantities never drop below 1.
package cart

import (
	"context"
	"fmt"
	"hash/fnv"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/munera-collective/munera-platform/internal/cache"
	"github.com/munera-collective/munera-platform/internal/logging"
	"github.com/shopspring/decimal"
)

// Namespace is the fixed key prefix the cart lines are persisted under.
const Namespace = "munera_cart"

// Storage is the durable key/value store backing a cart. cache.Cache satisfies it.
type Storage interface {
	Get(ctx context.Context, key string, value any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type Item struct {
	ProductID uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image,omitempty"`
	Variant   string          `json:"selected_size,omitempty"`
	Quantity  int             `json:"quantity"`
}

func (i Item) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (i Item) matches(productID uuid.UUID, variant string) bool {
	return i.ProductID == productID && i.Variant == variant
}

// Product carries the display fields copied into a new cart line.
type Product struct {
	ID    uuid.UUID
	Name  string
	Price decimal.Decimal
	Image string
}

// View is a read-only snapshot of the cart.
type View struct {
	Items  []Item          `json:"items"`
	Total  decimal.Decimal `json:"total"`
	Count  int             `json:"count"`
	IsOpen bool            `json:"is_open"`
}

type Store struct {
	mu      sync.Mutex
	storage Storage
	key     string
	ttl     time.Duration
	items   []Item
	open    bool
}

func Key(namespace, session string) string {
	if namespace == "" {
		namespace = Namespace
	}

	return cache.Key(namespace, session)
}

// Load builds the store for key. A missing, unreadable or corrupted payload
// yields an empty cart.
func Load(ctx context.Context, storage Storage, key string, ttl time.Duration) *Store {
	s := &Store{storage: storage, key: key, ttl: ttl}

	logger := logging.FromContext(ctx)

	var items []Item

	found, err := storage.Get(ctx, key, &items)
	if err != nil {
		logger.Warn("Failed to load persisted cart, starting empty", slog.String("key", key), slog.String("error", err.Error()))
		return s
	}

	if found {
		s.items = normalize(items)
	}

	return s
}

// normalize merges duplicate lines and floors quantities at 1.
func normalize(items []Item) []Item {
	out := make([]Item, 0, len(items))

	for _, item := range items {
		if item.ProductID == uuid.Nil {
			continue
		}

		if item.Quantity < 1 {
			item.Quantity = 1
		}

		merged := false
		for i := range out {
			if out[i].matches(item.ProductID, item.Variant) {
				out[i].Quantity += item.Quantity
				merged = true
				break
			}
		}

		if !merged {
			out = append(out, item)
		}
	}

	return out
}

// Add increments the (product, variant) line or appends a new one with
// quantity 1, then opens the cart display.
func (s *Store) Add(ctx context.Context, product Product, variant string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.open = true

	return s.mutate(ctx, func(items []Item) ([]Item, bool) {
		for i := range items {
			if items[i].matches(product.ID, variant) {
				items[i].Quantity++
				return items, true
			}
		}

		return append(items, Item{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Image:     product.Image,
			Variant:   variant,
			Quantity:  1,
		}), true
	})
}

// Remove drops the matching line. Removing an absent line is a no-op.
func (s *Store) Remove(ctx context.Context, productID uuid.UUID, variant string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mutate(ctx, func(items []Item) ([]Item, bool) {
		for i := range items {
			if items[i].matches(productID, variant) {
				return append(items[:i], items[i+1:]...), true
			}
		}

		return items, false
	})
}

// UpdateQuantity adjusts the matching line by delta, clamped to a minimum of 1.
func (s *Store) UpdateQuantity(ctx context.Context, productID uuid.UUID, delta int, variant string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mutate(ctx, func(items []Item) ([]Item, bool) {
		for i := range items {
			if items[i].matches(productID, variant) {
				items[i].Quantity = max(1, items[i].Quantity+delta)
				return items, true
			}
		}

		return items, false
	})
}

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mutate(ctx, func([]Item) ([]Item, bool) {
		return []Item{}, true
	})
}

func (s *Store) SetOpen(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.open = open
}

func (s *Store) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.open
}

// Items returns a copy of the current lines.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.copyItems()
}

// Total is recomputed from the lines on every call.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	return total(s.items)
}

func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}

	return count
}

func (s *Store) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}

	return View{
		Items:  s.copyItems(),
		Total:  total(s.items),
		Count:  count,
		IsOpen: s.open,
	}
}

func (s *Store) copyItems() []Item {
	items := make([]Item, len(s.items))
	copy(items, s.items)

	return items
}

func total(items []Item) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.Subtotal())
	}

	return sum
}

// mutate applies change to the persisted lines, not the ones seen at Load, and
// writes the result back when change reports a modification. Mutations of one
// key are serialized within the process, and across processes when the storage
// is a cache.Updater. Caller holds s.mu.
func (s *Store) mutate(ctx context.Context, change func([]Item) ([]Item, bool)) error {
	unlock := lockKey(s.key)
	defer unlock()

	if updater, ok := s.storage.(cache.Updater); ok {
		var items []Item

		err := updater.Update(ctx, s.key, &items, s.ttl, func(found bool) (bool, error) {
			if !found {
				items = nil
			}

			var changed bool
			items, changed = change(normalize(items))

			return changed, nil
		})
		if err != nil {
			return fmt.Errorf("persisting cart %s: %w", s.key, err)
		}

		s.items = normalize(items)

		return nil
	}

	var items []Item

	found, err := s.storage.Get(ctx, s.key, &items)
	if err != nil {
		logging.FromContext(ctx).Warn("Failed to reload cart before writing, starting empty", slog.String("key", s.key), slog.String("error", err.Error()))
	}
	if err != nil || !found {
		items = nil
	}

	items, changed := change(normalize(items))
	if changed {
		if err := s.storage.Set(ctx, s.key, items, s.ttl); err != nil {
			return fmt.Errorf("persisting cart %s: %w", s.key, err)
		}
	}

	s.items = items

	return nil
}

// keyLocks stripes the in-process lock over cart keys.
var keyLocks [64]sync.Mutex

func lockKey(key string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))

	m := &keyLocks[h.Sum32()%uint32(len(keyLocks))]
	m.Lock()

	return m.Unlock
}
