// Package cart implements the session cart: an ordered list of line
// items, unique by catalogue id, mirrored to durable storage after every
// mutation. In-memory state is authoritative; storage is only the
// recovery source across restarts.
package cart

import (
	"encoding/json"
	"sync"

	"canteen-client/internal/model"
	"canteen-client/internal/storage"

	"github.com/rs/zerolog"
)

// The tax rate applied at checkout display time.
const taxRate = 0.05

// Lookup resolves catalogue items at add-time.
type Lookup interface {
	ItemByID(id int64) (model.MenuItem, bool)
}

// Totals is the checkout price breakdown.
type Totals struct {
	Subtotal float64
	Tax      float64
	Total    float64
}

// Store holds the authoritative in-session cart.
type Store struct {
	mu      sync.Mutex
	items   []model.LineItem
	seq     uint64
	catalog Lookup

	// persistMu serialises mirror writes separately from mutations so a
	// slow write never blocks the next mutation.
	persistMu     sync.Mutex
	lastPersisted uint64

	storage  storage.Store
	onChange func([]model.LineItem)
	logger   zerolog.Logger
}

// NewStore creates a cart store backed by st, resolving additions
// against catalog.
func NewStore(st storage.Store, catalog Lookup, logger zerolog.Logger) *Store {
	return &Store{
		catalog: catalog,
		storage: st,
		logger:  logger.With().Str("component", "cart").Logger(),
	}
}

// OnChange registers a callback invoked with a snapshot of the cart
// after every mutation. Must be set before the first mutation.
func (s *Store) OnChange(fn func([]model.LineItem)) {
	s.onChange = fn
}

// Restore loads the cart mirror from durable storage. Malformed stored
// data resets to an empty cart; the error is never propagated. Call once
// per session before accepting mutations.
func (s *Store) Restore() {
	raw, ok := s.storage.Get(storage.KeyCartItems)
	if !ok {
		return
	}

	var items []model.LineItem
	if err := json.Unmarshal(raw, &items); err != nil {
		s.logger.Warn().Err(err).Msg("stored cart is corrupt, starting with an empty cart")
		return
	}

	// Entries with a non-positive quantity must not exist in the store.
	restored := items[:0]
	for _, li := range items {
		if li.Quantity > 0 {
			restored = append(restored, li)
		}
	}

	s.mu.Lock()
	s.items = restored
	s.mu.Unlock()

	s.logger.Debug().Int("items", len(restored)).Msg("cart restored from storage")
}

// Add puts one unit of the catalogue item in the cart. Unknown or
// unavailable items are ignored. An item already present has its
// quantity incremented; otherwise it is inserted with quantity 1,
// freezing name, price and image at add-time.
func (s *Store) Add(itemID int64) {
	item, ok := s.catalog.ItemByID(itemID)
	if !ok || !item.Available {
		s.logger.Debug().Int64("item_id", itemID).Msg("ignoring add for unknown or unavailable item")
		return
	}

	s.mu.Lock()
	if i := s.index(itemID); i >= 0 {
		s.items[i].Quantity++
	} else {
		s.items = append(s.items, model.LineItem{
			ID:       item.ID,
			Name:     item.Name,
			Price:    item.Price,
			Image:    item.Image,
			Quantity: 1,
		})
	}
	seq, snapshot := s.commitLocked()
	s.mu.Unlock()

	s.afterMutation(seq, snapshot)
}

// SetQuantity overwrites the quantity of an item already in the cart.
// A quantity of zero or less removes the item. Absent items are ignored.
func (s *Store) SetQuantity(itemID int64, quantity int) {
	if quantity <= 0 {
		s.Remove(itemID)
		return
	}

	s.mu.Lock()
	i := s.index(itemID)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.items[i].Quantity = quantity
	seq, snapshot := s.commitLocked()
	s.mu.Unlock()

	s.afterMutation(seq, snapshot)
}

// Remove deletes the line item if present; removing an absent item is a
// no-op.
func (s *Store) Remove(itemID int64) {
	s.mu.Lock()
	i := s.index(itemID)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	seq, snapshot := s.commitLocked()
	s.mu.Unlock()

	s.afterMutation(seq, snapshot)
}

// Clear empties the cart. Used on successful order submission and on
// logout.
func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	seq, snapshot := s.commitLocked()
	s.mu.Unlock()

	s.afterMutation(seq, snapshot)
}

// Items returns a snapshot of the cart in insertion order.
func (s *Store) Items() []model.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Quantity returns the quantity of an item in the cart, or zero.
func (s *Store) Quantity(itemID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.index(itemID); i >= 0 {
		return s.items[i].Quantity
	}
	return 0
}

// Len returns the number of distinct line items.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// TotalQuantity returns the summed quantity over all line items.
func (s *Store) TotalQuantity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, li := range s.items {
		n += li.Quantity
	}
	return n
}

// Total returns the cart total, always recomputed as the sum of
// price times quantity over all line items.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return total(s.items)
}

// CheckoutTotals returns the subtotal, tax and final total shown at
// checkout.
func (s *Store) CheckoutTotals() Totals {
	sub := s.Total()
	tax := sub * taxRate
	return Totals{
		Subtotal: sub,
		Tax:      tax,
		Total:    sub + tax,
	}
}

// index returns the position of itemID, or -1. Callers must hold s.mu.
func (s *Store) index(itemID int64) int {
	for i, li := range s.items {
		if li.ID == itemID {
			return i
		}
	}
	return -1
}

// commitLocked bumps the mutation sequence and snapshots the cart.
// Callers must hold s.mu.
func (s *Store) commitLocked() (uint64, []model.LineItem) {
	s.seq++
	return s.seq, s.snapshotLocked()
}

// snapshotLocked copies the item slice. Callers must hold s.mu.
func (s *Store) snapshotLocked() []model.LineItem {
	out := make([]model.LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// afterMutation mirrors the snapshot to storage and signals a re-render.
func (s *Store) afterMutation(seq uint64, snapshot []model.LineItem) {
	s.persist(seq, snapshot)
	if s.onChange != nil {
		s.onChange(snapshot)
	}
}

// persist writes the snapshot for mutation seq to durable storage.
// A persist from an older mutation never overwrites a newer one:
// last writer wins by mutation order, not completion order. Persist
// failures are logged, not surfaced; the mirror is non-fatal.
func (s *Store) persist(seq uint64, snapshot []model.LineItem) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	if seq <= s.lastPersisted {
		s.logger.Debug().
			Uint64("seq", seq).
			Uint64("last_persisted", s.lastPersisted).
			Msg("skipping stale cart persist")
		return
	}

	if snapshot == nil {
		snapshot = []model.LineItem{}
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to serialise cart")
		return
	}

	if err := s.storage.Set(storage.KeyCartItems, raw); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist cart")
		return
	}

	s.lastPersisted = seq
}

// total computes the sum of price times quantity over items.
func total(items []model.LineItem) float64 {
	var sum float64
	for _, li := range items {
		sum += li.Subtotal()
	}
	return sum
}
