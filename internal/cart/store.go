package cart

import "sync"

// Store holds the live cart of the terminal. It only tracks product IDs
// and quantities; prices are resolved against the active catalog at
// read time.
type Store struct {
	mu    sync.RWMutex
	items Items
}

// NewStore creates an empty cart store.
func NewStore() *Store {
	return &Store{items: Items{}}
}

// AddItem increments the quantity for a product, creating the entry if
// it does not exist yet.
func (s *Store) AddItem(productID string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[productID] += quantity
	return nil
}

// SetQuantity overwrites the quantity of an existing entry.
func (s *Store) SetQuantity(productID string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[productID]; !ok {
		return ErrItemNotFound
	}
	s.items[productID] = quantity
	return nil
}

// RemoveItem deletes an entry regardless of its quantity.
func (s *Store) RemoveItem(productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[productID]; !ok {
		return ErrItemNotFound
	}
	delete(s.items, productID)
	return nil
}

// Clear empties the cart. Called by the shell once a sale has finished.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = Items{}
}

// Snapshot returns a copy of the cart safe to hand to the ledger while
// the shell keeps mutating the store.
func (s *Store) Snapshot() Items {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot := make(Items, len(s.items))
	for id, qty := range s.items {
		snapshot[id] = qty
	}
	return snapshot
}

// IsEmpty reports whether the cart has no entries.
func (s *Store) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items) == 0
}
