package repositories

import (
	"context"
	"sync"
	"time"

	"dispatch-tour-service/internal/domain"
	"dispatch-tour-service/internal/ports"
)

// In-memory TourStore for tests and offline demos. Documents are copied on
// the way in and out so callers hold independent snapshots, mirroring a real
// fetch-and-replace store.
type MemoryTourStore struct {
	mu    sync.RWMutex
	tours map[string]*domain.Tour
}

func NewMemoryTourStore() *MemoryTourStore {
	return &MemoryTourStore{tours: make(map[string]*domain.Tour)}
}

func (s *MemoryTourStore) GetTour(ctx context.Context, tourID string) (*domain.Tour, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tour, ok := s.tours[tourID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return copyTour(tour), nil
}

func (s *MemoryTourStore) ListTours(ctx context.Context, filter ports.TourFilter) ([]*domain.Tour, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wantIDs := make(map[string]struct{}, len(filter.TourIDs))
	for _, id := range filter.TourIDs {
		wantIDs[id] = struct{}{}
	}

	tours := make([]*domain.Tour, 0, len(s.tours))
	for _, tour := range s.tours {
		if filter.Date != nil && !sameDay(tour.Date, *filter.Date) {
			continue
		}
		if len(wantIDs) > 0 {
			if _, ok := wantIDs[tour.TourID]; !ok {
				continue
			}
		}
		tours = append(tours, copyTour(tour))
	}
	return tours, nil
}

func (s *MemoryTourStore) ListToursWithOrder(ctx context.Context, orderID string) ([]*domain.Tour, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tours := make([]*domain.Tour, 0, 4)
	for _, tour := range s.tours {
		if _, ok := tour.FindStop(orderID); ok {
			tours = append(tours, copyTour(tour))
		}
	}
	return tours, nil
}

func (s *MemoryTourStore) CreateTour(ctx context.Context, tour *domain.Tour) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tours[tour.TourID] = copyTour(tour)
	return nil
}

func (s *MemoryTourStore) ReplaceTour(ctx context.Context, tour *domain.Tour) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tours[tour.TourID]; !ok {
		return ports.ErrNotFound
	}
	s.tours[tour.TourID] = copyTour(tour)
	return nil
}

func (s *MemoryTourStore) DeleteTour(ctx context.Context, tourID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tours[tourID]; !ok {
		return ports.ErrNotFound
	}
	delete(s.tours, tourID)
	return nil
}

// In-memory OrderStore counterpart to MemoryTourStore.
type MemoryOrderStore struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order
}

func NewMemoryOrderStore() *MemoryOrderStore {
	return &MemoryOrderStore{orders: make(map[string]*domain.Order)}
}

// Put seeds or overwrites an order, for test setup.
func (s *MemoryOrderStore) Put(order *domain.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *order
	s.orders[order.OrderID] = &c
}

func (s *MemoryOrderStore) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[orderID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	c := *order
	return &c, nil
}

func (s *MemoryOrderStore) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := make([]*domain.Order, 0, len(s.orders))
	for _, order := range s.orders {
		c := *order
		orders = append(orders, &c)
	}
	return orders, nil
}

func (s *MemoryOrderStore) ReplaceOrder(ctx context.Context, order *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[order.OrderID]; !ok {
		return ports.ErrNotFound
	}
	c := *order
	s.orders[order.OrderID] = &c
	return nil
}

func copyTour(t *domain.Tour) *domain.Tour {
	c := *t
	c.Stops = make([]domain.Stop, len(t.Stops))
	copy(c.Stops, t.Stops)
	return &c
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
