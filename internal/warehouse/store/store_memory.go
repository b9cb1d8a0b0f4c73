package store

import (
	"context"
	"slices"
	"sync"

	"geoclock/internal/warehouse/models"
	id "geoclock/pkg/domain"
	"geoclock/pkg/platform/sentinel"
)

// InMemoryStore is a seedable warehouse and rule source for dev mode and tests.
type InMemoryStore struct {
	mu         sync.RWMutex
	warehouses map[id.WarehouseID]models.Warehouse
	rules      map[id.WarehouseID]models.AttendanceRule
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		warehouses: make(map[id.WarehouseID]models.Warehouse),
		rules:      make(map[id.WarehouseID]models.AttendanceRule),
	}
}

// UpsertWarehouse validates and stores w.
func (s *InMemoryStore) UpsertWarehouse(_ context.Context, w models.Warehouse) error {
	if err := w.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.warehouses[w.ID] = w
	return nil
}

// UpsertAttendanceRule validates and stores r for an existing warehouse.
func (s *InMemoryStore) UpsertAttendanceRule(_ context.Context, r models.AttendanceRule) error {
	if err := r.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.warehouses[r.WarehouseID]; !ok {
		return sentinel.ErrNotFound
	}
	s.rules[r.WarehouseID] = r
	return nil
}

// ListCandidateWarehouses returns every warehouse ordered by id.
func (s *InMemoryStore) ListCandidateWarehouses(_ context.Context) ([]models.Warehouse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Warehouse, 0, len(s.warehouses))
	for _, w := range s.warehouses {
		out = append(out, w)
	}
	slices.SortFunc(out, func(a, b models.Warehouse) int {
		switch {
		case a.ID.Less(b.ID):
			return -1
		case b.ID.Less(a.ID):
			return 1
		}
		return 0
	})
	return out, nil
}

func (s *InMemoryStore) GetWarehouse(_ context.Context, warehouseID id.WarehouseID) (*models.Warehouse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.warehouses[warehouseID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &w, nil
}

// GetAttendanceRule returns nil, nil when the warehouse has no rule.
func (s *InMemoryStore) GetAttendanceRule(_ context.Context, warehouseID id.WarehouseID) (*models.AttendanceRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rules[warehouseID]
	if !ok {
		return nil, nil
	}
	return &r, nil
}
