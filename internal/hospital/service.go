package hospital

import (
	"context"
	"encoding/json"

	"backend-howmanybeds/internal/store"
)

const collection = "hospitals"

type Service struct {
	store *store.Store
}

func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// List returns every hospital in store order, ids stamped. Ranking against
// a reference location is the caller's read-side projection.
func (s *Service) List(ctx context.Context) ([]HospitalForUI, error) {
	records, err := s.store.Snapshot(ctx, collection)
	if err != nil {
		return nil, err
	}
	return store.Decode[HospitalForUI](collection, records), nil
}

// Get returns the hospital at hospitals/{id}, or nil when absent.
func (s *Service) Get(ctx context.Context, id string) (*HospitalForUI, error) {
	rec, err := s.store.Get(ctx, collection, id)
	if err != nil || rec == nil {
		return nil, err
	}
	var h HospitalForUI
	if err := json.Unmarshal(rec.Data, &h); err != nil {
		return nil, err
	}
	h = h.WithID(rec.ID)
	return &h, nil
}

// Create pushes a new hospital record and returns its generated id.
// Callers gate this on validation and authorization first.
func (s *Service) Create(ctx context.Context, h Hospital) (string, error) {
	return s.store.Create(ctx, collection, h)
}

// Set replaces the full record at hospitals/{id}.
func (s *Service) Set(ctx context.Context, id string, h Hospital) error {
	return s.store.Set(ctx, collection, id, h)
}

func (s *Service) Remove(ctx context.Context, id string) error {
	return s.store.Remove(ctx, collection, id)
}
