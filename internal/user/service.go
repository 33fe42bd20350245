package user

import (
	"context"
	"time"

	"backend-howmanybeds/internal/store"
)

const collection = "users"

type Service struct {
	store *store.Store
}

func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// Touch upserts the sign-in side effect onto users/{uid}: last signed in
// now, current email. On first sign-in this creates the profile with
// isAdmin=false and editorOf="".
func (s *Service) Touch(ctx context.Context, uid, email string) error {
	return s.store.Update(ctx, collection, uid, map[string]any{
		"lastSignedIn": time.Now().UTC(),
		"email":        email,
	})
}

// SetIsAdmin flips the admin flag for another user. Per-field update so a
// partial write can never drop required fields.
func (s *Service) SetIsAdmin(ctx context.Context, uid string, isAdmin bool) error {
	return s.store.Update(ctx, collection, uid, map[string]any{"isAdmin": isAdmin})
}

// SetEditorOf points the user at the single hospital they may edit.
func (s *Service) SetEditorOf(ctx context.Context, uid, hospitalID string) error {
	return s.store.Update(ctx, collection, uid, map[string]any{"editorOf": hospitalID})
}

// Get returns the profile at users/{uid}, or nil when none exists yet.
func (s *Service) Get(ctx context.Context, uid string) (*Profile, error) {
	rec, err := s.store.Get(ctx, collection, uid)
	if err != nil || rec == nil {
		return nil, err
	}
	p, err := FromRecord(*rec)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns every profile in store order for the admin table.
func (s *Service) List(ctx context.Context) ([]Profile, error) {
	records, err := s.store.Snapshot(ctx, collection)
	if err != nil {
		return nil, err
	}
	return store.Decode[Profile](collection, records), nil
}
