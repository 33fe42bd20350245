package user

import (
	"encoding/json"
	"time"

	"backend-howmanybeds/internal/store"
)

// Profile is the per-user record at users/{uid}, keyed by the identity
// provider uid. It carries the authorization flags the policy predicates
// evaluate.
type Profile struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	IsAdmin      bool      `json:"isAdmin"`
	EditorOf     string    `json:"editorOf"`
	LastSignedIn time.Time `json:"lastSignedIn"`
}

func (p Profile) WithID(id string) Profile {
	p.ID = id
	return p
}

// FromRecord decodes a store record into a Profile stamped with its uid.
func FromRecord(rec store.Record) (Profile, error) {
	var p Profile
	if err := json.Unmarshal(rec.Data, &p); err != nil {
		return Profile{}, err
	}
	return p.WithID(rec.ID), nil
}
