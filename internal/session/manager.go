package session

import (
	"context"
	"log"
	"sync"

	"backend-howmanybeds/internal/store"
	"backend-howmanybeds/internal/user"
)

// Identity is what the identity provider resolves a credential to.
type Identity struct {
	UID   string
	Email string
}

// IdentityProvider emits the current identity (nil when signed out) to a
// registered observer and returns a function that unregisters it.
type IdentityProvider interface {
	OnIdentityChanged(fn func(*Identity)) (cancel func())
}

// ProviderFunc adapts a registration function to IdentityProvider.
type ProviderFunc func(fn func(*Identity)) (cancel func())

func (p ProviderFunc) OnIdentityChanged(fn func(*Identity)) func() {
	return p(fn)
}

// State is the consolidated session state broadcast to consumers.
// Loading is true until the provider has reported at least once.
type State struct {
	Loading  bool          `json:"loading"`
	SignedIn bool          `json:"signedIn"`
	Profile  *user.Profile `json:"profile"`
}

// Manager resolves identity-provider callbacks into session state. On
// sign-in it upserts the lastSignedIn/email side effect and watches the
// users/{uid} record, republishing state on every profile change. It owns
// at most one live profile subscription; a new identity callback tears the
// previous one down first. Initialize once, Close once.
type Manager struct {
	users *user.Service
	store *store.Store

	mu            sync.Mutex
	state         State
	subs          map[int]func(State)
	nextSub       int
	cancelAuth    func()
	cancelProfile func()
	closed        bool
}

func NewManager(provider IdentityProvider, users *user.Service, st *store.Store) *Manager {
	m := &Manager{
		users: users,
		store: st,
		state: State{Loading: true},
		subs:  map[int]func(State){},
	}
	m.cancelAuth = provider.OnIdentityChanged(m.handleIdentity)
	return m
}

// OnStateChanged registers fn, replays the current state immediately and
// calls fn on every transition until the returned cancel runs.
func (m *Manager) OnStateChanged(fn func(State)) func() {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	current := m.state
	m.mu.Unlock()

	fn(current)
	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// State returns the most recently published state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Close unregisters the identity observer and any live profile watch.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	cancelAuth := m.cancelAuth
	cancelProfile := m.cancelProfile
	m.cancelAuth = nil
	m.cancelProfile = nil
	m.mu.Unlock()

	if cancelAuth != nil {
		cancelAuth()
	}
	if cancelProfile != nil {
		cancelProfile()
	}
}

func (m *Manager) handleIdentity(identity *Identity) {
	// A new provider callback always invalidates the previous profile
	// watch, otherwise two writers race on the session state.
	m.mu.Lock()
	cancelProfile := m.cancelProfile
	m.cancelProfile = nil
	m.mu.Unlock()
	if cancelProfile != nil {
		cancelProfile()
	}

	if identity == nil || identity.UID == "" {
		m.publish(State{Loading: false})
		return
	}

	uid := identity.UID
	if err := m.users.Touch(context.Background(), uid, identity.Email); err != nil {
		log.Printf("session: profile upsert %s: %v", uid, err)
	}

	cancel, err := m.store.SubscribeRecord("users", uid, func(rec *store.Record) {
		var profile *user.Profile
		if rec != nil {
			p, err := user.FromRecord(*rec)
			if err != nil {
				log.Printf("session: decode profile %s: %v", uid, err)
			} else {
				profile = &p
			}
		}
		m.publish(State{Loading: false, SignedIn: true, Profile: profile})
	})
	if err != nil {
		log.Printf("session: watch profile %s: %v", uid, err)
		m.publish(State{Loading: false, SignedIn: true})
		return
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		cancel()
		return
	}
	m.cancelProfile = cancel
	m.mu.Unlock()
}

func (m *Manager) publish(s State) {
	m.mu.Lock()
	m.state = s
	fns := make([]func(State), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}
