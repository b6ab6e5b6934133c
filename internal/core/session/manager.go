// Package session owns the client-side authentication lifecycle: restoring
// a persisted credential at startup, login/register/logout/refresh, and the
// authoritative answer to "who is logged in".
package session

import (
	"context"
	"log"
	"sync"

	"finflow-gateway/internal/core/domain"
	"finflow-gateway/internal/core/guard"
	"finflow-gateway/internal/pkg/token"
)

// State is the session lifecycle state
type State int

const (
	StateUninitialized State = iota
	StateRestoring
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRestoring:
		return "restoring"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// UserResolver fetches the authoritative user record from the backend.
// Implementations must be idempotent for a given id and fail with a
// distinguishable error when the backend is unreachable or the id is stale.
type UserResolver interface {
	GetUserByID(ctx context.Context, id, credential string) (*domain.User, error)
}

// Authenticator is the backend authentication boundary
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, error)
	Register(ctx context.Context, name, email, password string) error
}

// Manager is the session state machine. All mutating operations are
// mutually exclusive: while one is in flight, concurrent Login/Register/
// Refresh calls fail with ErrSessionBusy instead of queuing, so two racing
// calls can never interleave their state writes.
type Manager struct {
	store    token.Store
	resolver UserResolver
	auth     Authenticator

	mu          sync.Mutex
	state       State
	loading     bool
	initialized bool
	credential  string
	user        *domain.User
}

// NewManager creates a session manager over the given collaborators
func NewManager(store token.Store, resolver UserResolver, auth Authenticator) *Manager {
	return &Manager{
		store:    store,
		resolver: resolver,
		auth:     auth,
		state:    StateUninitialized,
	}
}

// Snapshot is an atomic view of the session; observers never see a
// half-applied transition.
type Snapshot struct {
	State      State
	Loading    bool
	Credential string
	User       *domain.User
}

// Authenticated reports whether both credential and user are present.
// A snapshot with a credential but no resolved user is a transient
// intermediate and is never treated as authenticated.
func (s Snapshot) Authenticated() bool {
	return s.Credential != "" && s.User != nil
}

// GuardState projects the snapshot into the route guard's input
func (s Snapshot) GuardState() guard.SessionState {
	return guard.SessionState{
		Restoring:     s.Loading || s.State == StateUninitialized || s.State == StateRestoring,
		Authenticated: s.Authenticated(),
	}
}

// Snapshot returns the current session view
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		State:      m.state,
		Loading:    m.loading,
		Credential: m.credential,
		User:       m.user,
	}
}

// Initialize restores the session from the token store. It runs at most
// once per process; later calls are no-ops. Decode or resolve failures
// fail closed into Anonymous with the store cleared and are not surfaced:
// a stale credential silently logs the user out. The loading flag stays
// true until the terminal state is reached so the route guard never acts
// on a half-initialized session.
func (m *Manager) Initialize(ctx context.Context) {
	m.mu.Lock()
	if m.initialized {
		m.mu.Unlock()
		return
	}
	m.initialized = true
	m.state = StateRestoring
	m.loading = true
	m.mu.Unlock()

	credential, ok := m.store.Load()
	if !ok {
		m.settle(StateAnonymous, "", nil)
		return
	}

	userID, err := token.Decode(credential)
	if err != nil {
		m.store.Clear()
		m.settle(StateAnonymous, "", nil)
		return
	}

	user, err := m.resolver.GetUserByID(ctx, userID, credential)
	if err != nil {
		m.store.Clear()
		m.settle(StateAnonymous, "", nil)
		return
	}

	log.Printf("session restored for user %s", user.ID)
	m.settle(StateAuthenticated, credential, user)
}

// Login authenticates against the backend. On failure the prior session
// state is left untouched and the error carries the backend message when
// one was provided.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	if err := m.begin(); err != nil {
		return err
	}
	return m.login(ctx, email, password)
}

// login performs the credential exchange; callers must hold the busy flag
func (m *Manager) login(ctx context.Context, email, password string) error {
	credential, err := m.auth.Login(ctx, email, password)
	if err != nil {
		m.abort()
		return err
	}

	userID, err := token.Decode(credential)
	if err != nil {
		m.abort()
		return domain.ErrInvalidCredential
	}

	if err := m.store.Save(credential); err != nil {
		m.abort()
		return err
	}

	user, err := m.resolver.GetUserByID(ctx, userID, credential)
	if err != nil {
		m.abort()
		return err
	}

	log.Printf("user %s logged in", user.ID)
	m.settle(StateAuthenticated, credential, user)
	return nil
}

// Register creates the account on the backend and then logs in with the
// same credentials. Backend validation failures surface as
// ErrRegistrationFailed (possibly wrapped with the backend message).
func (m *Manager) Register(ctx context.Context, name, email, password string) error {
	if err := m.begin(); err != nil {
		return err
	}

	if err := m.auth.Register(ctx, name, email, password); err != nil {
		m.abort()
		return err
	}

	return m.login(ctx, email, password)
}

// Logout clears the token store and the in-memory session synchronously.
// It always succeeds; navigation back to the login page is the caller's
// side effect, driven by the route guard on the next decision.
func (m *Manager) Logout() {
	m.store.Clear()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = StateAnonymous
	m.loading = false
	m.credential = ""
	m.user = nil
}

// Refresh re-derives the subject from the held credential and re-fetches
// the user record. Any verification failure forces logout semantics: a
// session that cannot be verified is treated as no session. The only
// surfaced error is ErrSessionBusy.
func (m *Manager) Refresh(ctx context.Context) error {
	if err := m.begin(); err != nil {
		return err
	}

	m.mu.Lock()
	credential := m.credential
	m.mu.Unlock()

	if credential == "" {
		m.abort()
		return nil
	}

	userID, err := token.Decode(credential)
	if err != nil {
		m.abort()
		m.Logout()
		return nil
	}

	user, err := m.resolver.GetUserByID(ctx, userID, credential)
	if err != nil {
		m.abort()
		m.Logout()
		return nil
	}

	m.settle(StateAuthenticated, credential, user)
	return nil
}

// begin claims the busy flag, rejecting overlapping mutating calls
func (m *Manager) begin() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loading {
		return domain.ErrSessionBusy
	}
	m.loading = true
	return nil
}

// abort releases the busy flag leaving the rest of the state untouched
func (m *Manager) abort() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = false
}

// settle applies a terminal transition atomically
func (m *Manager) settle(state State, credential string, user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
	m.credential = credential
	m.user = user
	m.loading = false
}
