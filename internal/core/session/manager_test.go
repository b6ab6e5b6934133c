package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"finflow-gateway/internal/core/domain"
	"finflow-gateway/internal/pkg/token"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func mintCredential(t *testing.T, userID string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": userID,
		"exp":    time.Now().Add(time.Hour).Unix(),
	})
	signed, err := tok.SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return signed
}

// fakeBackend doubles as resolver and authenticator
type fakeBackend struct {
	mu sync.Mutex

	users        map[string]*domain.User
	loginToken   string
	loginErr     error
	resolveErr   error
	registered   []string
	resolveCalls int

	// when set, GetUserByID blocks until the channel closes
	resolveGate chan struct{}
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{users: map[string]*domain.User{}}
}

func (f *fakeBackend) GetUserByID(ctx context.Context, id, credential string) (*domain.User, error) {
	f.mu.Lock()
	f.resolveCalls++
	gate := f.resolveGate
	resolveErr := f.resolveErr
	user := f.users[id]
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if resolveErr != nil {
		return nil, resolveErr
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

func (f *fakeBackend) Login(ctx context.Context, email, password string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loginErr != nil {
		return "", f.loginErr
	}
	return f.loginToken, nil
}

func (f *fakeBackend) Register(ctx context.Context, name, email, password string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registered = append(f.registered, email)
	return nil
}

type ManagerSuite struct {
	suite.Suite

	store   *token.MemoryStore
	backend *fakeBackend
	manager *Manager
	ctx     context.Context
}

func (s *ManagerSuite) SetupTest() {
	s.store = token.NewMemoryStore()
	s.backend = newFakeBackend()
	s.manager = NewManager(s.store, s.backend, s.backend)
	s.ctx = context.Background()
}

func TestManagerSuite(t *testing.T) {
	suite.Run(t, new(ManagerSuite))
}

func (s *ManagerSuite) TestInitializeWithoutStoredCredential() {
	s.manager.Initialize(s.ctx)

	snap := s.manager.Snapshot()
	s.Equal(StateAnonymous, snap.State)
	s.False(snap.Loading)
	s.False(snap.Authenticated())
}

func (s *ManagerSuite) TestInitializeRestoresStoredSession() {
	credential := mintCredential(s.T(), "user-1")
	s.backend.users["user-1"] = &domain.User{ID: "user-1", Name: "Ada", Email: "ada@example.com"}
	s.Require().NoError(s.store.Save(credential))

	s.manager.Initialize(s.ctx)

	snap := s.manager.Snapshot()
	s.Equal(StateAuthenticated, snap.State)
	s.True(snap.Authenticated())
	s.Equal(credential, snap.Credential)
	s.Equal("Ada", snap.User.Name)
}

func (s *ManagerSuite) TestInitializeClearsMalformedCredential() {
	s.Require().NoError(s.store.Save("garbage"))

	s.manager.Initialize(s.ctx)

	snap := s.manager.Snapshot()
	s.Equal(StateAnonymous, snap.State)
	_, ok := s.store.Load()
	s.False(ok, "store must be cleared after a failed restore")
}

func (s *ManagerSuite) TestInitializeFailsClosedWhenBackendUnreachable() {
	credential := mintCredential(s.T(), "user-1")
	s.Require().NoError(s.store.Save(credential))
	s.backend.resolveErr = domain.ErrNetwork

	s.manager.Initialize(s.ctx)

	snap := s.manager.Snapshot()
	s.Equal(StateAnonymous, snap.State)
	s.False(snap.Authenticated())
	_, ok := s.store.Load()
	s.False(ok)
}

func (s *ManagerSuite) TestInitializeRunsOnce() {
	s.manager.Initialize(s.ctx)

	// A credential appearing later must not be picked up by a second call
	credential := mintCredential(s.T(), "user-1")
	s.backend.users["user-1"] = &domain.User{ID: "user-1"}
	s.Require().NoError(s.store.Save(credential))

	s.manager.Initialize(s.ctx)
	s.Equal(StateAnonymous, s.manager.Snapshot().State)
}

func (s *ManagerSuite) TestLoginSuccess() {
	credential := mintCredential(s.T(), "user-7")
	s.backend.loginToken = credential
	s.backend.users["user-7"] = &domain.User{ID: "user-7", Name: "Ada", Email: "ada@example.com"}
	s.manager.Initialize(s.ctx)

	s.Require().NoError(s.manager.Login(s.ctx, "ada@example.com", "secret"))

	snap := s.manager.Snapshot()
	s.Equal(StateAuthenticated, snap.State)
	s.Equal("user-7", snap.User.ID)

	stored, ok := s.store.Load()
	s.True(ok)
	s.Equal(credential, stored)
}

func (s *ManagerSuite) TestLoginFailureLeavesPriorState() {
	s.manager.Initialize(s.ctx)
	s.backend.loginErr = domain.ErrInvalidCredentials

	err := s.manager.Login(s.ctx, "ada@example.com", "wrong")
	s.Require().ErrorIs(err, domain.ErrInvalidCredentials)

	snap := s.manager.Snapshot()
	s.Equal(StateAnonymous, snap.State)
	s.False(snap.Loading)
	_, ok := s.store.Load()
	s.False(ok, "nothing may be persisted on a failed login")
}

func (s *ManagerSuite) TestLoginRejectsUndecodableToken() {
	s.manager.Initialize(s.ctx)
	s.backend.loginToken = "not-a-jwt"

	err := s.manager.Login(s.ctx, "ada@example.com", "secret")
	s.Require().ErrorIs(err, domain.ErrInvalidCredential)

	_, ok := s.store.Load()
	s.False(ok, "undecodable token must fail before persisting")
}

func (s *ManagerSuite) TestRegisterLogsIn() {
	credential := mintCredential(s.T(), "user-9")
	s.backend.loginToken = credential
	s.backend.users["user-9"] = &domain.User{ID: "user-9", Name: "Grace"}
	s.manager.Initialize(s.ctx)

	s.Require().NoError(s.manager.Register(s.ctx, "Grace", "grace@example.com", "secret"))

	s.Equal([]string{"grace@example.com"}, s.backend.registered)
	snap := s.manager.Snapshot()
	s.Equal(StateAuthenticated, snap.State)
	s.Equal("Grace", snap.User.Name)
}

func (s *ManagerSuite) TestLogoutAlwaysSucceeds() {
	credential := mintCredential(s.T(), "user-1")
	s.backend.loginToken = credential
	s.backend.users["user-1"] = &domain.User{ID: "user-1"}
	s.manager.Initialize(s.ctx)
	s.Require().NoError(s.manager.Login(s.ctx, "a@b.c", "secret"))

	s.manager.Logout()

	snap := s.manager.Snapshot()
	s.Equal(StateAnonymous, snap.State)
	s.False(snap.Authenticated())
	s.Empty(snap.Credential)
	s.Nil(snap.User)
	_, ok := s.store.Load()
	s.False(ok)
}

func (s *ManagerSuite) TestRefreshKeepsVerifiableSession() {
	credential := mintCredential(s.T(), "user-1")
	s.backend.loginToken = credential
	s.backend.users["user-1"] = &domain.User{ID: "user-1", Name: "Ada"}
	s.manager.Initialize(s.ctx)
	s.Require().NoError(s.manager.Login(s.ctx, "a@b.c", "secret"))

	s.backend.users["user-1"].Name = "Ada L."
	s.Require().NoError(s.manager.Refresh(s.ctx))

	snap := s.manager.Snapshot()
	s.Equal(StateAuthenticated, snap.State)
	s.Equal("Ada L.", snap.User.Name)
}

func (s *ManagerSuite) TestRefreshFailureForcesLogout() {
	credential := mintCredential(s.T(), "user-1")
	s.backend.loginToken = credential
	s.backend.users["user-1"] = &domain.User{ID: "user-1"}
	s.manager.Initialize(s.ctx)
	s.Require().NoError(s.manager.Login(s.ctx, "a@b.c", "secret"))

	s.backend.mu.Lock()
	s.backend.resolveErr = domain.ErrUnauthorized
	s.backend.mu.Unlock()

	s.Require().NoError(s.manager.Refresh(s.ctx), "verification failure is not surfaced")

	snap := s.manager.Snapshot()
	s.Equal(StateAnonymous, snap.State)
	s.False(snap.Authenticated())
	_, ok := s.store.Load()
	s.False(ok)
}

func (s *ManagerSuite) TestConcurrentLoginRejectedWhileBusy() {
	credential := mintCredential(s.T(), "user-1")
	s.backend.loginToken = credential
	s.backend.users["user-1"] = &domain.User{ID: "user-1"}
	s.manager.Initialize(s.ctx)

	gate := make(chan struct{})
	s.backend.mu.Lock()
	s.backend.resolveGate = gate
	s.backend.mu.Unlock()

	first := make(chan error, 1)
	go func() {
		first <- s.manager.Login(s.ctx, "a@b.c", "secret")
	}()

	// Wait until the first login holds the busy flag
	s.Require().Eventually(func() bool {
		return s.manager.Snapshot().Loading
	}, time.Second, time.Millisecond)

	err := s.manager.Login(s.ctx, "a@b.c", "secret")
	s.ErrorIs(err, domain.ErrSessionBusy)
	s.ErrorIs(s.manager.Refresh(s.ctx), domain.ErrSessionBusy)

	close(gate)
	s.Require().NoError(<-first)
	s.Equal(StateAuthenticated, s.manager.Snapshot().State)
}

func TestGuardStateProjection(t *testing.T) {
	tests := []struct {
		name string
		snap Snapshot
		want struct {
			restoring     bool
			authenticated bool
		}
	}{
		{"uninitialized", Snapshot{State: StateUninitialized}, struct{ restoring, authenticated bool }{true, false}},
		{"restoring", Snapshot{State: StateRestoring, Loading: true}, struct{ restoring, authenticated bool }{true, false}},
		{"anonymous", Snapshot{State: StateAnonymous}, struct{ restoring, authenticated bool }{false, false}},
		{"authenticated", Snapshot{State: StateAuthenticated, Credential: "c", User: &domain.User{ID: "u"}}, struct{ restoring, authenticated bool }{false, true}},
		{"credential without user", Snapshot{State: StateAuthenticated, Credential: "c"}, struct{ restoring, authenticated bool }{false, false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := tt.snap.GuardState()
			assert.Equal(t, tt.want.restoring, gs.Restoring)
			assert.Equal(t, tt.want.authenticated, gs.Authenticated)
		})
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "uninitialized", StateUninitialized.String())
	assert.Equal(t, "restoring", StateRestoring.String())
	assert.Equal(t, "authenticated", StateAuthenticated.String())
	assert.Equal(t, "anonymous", StateAnonymous.String())
	assert.Equal(t, "unknown", State(99).String())
}
