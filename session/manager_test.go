package session

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Sam414141/Digital-MenuCard-sub001/apperr"
	"github.com/Sam414141/Digital-MenuCard-sub001/middleware"
	"github.com/Sam414141/Digital-MenuCard-sub001/models"
)

type mockAuth struct {
	mock.Mock
}

func (m *mockAuth) Login(ctx context.Context, req models.LoginRequest) (models.AuthResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(models.AuthResponse), args.Error(1)
}

func (m *mockAuth) Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(models.AuthResponse), args.Error(1)
}

func (m *mockAuth) Verify(ctx context.Context) (models.AuthResponse, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.AuthResponse), args.Error(1)
}

func (m *mockAuth) Logout(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// clock is a settable time source
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newClock() *clock { return &clock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)} }

var alice = models.User{ID: 1, Name: "Alice", Email: "alice@example.com", Role: models.RoleCustomer}

func TestInit_ExpiredRecordIsLoggedOut(t *testing.T) {
	ctx := context.Background()
	clk := newClock()
	store := NewMemoryStore(&Record{Token: "old", User: alice, SessionID: "s", ExpiresAt: clk.Now().Add(-time.Minute)})
	m := NewManager(store, &mockAuth{}, WithClock(clk.Now))

	require.NoError(t, m.Init(ctx))
	assert.False(t, m.IsAuthenticated())
	assert.Empty(t, m.Token())

	rec, _ := store.Load(ctx)
	assert.Nil(t, rec, "expired record is removed")

	// running Init again changes nothing
	require.NoError(t, m.Init(ctx))
	assert.False(t, m.IsAuthenticated())
}

func TestInit_ValidRecordRestoresIdentity(t *testing.T) {
	clk := newClock()
	store := NewMemoryStore(&Record{Token: "tok", User: alice, SessionID: "s", ExpiresAt: clk.Now().Add(time.Hour)})
	m := NewManager(store, &mockAuth{}, WithClock(clk.Now))

	require.NoError(t, m.Init(context.Background()))
	assert.True(t, m.IsAuthenticated())
	assert.Equal(t, "tok", m.Token())
	u, ok := m.User()
	assert.True(t, ok)
	assert.Equal(t, alice.Email, u.Email)
}

func TestLogin_PersistsAndBroadcasts(t *testing.T) {
	ctx := context.Background()
	clk := newClock()
	store := NewMemoryStore(nil)
	auth := &mockAuth{}
	auth.On("Login", mock.Anything, models.LoginRequest{Email: alice.Email, Password: "secret1"}).
		Return(models.AuthResponse{Token: "opaque-token", User: alice}, nil)

	m := NewManager(store, auth, WithClock(clk.Now))
	require.NoError(t, m.Init(ctx))
	updates, cancel := m.Subscribe()
	defer cancel()
	assert.False(t, (<-updates).Authenticated)

	u, err := m.Login(ctx, alice.Email, "secret1")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, u.ID)
	assert.True(t, m.IsAuthenticated())

	ident := <-updates
	assert.True(t, ident.Authenticated)
	assert.Equal(t, alice.Email, ident.User.Email)

	rec, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "opaque-token", rec.Token)
	assert.NotEmpty(t, rec.SessionID)
	assert.Equal(t, clk.Now().Add(DefaultTTL), rec.ExpiresAt)
	auth.AssertExpectations(t)
}

func TestLogin_InvalidCredentialsLeaveSessionUntouched(t *testing.T) {
	ctx := context.Background()
	clk := newClock()
	existing := &Record{Token: "keep", User: alice, SessionID: "s1", ExpiresAt: clk.Now().Add(time.Hour)}
	store := NewMemoryStore(existing)
	auth := &mockAuth{}
	auth.On("Login", mock.Anything, mock.Anything).
		Return(models.AuthResponse{}, apperr.FromStatus(http.StatusUnauthorized, "Invalid email or password"))

	m := NewManager(store, auth, WithClock(clk.Now))
	require.NoError(t, m.Init(ctx))
	updates, cancel := m.Subscribe()
	defer cancel()
	<-updates

	_, err := m.Login(ctx, alice.Email, "wrong")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindAuthentication))
	select {
	case <-updates:
		t.Fatal("failed login must not broadcast")
	default:
	}

	rec, _ := store.Load(ctx)
	assert.Equal(t, existing.Token, rec.Token)
	assert.Equal(t, existing.SessionID, rec.SessionID)
	assert.Equal(t, "keep", m.Token())
}

func TestExpiryHonoursEarlierTokenExpiry(t *testing.T) {
	clk := newClock()
	// a token minted now with a 1h lifetime expires well before the 24h TTL
	token, err := middleware.GenerateToken([]byte("k"), &alice, time.Hour)
	require.NoError(t, err)
	m := NewManager(NewMemoryStore(nil), &mockAuth{}, WithTTL(48*time.Hour))
	exp := m.expiryFor(token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	m = NewManager(NewMemoryStore(nil), &mockAuth{}, WithClock(clk.Now))
	assert.Equal(t, clk.Now().Add(DefaultTTL), m.expiryFor("not-a-jwt"))
}

func TestCheck_HardExpiryClears(t *testing.T) {
	ctx := context.Background()
	clk := newClock()
	store := NewMemoryStore(&Record{Token: "tok", User: alice, ExpiresAt: clk.Now().Add(30 * time.Minute)})
	m := NewManager(store, &mockAuth{}, WithClock(clk.Now))
	require.NoError(t, m.Init(ctx))

	clk.Advance(31 * time.Minute)
	assert.Empty(t, m.Token(), "token is withheld as soon as the expiry passes")
	require.NoError(t, m.Check(ctx))
	rec, _ := store.Load(ctx)
	assert.Nil(t, rec)
}

func TestCheck_RevalidatesInsideWindow(t *testing.T) {
	ctx := context.Background()
	clk := newClock()
	store := NewMemoryStore(&Record{Token: "tok", User: alice, SessionID: "s", ExpiresAt: clk.Now().Add(5 * time.Minute)})
	auth := &mockAuth{}
	auth.On("Verify", mock.Anything).Return(models.AuthResponse{User: alice}, nil).Once()
	m := NewManager(store, auth, WithClock(clk.Now))
	require.NoError(t, m.Init(ctx))

	require.NoError(t, m.Check(ctx))
	rec, _ := store.Load(ctx)
	assert.Equal(t, clk.Now().Add(DefaultTTL), rec.ExpiresAt)
	assert.Equal(t, "tok", rec.Token)
	assert.Equal(t, "s", rec.SessionID)
	auth.AssertExpectations(t)
}

func TestCheck_OutsideWindowDoesNothing(t *testing.T) {
	clk := newClock()
	store := NewMemoryStore(&Record{Token: "tok", User: alice, ExpiresAt: clk.Now().Add(time.Hour)})
	auth := &mockAuth{}
	m := NewManager(store, auth, WithClock(clk.Now))
	require.NoError(t, m.Init(context.Background()))
	require.NoError(t, m.Check(context.Background()))
	auth.AssertNotCalled(t, "Verify", mock.Anything)
}

func TestRevalidate_Failures(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantAuthd bool
	}{
		{"rejected token clears", apperr.FromStatus(http.StatusUnauthorized, "expired"), false},
		{"network failure keeps session", apperr.FromTransport(context.DeadlineExceeded), true},
		{"server failure keeps session", apperr.FromStatus(http.StatusBadGateway, ""), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			clk := newClock()
			store := NewMemoryStore(&Record{Token: "tok", User: alice, ExpiresAt: clk.Now().Add(5 * time.Minute)})
			auth := &mockAuth{}
			auth.On("Verify", mock.Anything).Return(models.AuthResponse{}, tt.err)
			m := NewManager(store, auth, WithClock(clk.Now))
			require.NoError(t, m.Init(ctx))

			_ = m.Revalidate(ctx)
			assert.Equal(t, tt.wantAuthd, m.IsAuthenticated())
		})
	}
}

func TestLogoutAndAuthFailure(t *testing.T) {
	ctx := context.Background()
	clk := newClock()
	store := NewMemoryStore(&Record{Token: "tok", User: alice, ExpiresAt: clk.Now().Add(time.Hour)})
	auth := &mockAuth{}
	auth.On("Logout", mock.Anything).Return(apperr.FromTransport(context.DeadlineExceeded))
	m := NewManager(store, auth, WithClock(clk.Now))
	require.NoError(t, m.Init(ctx))

	require.NoError(t, m.Logout(ctx), "server logout failure does not block local logout")
	assert.False(t, m.IsAuthenticated())

	require.NoError(t, store.Save(ctx, Record{Token: "tok2", User: alice, ExpiresAt: clk.Now().Add(time.Hour)}))
	require.NoError(t, m.Init(ctx))
	assert.True(t, m.IsAuthenticated())
	m.HandleAuthFailure()
	assert.False(t, m.IsAuthenticated())
}

func TestRoleHelpers(t *testing.T) {
	clk := newClock()
	waiter := models.User{ID: 2, Role: models.RoleWaiter}
	m := NewManager(NewMemoryStore(&Record{Token: "t", User: waiter, ExpiresAt: clk.Now().Add(time.Hour)}), &mockAuth{}, WithClock(clk.Now))
	require.NoError(t, m.Init(context.Background()))

	assert.True(t, m.IsStaff())
	assert.False(t, m.IsAdmin())
	assert.True(t, m.HasAnyRole(models.RoleWaiter, models.RoleAdmin))
	assert.False(t, m.HasAnyRole(models.RoleKitchenStaff))

	assert.NoError(t, middleware.RequireRole(m, models.RoleWaiter))
	assert.True(t, apperr.Is(middleware.RequireRole(m, models.RoleAdmin), apperr.KindAuthorization))

	anon := NewManager(NewMemoryStore(nil), &mockAuth{})
	require.NoError(t, anon.Init(context.Background()))
	assert.True(t, apperr.Is(middleware.RequireRole(anon, models.RoleWaiter), apperr.KindAuthentication))
}

func TestRun_StopsOnCancel(t *testing.T) {
	m := NewManager(NewMemoryStore(nil), &mockAuth{}, WithCheckInterval(time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()
	time.Sleep(5 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestSubscribe_ConcurrentWithBroadcasts(t *testing.T) {
	ctx := context.Background()
	clk := newClock()
	store := NewMemoryStore(&Record{Token: "tok", User: alice, ExpiresAt: clk.Now().Add(time.Hour)})
	m := NewManager(store, &mockAuth{}, WithClock(clk.Now))

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				_ = m.Init(ctx)
			}
		}
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 2000; i++ {
			ch, unsubscribe := m.Subscribe()
			<-ch
			unsubscribe()
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Subscribe blocked against concurrent broadcasts")
	}
	close(stop)
	wg.Wait()
}
