// Package session holds the signed-in identity: token, user and an absolute
// expiry, persisted in durable client storage and revalidated before expiry.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Sam414141/Digital-MenuCard-sub001/apperr"
	"github.com/Sam414141/Digital-MenuCard-sub001/logger"
	"github.com/Sam414141/Digital-MenuCard-sub001/middleware"
	"github.com/Sam414141/Digital-MenuCard-sub001/models"
)

// Authenticator is the slice of the backend the session needs
type Authenticator interface {
	Login(ctx context.Context, req models.LoginRequest) (models.AuthResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error)
	Verify(ctx context.Context) (models.AuthResponse, error)
	Logout(ctx context.Context) error
}

// Identity is what dependent views are told whenever the session changes
type Identity struct {
	Authenticated bool
	User          models.User
	SessionID     string
	ExpiresAt     time.Time
}

const (
	DefaultTTL           = 24 * time.Hour
	DefaultRefreshWindow = 10 * time.Minute
	DefaultCheckInterval = time.Minute
)

type Manager struct {
	store Store
	auth  Authenticator
	now   func() time.Time
	log   *logger.Logger

	ttl           time.Duration
	refreshWindow time.Duration
	checkInterval time.Duration

	mu  sync.RWMutex
	rec *Record

	subsMu  sync.Mutex
	subs    map[int]chan Identity
	nextSub int
}

type Option func(*Manager)

func WithTTL(d time.Duration) Option           { return func(m *Manager) { m.ttl = d } }
func WithRefreshWindow(d time.Duration) Option { return func(m *Manager) { m.refreshWindow = d } }
func WithCheckInterval(d time.Duration) Option { return func(m *Manager) { m.checkInterval = d } }

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option { return func(m *Manager) { m.now = now } }

func NewManager(store Store, auth Authenticator, opts ...Option) *Manager {
	m := &Manager{
		store:         store,
		auth:          auth,
		now:           time.Now,
		log:           logger.New("session"),
		ttl:           DefaultTTL,
		refreshWindow: DefaultRefreshWindow,
		checkInterval: DefaultCheckInterval,
		subs:          make(map[int]chan Identity),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Init restores the persisted session. A missing or expired record leaves
// the user logged out; an expired record is removed from storage.
func (m *Manager) Init(ctx context.Context) error {
	rec, err := m.store.Load(ctx)
	if err != nil {
		return err
	}
	if rec != nil && rec.Expired(m.now()) {
		m.log.Info("session_expired_on_startup", map[string]any{"session_id": rec.SessionID})
		if err := m.store.Clear(ctx); err != nil {
			return err
		}
		rec = nil
	}
	m.mu.Lock()
	m.rec = rec
	m.mu.Unlock()
	m.broadcast()
	return nil
}

// Login signs in. On failure the stored session is left as it was.
func (m *Manager) Login(ctx context.Context, email, password string) (models.User, error) {
	res, err := m.auth.Login(ctx, models.LoginRequest{Email: email, Password: password})
	if err != nil {
		return models.User{}, err
	}
	if err := m.establish(ctx, res); err != nil {
		return models.User{}, err
	}
	return res.User, nil
}

// Register creates a customer account and signs it in
func (m *Manager) Register(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	res, err := m.auth.Register(ctx, req)
	if err != nil {
		return models.User{}, err
	}
	if err := m.establish(ctx, res); err != nil {
		return models.User{}, err
	}
	return res.User, nil
}

func (m *Manager) establish(ctx context.Context, res models.AuthResponse) error {
	rec := Record{
		Token:     res.Token,
		User:      res.User,
		SessionID: uuid.NewString(),
		ExpiresAt: m.expiryFor(res.Token),
	}
	if err := m.store.Save(ctx, rec); err != nil {
		return err
	}
	m.mu.Lock()
	m.rec = &rec
	m.mu.Unlock()
	m.log.Info("session_started", map[string]any{"user_id": rec.User.ID, "role": rec.User.Role, "session_id": rec.SessionID})
	m.broadcast()
	return nil
}

// expiryFor is now+TTL, pulled in if the token itself expires earlier
func (m *Manager) expiryFor(token string) time.Time {
	exp := m.now().Add(m.ttl)
	if tokExp, ok := middleware.TokenExpiry(token); ok && tokExp.Before(exp) {
		return tokExp
	}
	return exp
}

// Logout tells the server (best-effort) and clears the local session
func (m *Manager) Logout(ctx context.Context) error {
	if m.IsAuthenticated() {
		if err := m.auth.Logout(ctx); err != nil {
			m.log.Warn("server_logout_failed", err, nil)
		}
	}
	return m.clear(ctx)
}

// HandleAuthFailure is the error handler's callback for 401s: drop the
// token and tell every view the user is logged out.
func (m *Manager) HandleAuthFailure() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.clear(ctx); err != nil {
		m.log.Error("session_clear_failed", err, nil)
	}
}

func (m *Manager) clear(ctx context.Context) error {
	m.mu.Lock()
	had := m.rec != nil
	m.rec = nil
	m.mu.Unlock()
	err := m.store.Clear(ctx)
	if had {
		m.log.Info("session_cleared", nil)
		m.broadcast()
	}
	return err
}

// Check runs one expiry check: past expiry clears the session, inside the
// refresh window revalidates it with the backend.
func (m *Manager) Check(ctx context.Context) error {
	m.mu.RLock()
	rec := m.rec
	m.mu.RUnlock()
	if rec == nil {
		return nil
	}
	remaining := rec.ExpiresAt.Sub(m.now())
	if remaining <= 0 {
		m.log.Info("session_expired", map[string]any{"session_id": rec.SessionID})
		return m.clear(ctx)
	}
	if remaining < m.refreshWindow {
		return m.Revalidate(ctx)
	}
	return nil
}

// Revalidate asks the backend whether the token is still good. A rejected
// token clears the session; a transport failure keeps it until hard expiry.
func (m *Manager) Revalidate(ctx context.Context) error {
	res, err := m.auth.Verify(ctx)
	if err != nil {
		if apperr.Is(err, apperr.KindAuthentication) {
			return m.clear(ctx)
		}
		m.log.Warn("session_revalidate_failed", err, nil)
		return err
	}

	m.mu.Lock()
	if m.rec == nil {
		m.mu.Unlock()
		return nil
	}
	rec := *m.rec
	if res.Token != "" {
		rec.Token = res.Token
	}
	if res.User.ID != 0 {
		rec.User = res.User
	}
	rec.ExpiresAt = m.expiryFor(rec.Token)
	m.rec = &rec
	m.mu.Unlock()

	if err := m.store.Save(ctx, rec); err != nil {
		return err
	}
	m.log.Debug("session_revalidated", map[string]any{"expires_at": rec.ExpiresAt})
	m.broadcast()
	return nil
}

// Run checks the session every check interval until ctx is done
func (m *Manager) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.checkInterval)
	defer ticker.Stop()
	for {
		if err := m.Check(ctx); err != nil && ctx.Err() == nil {
			m.log.Debug("session_check_failed", map[string]any{"error": err.Error()})
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Subscribe returns a channel that receives the current identity now and
// after every change. Slow readers only ever see the latest identity.
func (m *Manager) Subscribe() (<-chan Identity, func()) {
	ch := make(chan Identity, 1)
	m.subsMu.Lock()
	ch <- m.Identity()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = ch
	m.subsMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.subsMu.Lock()
			delete(m.subs, id)
			m.subsMu.Unlock()
			close(ch)
		})
	}
}

func (m *Manager) broadcast() {
	ident := m.Identity()
	m.subsMu.Lock()
	defer m.subsMu.Unlock()
	for _, ch := range m.subs {
		select {
		case <-ch:
		default:
		}
		ch <- ident
	}
}

// Identity snapshots the current session
func (m *Manager) Identity() Identity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.rec == nil || m.rec.Expired(m.now()) {
		return Identity{}
	}
	return Identity{Authenticated: true, User: m.rec.User, SessionID: m.rec.SessionID, ExpiresAt: m.rec.ExpiresAt}
}

// Token implements api.TokenSource. It is empty once the session is past
// its expiry even if the timer has not fired yet.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.rec == nil || m.rec.Expired(m.now()) {
		return ""
	}
	return m.rec.Token
}

func (m *Manager) User() (models.User, bool) {
	id := m.Identity()
	return id.User, id.Authenticated
}

func (m *Manager) IsAuthenticated() bool { return m.Identity().Authenticated }

func (m *Manager) HasAnyRole(roles ...models.UserRole) bool {
	id := m.Identity()
	if !id.Authenticated {
		return false
	}
	for _, r := range roles {
		if id.User.Role == r {
			return true
		}
	}
	return false
}

func (m *Manager) IsAdmin() bool { return m.HasAnyRole(models.RoleAdmin) }

func (m *Manager) IsStaff() bool {
	return m.HasAnyRole(models.RoleWaiter, models.RoleKitchenStaff, models.RoleAdmin)
}
