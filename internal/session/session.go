// Package session manages the authenticated user: restore on start-up,
// login, logout and registration. The cached user is treated as a hint;
// the server session cookie is the source of truth.
package session

import (
	"context"
	"encoding/json"
	"sync"

	"canteen-client/internal/model"
	"canteen-client/internal/storage"

	"github.com/rs/zerolog"
)

// Authenticator is the slice of the API client used for session calls.
type Authenticator interface {
	CurrentUser(ctx context.Context) (*model.User, error)
	Login(ctx context.Context, email, password, userType string) (*model.User, error)
	Logout(ctx context.Context) error
	Register(ctx context.Context, r model.RegisterRequest) error
}

// Session holds the current user and keeps the storage mirror in sync.
type Session struct {
	api     Authenticator
	storage storage.Store
	logger  zerolog.Logger

	mu   sync.RWMutex
	user *model.User

	// onLogout hooks run after the local user is cleared, before the
	// server call result is known.
	onLogout []func()
}

// New creates a session backed by the given API client and storage.
func New(api Authenticator, st storage.Store, logger zerolog.Logger) *Session {
	return &Session{
		api:     api,
		storage: st,
		logger:  logger.With().Str("component", "session").Logger(),
	}
}

// OnLogout registers a hook invoked whenever the session ends, whether
// by explicit logout or by server-side invalidation detected during
// Restore.
func (s *Session) OnLogout(fn func()) {
	s.mu.Lock()
	s.onLogout = append(s.onLogout, fn)
	s.mu.Unlock()
}

// User returns the current user, or nil when not logged in.
func (s *Session) User() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// LoggedIn reports whether a user is present.
func (s *Session) LoggedIn() bool {
	return s.User() != nil
}

// RequireStaff returns the current user if they hold staff privileges.
func (s *Session) RequireStaff() (*model.User, error) {
	u := s.User()
	if u == nil {
		return nil, model.ErrNotAuthenticated
	}
	if !u.Staff() {
		return nil, model.ErrStaffRequired
	}
	return u, nil
}

// Restore loads the cached user for immediate display, then verifies it
// against the server. A verified user replaces the cached one; a
// definitive "not logged in" answer clears the stale cache. When the
// server is unreachable the cached user is kept so the client stays
// usable offline.
func (s *Session) Restore(ctx context.Context) *model.User {
	cached := s.loadCached()
	if cached != nil {
		s.setUser(cached, false)
	}

	verified, err := s.api.CurrentUser(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("cannot verify session, keeping cached user")
		return s.User()
	}

	if verified == nil {
		if cached != nil {
			s.logger.Info().Msg("server session expired, clearing cached user")
			s.clear()
		}
		return nil
	}

	s.setUser(verified, true)
	return verified
}

// Login authenticates and caches the user.
func (s *Session) Login(ctx context.Context, email, password, userType string) (*model.User, error) {
	user, err := s.api.Login(ctx, email, password, userType)
	if err != nil {
		return nil, err
	}
	s.setUser(user, true)
	s.logger.Info().Str("username", user.Username).Msg("session started")
	return user, nil
}

// Logout ends the session. Local state is cleared first so the client
// is logged out even when the server call fails.
func (s *Session) Logout(ctx context.Context) error {
	s.clear()
	if err := s.api.Logout(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("server logout failed, local session cleared anyway")
		return err
	}
	return nil
}

// Register creates an account. Password rules are checked locally so
// obvious mistakes never leave the client.
func (s *Session) Register(ctx context.Context, r model.RegisterRequest) error {
	if len(r.Password) < 8 {
		return model.ErrPasswordTooShort
	}
	if r.Password != r.ConfirmPassword {
		return model.ErrPasswordMismatch
	}
	return s.api.Register(ctx, r)
}

// setUser installs u as the current user, persisting it when asked.
func (s *Session) setUser(u *model.User, persist bool) {
	s.mu.Lock()
	s.user = u
	s.mu.Unlock()

	if !persist {
		return
	}
	raw, err := json.Marshal(u)
	if err != nil {
		s.logger.Warn().Err(err).Msg("cannot serialise user for cache")
		return
	}
	if err := s.storage.Set(storage.KeyUser, raw); err != nil {
		s.logger.Warn().Err(err).Msg("cannot cache user")
	}
}

// clear drops the current user, its cache entry and runs logout hooks.
func (s *Session) clear() {
	s.mu.Lock()
	s.user = nil
	hooks := s.onLogout
	s.mu.Unlock()

	if err := s.storage.Delete(storage.KeyUser); err != nil {
		s.logger.Warn().Err(err).Msg("cannot remove cached user")
	}
	for _, fn := range hooks {
		fn()
	}
}

// loadCached reads the cached user from storage. A malformed cache entry
// is discarded.
func (s *Session) loadCached() *model.User {
	raw, ok := s.storage.Get(storage.KeyUser)
	if !ok {
		return nil
	}
	var u model.User
	if err := json.Unmarshal(raw, &u); err != nil {
		s.logger.Warn().Err(err).Msg("cached user is corrupt, discarding")
		if err := s.storage.Delete(storage.KeyUser); err != nil {
			s.logger.Warn().Err(err).Msg("cannot remove corrupt cached user")
		}
		return nil
	}
	if u.ID == 0 && u.Username == "" && u.Email == "" {
		return nil
	}
	return &u
}
