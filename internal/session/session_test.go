package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"canteen-client/internal/model"
	"canteen-client/internal/storage"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string][]byte{}}
}

func (m *memoryStore) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *memoryStore) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memoryStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// fakeAuth scripts the API client behaviour per test.
type fakeAuth struct {
	currentUser func(ctx context.Context) (*model.User, error)
	login       func(ctx context.Context, email, password, userType string) (*model.User, error)
	logout      func(ctx context.Context) error
	register    func(ctx context.Context, r model.RegisterRequest) error

	registerCalls int
}

func (f *fakeAuth) CurrentUser(ctx context.Context) (*model.User, error) {
	if f.currentUser == nil {
		return nil, nil
	}
	return f.currentUser(ctx)
}

func (f *fakeAuth) Login(ctx context.Context, email, password, userType string) (*model.User, error) {
	return f.login(ctx, email, password, userType)
}

func (f *fakeAuth) Logout(ctx context.Context) error {
	if f.logout == nil {
		return nil
	}
	return f.logout(ctx)
}

func (f *fakeAuth) Register(ctx context.Context, r model.RegisterRequest) error {
	f.registerCalls++
	if f.register == nil {
		return nil
	}
	return f.register(ctx, r)
}

func cacheUser(t *testing.T, st storage.Store, u model.User) {
	t.Helper()
	raw, err := json.Marshal(u)
	require.NoError(t, err)
	require.NoError(t, st.Set(storage.KeyUser, raw))
}

func TestSession_Restore(t *testing.T) {
	verified := &model.User{ID: 7, Username: "asha", Email: "asha@example.com"}

	tests := []struct {
		name       string
		cached     *model.User
		serverUser *model.User
		serverErr  error
		wantUser   *model.User
		wantCached bool
	}{
		{
			name:       "Verified user replaces cache",
			cached:     &model.User{ID: 7, Username: "stale"},
			serverUser: verified,
			wantUser:   verified,
			wantCached: true,
		},
		{
			name:       "Expired server session clears cache",
			cached:     &model.User{ID: 7, Username: "asha"},
			serverUser: nil,
			wantUser:   nil,
			wantCached: false,
		},
		{
			name:       "Unreachable server keeps cached user",
			cached:     &model.User{ID: 7, Username: "asha"},
			serverErr:  errors.New("connection refused"),
			wantUser:   &model.User{ID: 7, Username: "asha"},
			wantCached: true,
		},
		{
			name:       "No cache, no server session",
			serverUser: nil,
			wantUser:   nil,
			wantCached: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newMemoryStore()
			if tt.cached != nil {
				cacheUser(t, st, *tt.cached)
			}
			api := &fakeAuth{currentUser: func(context.Context) (*model.User, error) {
				return tt.serverUser, tt.serverErr
			}}
			s := New(api, st, zerolog.Nop())

			got := s.Restore(context.Background())
			assert.Equal(t, tt.wantUser, got)
			assert.Equal(t, tt.wantUser, s.User())

			_, ok := st.Get(storage.KeyUser)
			assert.Equal(t, tt.wantCached, ok)
		})
	}
}

func TestSession_Restore_CorruptCacheDiscarded(t *testing.T) {
	st := newMemoryStore()
	require.NoError(t, st.Set(storage.KeyUser, []byte(`{"id":"not-a-number"`)))
	api := &fakeAuth{}
	s := New(api, st, zerolog.Nop())

	assert.Nil(t, s.Restore(context.Background()))
	_, ok := st.Get(storage.KeyUser)
	assert.False(t, ok)
}

func TestSession_LoginCachesUser(t *testing.T) {
	st := newMemoryStore()
	api := &fakeAuth{login: func(_ context.Context, email, password, userType string) (*model.User, error) {
		assert.Equal(t, "asha@example.com", email)
		assert.Equal(t, model.UserTypeStudent, userType)
		return &model.User{ID: 7, Username: "asha"}, nil
	}}
	s := New(api, st, zerolog.Nop())

	user, err := s.Login(context.Background(), "asha@example.com", "pw", model.UserTypeStudent)
	require.NoError(t, err)
	assert.True(t, s.LoggedIn())
	assert.Equal(t, user, s.User())

	raw, ok := st.Get(storage.KeyUser)
	require.True(t, ok)
	var cached model.User
	require.NoError(t, json.Unmarshal(raw, &cached))
	assert.Equal(t, "asha", cached.Username)
}

func TestSession_LoginFailureLeavesSessionEmpty(t *testing.T) {
	st := newMemoryStore()
	api := &fakeAuth{login: func(context.Context, string, string, string) (*model.User, error) {
		return nil, &model.APIError{StatusCode: 401, Message: "Invalid credentials"}
	}}
	s := New(api, st, zerolog.Nop())

	_, err := s.Login(context.Background(), "a@b.c", "wrong", model.UserTypeStudent)
	require.EqualError(t, err, "Invalid credentials")
	assert.False(t, s.LoggedIn())
	_, ok := st.Get(storage.KeyUser)
	assert.False(t, ok)
}

func TestSession_LogoutClearsLocalStateAndRunsHooks(t *testing.T) {
	st := newMemoryStore()
	api := &fakeAuth{login: func(context.Context, string, string, string) (*model.User, error) {
		return &model.User{ID: 7, Username: "asha"}, nil
	}}
	s := New(api, st, zerolog.Nop())

	hookRuns := 0
	s.OnLogout(func() { hookRuns++ })

	_, err := s.Login(context.Background(), "a@b.c", "pw", model.UserTypeStudent)
	require.NoError(t, err)

	require.NoError(t, s.Logout(context.Background()))
	assert.False(t, s.LoggedIn())
	assert.Equal(t, 1, hookRuns)
	_, ok := st.Get(storage.KeyUser)
	assert.False(t, ok)
}

func TestSession_LogoutServerFailureStillClearsLocally(t *testing.T) {
	st := newMemoryStore()
	cacheUser(t, st, model.User{ID: 7, Username: "asha"})
	api := &fakeAuth{
		currentUser: func(context.Context) (*model.User, error) {
			return &model.User{ID: 7, Username: "asha"}, nil
		},
		logout: func(context.Context) error { return errors.New("connection refused") },
	}
	s := New(api, st, zerolog.Nop())
	s.Restore(context.Background())
	require.True(t, s.LoggedIn())

	err := s.Logout(context.Background())
	require.Error(t, err)
	assert.False(t, s.LoggedIn())
	_, ok := st.Get(storage.KeyUser)
	assert.False(t, ok)
}

func TestSession_RequireStaff(t *testing.T) {
	tests := []struct {
		name    string
		user    *model.User
		wantErr error
	}{
		{name: "Not logged in", user: nil, wantErr: model.ErrNotAuthenticated},
		{name: "Student", user: &model.User{ID: 1, Username: "s"}, wantErr: model.ErrStaffRequired},
		{name: "Staff", user: &model.User{ID: 2, Username: "k", IsStaff: true}},
		{name: "Superuser", user: &model.User{ID: 3, Username: "root", IsSuperuser: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newMemoryStore()
			api := &fakeAuth{}
			s := New(api, st, zerolog.Nop())
			if tt.user != nil {
				s.setUser(tt.user, false)
			}

			got, err := s.RequireStaff()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.user, got)
		})
	}
}

func TestSession_Register(t *testing.T) {
	tests := []struct {
		name      string
		req       model.RegisterRequest
		wantErr   error
		wantCalls int
	}{
		{
			name:    "Short password rejected locally",
			req:     model.RegisterRequest{Email: "a@b.c", Password: "short", ConfirmPassword: "short"},
			wantErr: model.ErrPasswordTooShort,
		},
		{
			name:    "Mismatched passwords rejected locally",
			req:     model.RegisterRequest{Email: "a@b.c", Password: "longenough", ConfirmPassword: "different"},
			wantErr: model.ErrPasswordMismatch,
		},
		{
			name:      "Valid request reaches the server",
			req:       model.RegisterRequest{Email: "a@b.c", Password: "longenough", ConfirmPassword: "longenough"},
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAuth{}
			s := New(api, newMemoryStore(), zerolog.Nop())

			err := s.Register(context.Background(), tt.req)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantCalls, api.registerCalls)
		})
	}
}
