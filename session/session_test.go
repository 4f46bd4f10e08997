package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/tolet/api"
	"github.com/eringen/tolet/db"
)

func newSQLiteBackend(t *testing.T) *SQLiteBackend {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	b := NewSQLiteBackend(conn, time.Hour)
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func newRedisBackend(t *testing.T) (*RedisBackend, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	b := NewRedisBackend(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "", time.Hour)
	t.Cleanup(func() { _ = b.Close() })
	return b, mr
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return tok
}

var sampleAuth = api.AuthResult{
	Token: "opaque-token",
	User:  api.User{ID: "u1", FirstName: "Asha", LastName: "Rao", Email: "asha@example.com", Role: "user"},
}

func backends(t *testing.T) map[string]Backend {
	rb, _ := newRedisBackend(t)
	return map[string]Backend{
		"sqlite": newSQLiteBackend(t),
		"redis":  rb,
	}
}

func TestLoginLoadLogout(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			m := NewManager(b)

			st, err := m.Load(ctx, "sid-1")
			require.NoError(t, err)
			assert.False(t, st.LoggedIn)

			_, err = m.Login(ctx, "sid-1", sampleAuth)
			require.NoError(t, err)

			st, err = m.Load(ctx, "sid-1")
			require.NoError(t, err)
			assert.True(t, st.LoggedIn)
			assert.Equal(t, "opaque-token", st.Token)
			require.NotNil(t, st.User)
			assert.Equal(t, "u1", st.UserID())
			assert.Equal(t, "Asha Rao", st.User.Name)

			require.NoError(t, m.Logout(ctx, "sid-1"))
			require.NoError(t, m.Logout(ctx, "sid-1"))

			st, err = m.Load(ctx, "sid-1")
			require.NoError(t, err)
			assert.False(t, st.LoggedIn)
			assert.Nil(t, st.User)
		})
	}
}

func TestRegisterLogsIn(t *testing.T) {
	m := NewManager(newSQLiteBackend(t))
	st, err := m.Register(context.Background(), "sid-2", sampleAuth)
	require.NoError(t, err)
	assert.True(t, st.LoggedIn)
}

func TestExpiredTokenReadsAsLoggedOut(t *testing.T) {
	ctx := context.Background()
	b := newSQLiteBackend(t)
	m := NewManager(b)

	res := sampleAuth
	res.Token = signedToken(t, time.Now().Add(-time.Minute))
	_, err := m.Login(ctx, "sid-3", res)
	require.NoError(t, err)

	st, err := m.Load(ctx, "sid-3")
	require.NoError(t, err)
	assert.False(t, st.LoggedIn)

	_, err = b.Load(ctx, "sid-3")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLiveTokenStaysLoggedIn(t *testing.T) {
	ctx := context.Background()
	m := NewManager(newSQLiteBackend(t))

	res := sampleAuth
	res.Token = signedToken(t, time.Now().Add(time.Hour))
	_, err := m.Login(ctx, "sid-4", res)
	require.NoError(t, err)

	st, err := m.Load(ctx, "sid-4")
	require.NoError(t, err)
	assert.True(t, st.LoggedIn)
}

func TestRedisTTL(t *testing.T) {
	ctx := context.Background()
	b, mr := newRedisBackend(t)
	require.NoError(t, b.Save(ctx, "sid-5", State{LoggedIn: true, Token: "x"}))
	assert.True(t, mr.Exists(DefaultRedisPrefix+"sid-5"))

	mr.FastForward(2 * time.Hour)
	_, err := b.Load(ctx, "sid-5")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLitePurge(t *testing.T) {
	ctx := context.Background()
	conn, err := db.Open(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	b := NewSQLiteBackend(conn, -time.Second)
	t.Cleanup(func() { _ = b.Close() })

	require.NoError(t, b.Save(ctx, "old", State{LoggedIn: true, Token: "x"}))
	_, err = b.Load(ctx, "old")
	assert.ErrorIs(t, err, ErrNotFound)

	n, err := b.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestCanPublish(t *testing.T) {
	assert.False(t, State{}.CanPublish())
	assert.False(t, State{LoggedIn: true, User: &UserSummary{Role: "user"}}.CanPublish())
	assert.True(t, State{LoggedIn: true, User: &UserSummary{Role: RoleContentCreator}}.CanPublish())
	assert.True(t, State{LoggedIn: true, User: &UserSummary{Role: RoleModerator}}.CanPublish())
}

func TestTokenExpired(t *testing.T) {
	now := time.Now()
	assert.True(t, tokenExpired("", now))
	assert.False(t, tokenExpired("not-a-jwt", now))
	assert.True(t, tokenExpired(signedToken(t, now.Add(-time.Second)), now))
	assert.False(t, tokenExpired(signedToken(t, now.Add(time.Minute)), now))
}
