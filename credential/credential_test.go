package credential

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/adminkit/config"
	"github.com/kbukum/adminkit/encryption"
	apperrors "github.com/kbukum/adminkit/errors"
)

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestStatic(t *testing.T) {
	ctx := context.Background()

	tok, err := Static("abc").Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	_, err = Static("").Token(ctx)
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestEnv(t *testing.T) {
	ctx := context.Background()
	env := NewEnv("ADMINKIT_TEST_TOKEN")

	t.Setenv("ADMINKIT_TEST_TOKEN", "  from-env \n")
	tok, err := env.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "from-env", tok)

	t.Setenv("ADMINKIT_TEST_TOKEN", "")
	_, err = env.Token(ctx)
	assert.ErrorIs(t, err, ErrNoToken)

	assert.ErrorIs(t, env.Save(ctx, "x"), ErrReadOnly)
	assert.ErrorIs(t, env.Clear(ctx), ErrReadOnly)
}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory("")

	_, err := m.Token(ctx)
	assert.ErrorIs(t, err, ErrNoToken)

	require.NoError(t, m.Save(ctx, "t1"))
	tok, err := m.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "t1", tok)

	require.NoError(t, m.Clear(ctx))
	_, err = m.Token(ctx)
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "token")
	s := NewFileStore(path)

	_, err := s.Token(ctx)
	assert.ErrorIs(t, err, ErrNoToken, "missing file means no token")

	require.NoError(t, s.Save(ctx, "plain-token"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	tok, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "plain-token", tok)

	require.NoError(t, s.Clear(ctx))
	_, err = s.Token(ctx)
	assert.ErrorIs(t, err, ErrNoToken)

	assert.NoError(t, s.Clear(ctx), "clearing twice is fine")
}

func TestFileStore_Sealed(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "token")

	sealer, err := encryption.New("passphrase")
	require.NoError(t, err)

	s := NewFileStore(path, WithEncryptor(sealer))
	require.NoError(t, s.Save(ctx, "secret-token"))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret-token")
	assert.True(t, encryption.IsSealed(string(raw[:len(raw)-1])))

	tok, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "secret-token", tok)

	_, err = NewFileStore(path).Token(ctx)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeCredentialUnavailable))
}

func TestFileStore_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("\n"), 0o600))

	_, err := NewFileStore(path).Token(context.Background())
	assert.ErrorIs(t, err, ErrNoToken)
}

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mini := miniredis.RunT(t)
	s, err := NewRedisStore(RedisConfig{Addr: mini.Addr(), Key: "test:token"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, mini
}

func TestRedisStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, mini := newRedisStore(t)

	require.NoError(t, s.Ping(ctx))

	_, err := s.Token(ctx)
	assert.ErrorIs(t, err, ErrNoToken)

	require.NoError(t, s.Save(ctx, "opaque"))
	got, err := mini.Get("test:token")
	require.NoError(t, err)
	assert.Equal(t, "opaque", got)
	assert.Zero(t, mini.TTL("test:token"), "opaque tokens never expire")

	tok, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "opaque", tok)

	require.NoError(t, s.Clear(ctx))
	assert.False(t, mini.Exists("test:token"))
}

func TestRedisStore_JWTExpirySetsTTL(t *testing.T) {
	ctx := context.Background()
	s, mini := newRedisStore(t)

	token := signToken(t, jwt.MapClaims{"sub": "u1", "exp": time.Now().Add(time.Hour).Unix()})
	require.NoError(t, s.Save(ctx, token))

	ttl := mini.TTL("test:token")
	assert.Greater(t, ttl, 50*time.Minute)
	assert.LessOrEqual(t, ttl, time.Hour)

	mini.FastForward(2 * time.Hour)
	_, err := s.Token(ctx)
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestRedisStore_ExpiredTokenNotStored(t *testing.T) {
	ctx := context.Background()
	s, mini := newRedisStore(t)

	token := signToken(t, jwt.MapClaims{"sub": "u1", "exp": time.Now().Add(-time.Minute).Unix()})
	err := s.Save(ctx, token)
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.False(t, mini.Exists("test:token"))

	_, err = s.Token(ctx)
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestRedisStore_Unavailable(t *testing.T) {
	mini, err := miniredis.Run()
	require.NoError(t, err)
	s, err := NewRedisStore(RedisConfig{Addr: mini.Addr(), DialTimeout: 100 * time.Millisecond})
	require.NoError(t, err)
	defer s.Close()
	mini.Close()

	_, err = s.Token(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeCredentialUnavailable))
}

func TestNewRedisStore_RequiresAddr(t *testing.T) {
	_, err := NewRedisStore(RedisConfig{})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeConfigInvalid))
}

func TestInspect(t *testing.T) {
	exp := time.Now().Add(-time.Minute).Truncate(time.Second)
	token := signToken(t, jwt.MapClaims{
		"id":    "665f",
		"email": "admin@example.com",
		"role":  "admin",
		"exp":   exp.Unix(),
	})

	c, err := Inspect(token)
	require.NoError(t, err)
	assert.Equal(t, "665f", c.Subject)
	assert.Equal(t, "admin@example.com", c.Email)
	assert.Equal(t, "admin", c.Role)
	assert.True(t, c.ExpiresAt.Equal(exp))
	assert.True(t, c.Expired(time.Now()))

	_, err = Inspect("not-a-jwt")
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	t.Run("file with encryption", func(t *testing.T) {
		s, err := Open(config.CredentialConfig{
			Backend:       config.BackendFile,
			Path:          filepath.Join(t.TempDir(), "token"),
			EncryptionKey: "k",
		})
		require.NoError(t, err)
		fs, ok := s.(*FileStore)
		require.True(t, ok)
		assert.NotNil(t, fs.sealer)
	})

	t.Run("env", func(t *testing.T) {
		s, err := Open(config.CredentialConfig{Backend: config.BackendEnv, EnvVar: "X"})
		require.NoError(t, err)
		assert.IsType(t, &Env{}, s)
	})

	t.Run("redis", func(t *testing.T) {
		mini := miniredis.RunT(t)
		s, err := Open(config.CredentialConfig{
			Backend: config.BackendRedis,
			Redis:   config.RedisConfig{Addr: mini.Addr(), Key: "k"},
		})
		require.NoError(t, err)
		assert.Equal(t, "k", s.(*RedisStore).Key())
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := Open(config.CredentialConfig{Backend: "vault"})
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeConfigInvalid))
	})
}
