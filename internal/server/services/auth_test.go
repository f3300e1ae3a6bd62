package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/cryptox"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/gophauth/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- helpers ---

type logEntry struct {
	level string
	msg   string
	args  []any
}

type recordingLogger struct {
	mu      *sync.Mutex
	entries *[]logEntry
	with    []any
}

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{mu: &sync.Mutex{}, entries: &[]logEntry{}}
}

func (l *recordingLogger) add(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.entries = append(*l.entries, logEntry{level: level, msg: msg, args: append(append([]any{}, l.with...), args...)})
}

func (l *recordingLogger) Debug(_ context.Context, msg string, args ...any) { l.add("debug", msg, args) }
func (l *recordingLogger) Info(_ context.Context, msg string, args ...any)  { l.add("info", msg, args) }
func (l *recordingLogger) Warn(_ context.Context, msg string, args ...any)  { l.add("warn", msg, args) }
func (l *recordingLogger) Error(_ context.Context, msg string, args ...any) { l.add("error", msg, args) }
func (l *recordingLogger) With(args ...any) logging.Logger {
	return &recordingLogger{mu: l.mu, entries: l.entries, with: append(append([]any{}, l.with...), args...)}
}

// reasons returns the "reason" attribute of every warn entry.
func (l *recordingLogger) reasons() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for _, e := range *l.entries {
		if e.level != "warn" {
			continue
		}
		for i := 0; i+1 < len(e.args); i += 2 {
			if e.args[i] == "reason" {
				out = append(out, e.args[i+1].(string))
			}
		}
	}
	return out
}

func (l *recordingLogger) contains(s string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range *l.entries {
		for _, a := range e.args {
			if str, ok := a.(string); ok && strings.Contains(str, s) {
				return true
			}
		}
	}
	return false
}

func newTestService(t *testing.T) (*AuthService, *accounts.MemoryRepository, *recordingLogger) {
	t.Helper()
	repo := accounts.NewMemoryRepository()
	log := newRecordingLogger()
	svc, err := NewAuthService(repo, cryptox.NewBcryptHasher(bcrypt.MinCost), auth.NewTokenIssuer([]byte("k"), 0), log)
	require.NoError(t, err)
	return svc, repo, log
}

type stubRepo struct {
	existsOut bool
	existsErr error
	createErr error
	findOut   *models.Account
	findErr   error
}

func (s *stubRepo) Exists(context.Context, string) (bool, error) { return s.existsOut, s.existsErr }
func (s *stubRepo) Create(_ context.Context, u, h string) (*models.Account, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &models.Account{ID: "id", Username: u, PasswordHash: h}, nil
}
func (s *stubRepo) Find(context.Context, string) (*models.Account, error) { return s.findOut, s.findErr }
func (s *stubRepo) Close() error                                          { return nil }

func reasonOf(t *testing.T, err error) string {
	t.Helper()
	require.ErrorIs(t, err, common.ErrInvalidInput)
	r, ok := validation.Reason(err)
	require.True(t, ok)
	return r
}

// --- Register ---

func TestRegister_Examples(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	err := svc.Register(ctx, "alice", "weak")
	assert.Equal(t, validation.MsgPasswordTooShort, reasonOf(t, err))
	assert.Equal(t, 0, repo.Len(), "validation failure has no side effect")

	require.NoError(t, svc.Register(ctx, "alice", "Abcdef1!"))

	err = svc.Register(ctx, "alice", "Abcdef2@")
	assert.ErrorIs(t, err, common.ErrDuplicateUsername)
	assert.Equal(t, 1, repo.Len())
}

func TestRegister_RuleOrder(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		password string
		want     string
	}{
		{"", validation.MsgFillAllFields},
		{"abc", validation.MsgPasswordTooShort},
		{"abcdefgh", validation.MsgMissingUpper},
		{"ABCDEFGH", validation.MsgMissingLower},
		{"Abcdefgh", validation.MsgMissingDigit},
		{"Abcdefg1", validation.MsgMissingSpecial},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, reasonOf(t, svc.Register(ctx, "bob", tt.password)), tt.password)
	}
}

func TestRegister_StoresHashNotPassword(t *testing.T) {
	svc, repo, log := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "carol", "Abcdef1!"))

	acc, err := repo.Find(ctx, "carol")
	require.NoError(t, err)
	assert.NotEqual(t, "Abcdef1!", acc.PasswordHash)
	assert.True(t, strings.HasPrefix(acc.PasswordHash, "$2a$"))
	assert.False(t, log.contains("Abcdef1!"), "password must never be logged")
}

func TestRegister_PasswordTooLongForBcrypt(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.Register(context.Background(), "dave", "Aa1!"+strings.Repeat("x", 80))
	assert.Equal(t, MsgPasswordTooLong, reasonOf(t, err))
}

func TestRegister_StoreFailures(t *testing.T) {
	hasher := cryptox.NewBcryptHasher(bcrypt.MinCost)
	issuer := auth.NewTokenIssuer([]byte("k"), 0)
	ctx := context.Background()

	t.Run("exists error", func(t *testing.T) {
		svc, err := NewAuthService(&stubRepo{existsErr: errors.New("down")}, hasher, issuer, newRecordingLogger())
		require.NoError(t, err)
		err = svc.Register(ctx, "eve", "Abcdef1!")
		require.Error(t, err)
		assert.NotErrorIs(t, err, common.ErrDuplicateUsername)
	})

	t.Run("lost race to another writer", func(t *testing.T) {
		svc, err := NewAuthService(&stubRepo{createErr: common.ErrDuplicateUsername}, hasher, issuer, newRecordingLogger())
		require.NoError(t, err)
		assert.ErrorIs(t, svc.Register(ctx, "eve", "Abcdef1!"), common.ErrDuplicateUsername)
	})

	t.Run("create error", func(t *testing.T) {
		svc, err := NewAuthService(&stubRepo{createErr: errors.New("disk full")}, hasher, issuer, newRecordingLogger())
		require.NoError(t, err)
		err = svc.Register(ctx, "eve", "Abcdef1!")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
	})
}

func TestRegister_ConcurrentSameUsername(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	const workers = 8
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- svc.Register(ctx, "racer", "Abcdef1!")
		}()
	}
	wg.Wait()
	close(errs)

	var ok, dup int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, common.ErrDuplicateUsername):
			dup++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, workers-1, dup)
	assert.Equal(t, 1, repo.Len())
}

// --- Login ---

func TestLogin_RoundTrip(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "alice", "Abcdef1!"))

	token, err := svc.Login(ctx, "alice", "Abcdef1!")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	id, err := svc.VerifyToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "alice", id.Username)
	assert.False(t, id.IssuedAt.IsZero())

	_, err = svc.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, common.ErrAuthenticationFailed)
}

func TestLogin_UnknownAndWrongLookTheSame(t *testing.T) {
	svc, _, log := newTestService(t)
	ctx := context.Background()
	require.NoError(t, svc.Register(ctx, "alice", "Abcdef1!"))

	_, errUnknown := svc.Login(ctx, "nobody", "Abcdef1!")
	_, errWrong := svc.Login(ctx, "alice", "Abcdef1?")

	require.ErrorIs(t, errUnknown, common.ErrAuthenticationFailed)
	require.ErrorIs(t, errWrong, common.ErrAuthenticationFailed)
	assert.Equal(t, errUnknown.Error(), errWrong.Error())

	assert.Equal(t, []string{"unknown_user", "wrong_password"}, log.reasons())
	assert.False(t, log.contains("Abcdef1?"))
}

func TestLogin_MissingFields(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, "", "x")
	assert.Equal(t, validation.MsgFillAllFields, reasonOf(t, err))

	_, err = svc.Login(ctx, "alice", "")
	assert.Equal(t, validation.MsgFillAllFields, reasonOf(t, err))
}

func TestLogin_NoStrengthCheck(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Login(context.Background(), "ghost", "weak")
	assert.ErrorIs(t, err, common.ErrAuthenticationFailed)
}

func TestLogin_StoreAndHashFailures(t *testing.T) {
	hasher := cryptox.NewBcryptHasher(bcrypt.MinCost)
	issuer := auth.NewTokenIssuer([]byte("k"), 0)
	ctx := context.Background()

	t.Run("find error", func(t *testing.T) {
		svc, err := NewAuthService(&stubRepo{findErr: errors.New("timeout")}, hasher, issuer, newRecordingLogger())
		require.NoError(t, err)
		_, err = svc.Login(ctx, "alice", "Abcdef1!")
		require.Error(t, err)
		assert.NotErrorIs(t, err, common.ErrAuthenticationFailed)
	})

	t.Run("corrupt stored hash", func(t *testing.T) {
		repo := &stubRepo{findOut: &models.Account{Username: "alice", PasswordHash: "garbage"}}
		svc, err := NewAuthService(repo, hasher, issuer, newRecordingLogger())
		require.NoError(t, err)
		_, err = svc.Login(ctx, "alice", "Abcdef1!")
		require.Error(t, err)
		assert.ErrorIs(t, err, cryptox.ErrMalformedHash)
	})
}

func TestLogin_Argon2RoundTrip(t *testing.T) {
	repo := accounts.NewMemoryRepository()
	svc, err := NewAuthService(repo, cryptox.NewArgon2Hasher(), auth.NewTokenIssuer([]byte("k"), 0), newRecordingLogger())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "alice", "Abcdef1!"))
	_, err = svc.Login(ctx, "alice", "Abcdef1!")
	require.NoError(t, err)
	_, err = svc.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, common.ErrAuthenticationFailed)
}

func TestLogin_TamperedArgon2Params(t *testing.T) {
	ctx := context.Background()
	for _, stored := range []string{
		"$argon2id$v=19$m=65536,t=1,p=0$c2FsdHNhbHRzYWx0$aGFzaGhhc2hoYXNo",
		"$argon2id$v=19$m=4294967295,t=1,p=4$c2FsdHNhbHRzYWx0$aGFzaGhhc2hoYXNo",
	} {
		repo := &stubRepo{findOut: &models.Account{Username: "alice", PasswordHash: stored}}
		svc, err := NewAuthService(repo, cryptox.NewArgon2Hasher(), auth.NewTokenIssuer([]byte("k"), 0), newRecordingLogger())
		require.NoError(t, err)

		require.NotPanics(t, func() { _, err = svc.Login(ctx, "alice", "Abcdef1!") }, stored)
		assert.ErrorIs(t, err, cryptox.ErrMalformedHash, stored)
	}
}

// --- VerifyToken ---

func TestVerifyToken_Rejects(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.VerifyToken(ctx, "")
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	_, err = svc.VerifyToken(ctx, "abc.def.ghi")
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	other, err := auth.NewTokenIssuer([]byte("other"), 0).Issue("alice")
	require.NoError(t, err)
	_, err = svc.VerifyToken(ctx, other)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}
