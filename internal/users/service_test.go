package users

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/shared/auth"
)

func newTestService(t *testing.T) (*Service, *MemoryRepo, *auth.Issuer) {
	t.Helper()
	issuer, err := auth.NewIssuer("users-test-secret", time.Hour, 24*time.Hour)
	require.NoError(t, err)
	repo := NewMemoryRepo()
	return NewService(repo, issuer, NewPasswordHasher(4)), repo, issuer
}

func validSignup() SignupRequest {
	return SignupRequest{
		Email:           "ada.lovelace@example.com",
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Password:        "c0mpl3x-Engine!",
		PasswordConfirm: "c0mpl3x-Engine!",
	}
}

func TestSignupCreatesUserAndTokens(t *testing.T) {
	svc, repo, issuer := newTestService(t)

	res, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	assert.Equal(t, "ada.lovelace", res.Username)
	assert.Equal(t, "ada.lovelace@example.com", res.Email)
	assert.NotEmpty(t, res.Access)
	assert.NotEmpty(t, res.Refresh)

	claims, err := issuer.Verify(res.Access, auth.TokenAccess)
	require.NoError(t, err)
	assert.Equal(t, res.ID, claims.UserID)

	stored, err := repo.GetByID(context.Background(), res.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "c0mpl3x-Engine!", stored.PasswordHash)
	assert.True(t, svc.Hasher.Verify("c0mpl3x-Engine!", stored.PasswordHash))
}

func TestSignupPasswordMismatchCreatesNothing(t *testing.T) {
	svc, repo, _ := newTestService(t)
	req := validSignup()
	req.PasswordConfirm = "c0mpl3x-Engine?"

	_, err := svc.Signup(context.Background(), req)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, map[string]string{"password": "Passwords do not match"}, verr.Fields)
	_, err = repo.GetByEmail(context.Background(), req.Email)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSignupPasswordPolicy(t *testing.T) {
	cases := map[string]struct {
		password string
		want     string
	}{
		"numeric":   {"8675309123", "This password is entirely numeric."},
		"common":    {"password123", "This password is too common."},
		"too short": {"Ab1!", "Ensure this field has at least 8 characters."},
		"similar":   {"lovelace", "The password is too similar to the email."},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			svc, _, _ := newTestService(t)
			req := validSignup()
			req.Password = tc.password
			req.PasswordConfirm = tc.password

			_, err := svc.Signup(context.Background(), req)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
			assert.Equal(t, tc.want, verr.Fields["password"])
		})
	}
}

func TestSignupRejectsBadEmailAndDuplicates(t *testing.T) {
	svc, _, _ := newTestService(t)

	req := validSignup()
	req.Email = "not-an-email"
	_, err := svc.Signup(context.Background(), req)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Enter a valid email address.", verr.Fields["email"])

	_, err = svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	dup := validSignup()
	dup.Email = "ADA.LOVELACE@example.com"
	_, err = svc.Signup(context.Background(), dup)
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "email")
}

func TestLoginAndRefresh(t *testing.T) {
	svc, _, issuer := newTestService(t)
	created, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	pair, err := svc.Login(context.Background(), TokenRequest{Email: "ada.lovelace@example.com", Password: "c0mpl3x-Engine!"})
	require.NoError(t, err)
	claims, err := issuer.Verify(pair.Access, auth.TokenAccess)
	require.NoError(t, err)
	assert.Equal(t, created.ID, claims.UserID)

	_, err = svc.Login(context.Background(), TokenRequest{Email: "ada.lovelace@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(context.Background(), TokenRequest{Email: "nobody@example.com", Password: "whatever1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	access, err := svc.Refresh(context.Background(), RefreshRequest{Refresh: pair.Refresh})
	require.NoError(t, err)
	assert.NotEmpty(t, access)

	_, err = svc.Refresh(context.Background(), RefreshRequest{Refresh: pair.Access})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestMemoryRepoTxRollsBackOnError(t *testing.T) {
	repo := NewMemoryRepo()
	boom := errors.New("boom")

	err := repo.WithTx(context.Background(), func(tx Repo) error {
		if _, err := tx.Create(context.Background(), User{Email: "tx@example.com"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = repo.GetByEmail(context.Background(), "tx@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, similarity("abc", "cba"), 0.0001)
	assert.InDelta(t, 0.0, similarity("abc", "xyz"), 0.0001)
	assert.InDelta(t, 0.5, similarity("ab", "ax"), 0.0001)
}

func TestSignupAcceptsPasswordsBeyondBcryptLimit(t *testing.T) {
	svc, _, _ := newTestService(t)

	long := "Zq7!" + strings.Repeat("horsebattery", 7)
	require.Greater(t, len(long), 72)
	req := validSignup()
	req.Password = long
	req.PasswordConfirm = long

	_, err := svc.Signup(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), TokenRequest{Email: req.Email, Password: long})
	require.NoError(t, err)

	// A different tail past byte 72 must not log in.
	_, err = svc.Login(context.Background(), TokenRequest{Email: req.Email, Password: long[:80] + "x"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestPasswordHasherLongInputs(t *testing.T) {
	h := NewPasswordHasher(4)
	a := strings.Repeat("a", 100)
	hash, err := h.Hash(a)
	require.NoError(t, err)
	assert.True(t, h.Verify(a, hash))
	assert.False(t, h.Verify(strings.Repeat("a", 99)+"b", hash))
	assert.False(t, h.Verify(a, ""))
}

func TestValidatorRegistersPasswordPolicy(t *testing.T) {
	req := validSignup()
	req.Password = "12345678901"
	req.PasswordConfirm = req.Password

	var err error
	require.NotPanics(t, func() { err = newValidator().Struct(&req) })
	require.Error(t, err)
	assert.Equal(t, "This password is entirely numeric.", fieldErrors(err, &req)["password"])
}
