package tokens

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBlocklist struct {
	revoked map[string]bool
}

func (f *fakeBlocklist) IsRevoked(_ context.Context, jti string) (bool, error) {
	return f.revoked[jti], nil
}

func newTestService() (*Service, *fakeBlocklist) {
	bl := &fakeBlocklist{revoked: map[string]bool{}}
	svc := &Service{
		Secret:     []byte("test-jwt-secret"),
		Blocklist:  bl,
		AdminClaim: func(identity string) bool { return identity == "superadmin" },
	}
	return svc, bl
}

func signWithClaims(t *testing.T, secret []byte, claims Claims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return raw
}

func TestIssueAccessToken_SetsExpectedClaims(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()
	raw, err := svc.IssueAccessToken("alice", true)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	claims, err := svc.Verify(context.Background(), raw, false, false)
	require.NoError(t, err)

	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, TypeAccess, claims.TokenType)
	assert.True(t, claims.Fresh)
	assert.False(t, claims.AppAdmin)
	assert.NotEmpty(t, claims.ID)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().UTC().Add(AccessTokenTTL), claims.ExpiresAt.Time, 5*time.Second)
}

func TestIssueAccessToken_AdminClaimComputedAtIssuance(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()
	raw, err := svc.IssueAccessToken("superadmin", true)
	require.NoError(t, err)

	claims, err := svc.Verify(context.Background(), raw, false, false)
	require.NoError(t, err)
	assert.True(t, claims.AppAdmin)
}

func TestIssueRefreshToken_NeverFresh(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()
	raw, err := svc.IssueRefreshToken("alice")
	require.NoError(t, err)

	claims, err := svc.Verify(context.Background(), raw, true, false)
	require.NoError(t, err)
	assert.Equal(t, TypeRefresh, claims.TokenType)
	assert.False(t, claims.Fresh)
}

func TestVerify_MissingToken(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()
	_, err := svc.Verify(context.Background(), "", false, false)
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestVerify_WrongScope(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()

	access, err := svc.IssueAccessToken("alice", true)
	require.NoError(t, err)
	refresh, err := svc.IssueRefreshToken("alice")
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), access, true, false)
	assert.ErrorIs(t, err, ErrWrongScope)

	_, err = svc.Verify(context.Background(), refresh, false, false)
	assert.ErrorIs(t, err, ErrWrongScope)
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()
	raw := signWithClaims(t, svc.Secret, Claims{
		TokenType: TypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice",
			ID:        NewJTI(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})

	_, err := svc.Verify(context.Background(), raw, false, false)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerify_InvalidSignature(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()
	raw := signWithClaims(t, []byte("some-other-secret"), Claims{
		TokenType: TypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice",
			ID:        NewJTI(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	_, err := svc.Verify(context.Background(), raw, false, false)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerify_Revoked(t *testing.T) {
	t.Parallel()

	svc, bl := newTestService()
	raw, err := svc.IssueAccessToken("alice", true)
	require.NoError(t, err)

	claims, err := svc.Verify(context.Background(), raw, false, false)
	require.NoError(t, err)

	bl.revoked[claims.ID] = true

	_, err = svc.Verify(context.Background(), raw, false, false)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestVerify_FreshRequired(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()

	fresh, err := svc.IssueAccessToken("alice", true)
	require.NoError(t, err)
	stale, err := svc.IssueAccessToken("alice", false)
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), fresh, false, true)
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), stale, false, true)
	assert.ErrorIs(t, err, ErrFreshRequired)
}
