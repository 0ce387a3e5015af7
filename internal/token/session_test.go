package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer() (*Issuer, *Codec) {
	codec := NewCodec("test-secret")
	return NewIssuer(codec, 15*time.Minute, 7*24*time.Hour, 24*time.Hour), codec
}

func TestIssuer_IssueSession(t *testing.T) {
	t.Parallel()

	issuer, codec := newTestIssuer()

	pair, err := issuer.IssueSession("user-123")
	require.NoError(t, err)
	require.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	access, err := codec.Decode(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-123", access.Subject)
	assert.Equal(t, NamespaceAccess, access.Namespace)

	refresh, err := codec.Decode(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "user-123", refresh.Subject)
	assert.Equal(t, NamespaceRefresh, refresh.Namespace)

	// The refresh token must outlive the access token.
	assert.True(t, refresh.ExpiresAt.After(access.ExpiresAt.Time))
	assert.WithinDuration(t, pair.AccessExpiresAt, access.ExpiresAt.Time, time.Second)
}

func TestIssuer_Refresh(t *testing.T) {
	t.Parallel()

	issuer, codec := newTestIssuer()

	pair, err := issuer.IssueSession("user-123")
	require.NoError(t, err)

	access, _, err := issuer.Refresh(pair.RefreshToken)
	require.NoError(t, err)

	claims, err := codec.Decode(access)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, NamespaceAccess, claims.Namespace)
}

func TestIssuer_RefreshRejectsAccessToken(t *testing.T) {
	t.Parallel()

	issuer, _ := newTestIssuer()

	pair, err := issuer.IssueSession("user-123")
	require.NoError(t, err)

	_, _, err = issuer.Refresh(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidNamespace)
}

func TestIssuer_RefreshRejectsExpired(t *testing.T) {
	t.Parallel()

	codec := NewCodec("test-secret")
	issuer := NewIssuer(codec, 15*time.Minute, -time.Second, 24*time.Hour)

	pair, err := issuer.IssueSession("user-123")
	require.NoError(t, err)

	_, _, err = issuer.Refresh(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestIssuer_OneTimeTokens(t *testing.T) {
	t.Parallel()

	issuer, codec := newTestIssuer()

	reset, err := issuer.IssuePasswordReset("a@x.com")
	require.NoError(t, err)
	verify, err := issuer.IssueVerification("a@x.com")
	require.NoError(t, err)

	resetClaims, err := codec.Decode(reset)
	require.NoError(t, err)
	assert.Equal(t, NamespaceReset, resetClaims.Namespace)
	assert.Equal(t, "a@x.com", resetClaims.Email)

	verifyClaims, err := codec.Decode(verify)
	require.NoError(t, err)
	assert.Equal(t, NamespaceVerify, verifyClaims.Namespace)
	assert.Equal(t, "a@x.com", verifyClaims.Email)
}
