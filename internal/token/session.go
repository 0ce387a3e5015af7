package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Pair is what a successful login returns: a short-lived access token and a
// long-lived refresh token for the same subject.
type Pair struct {
	AccessToken     string    `json:"access_token"`
	RefreshToken    string    `json:"refresh_token"`
	AccessExpiresAt time.Time `json:"access_expires_at"`
}

// Issuer mints session token pairs and the out-of-band reset/verification
// tokens. It is stateless; revocation before expiry is not supported.
type Issuer struct {
	codec      *Codec
	accessTTL  time.Duration
	refreshTTL time.Duration
	oneTimeTTL time.Duration
}

func NewIssuer(codec *Codec, accessTTL, refreshTTL, oneTimeTTL time.Duration) *Issuer {
	return &Issuer{
		codec:      codec,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		oneTimeTTL: oneTimeTTL,
	}
}

// IssueSession produces the access/refresh pair for a freshly authenticated
// subject. Both tokens embed the same subject id and their own namespace.
func (i *Issuer) IssueSession(subjectID string) (*Pair, error) {
	now := time.Now()
	accessExpiry := now.Add(i.accessTTL)

	access, err := i.codec.Encode(sessionClaims(subjectID, NamespaceAccess, now, accessExpiry))
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refresh, err := i.codec.Encode(sessionClaims(subjectID, NamespaceRefresh, now, now.Add(i.refreshTTL)))
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return &Pair{
		AccessToken:     access,
		RefreshToken:    refresh,
		AccessExpiresAt: accessExpiry,
	}, nil
}

// Refresh exchanges a valid refresh token for a new access token carrying
// the same subject. Presenting anything but a refresh-namespace token fails
// with ErrInvalidNamespace.
func (i *Issuer) Refresh(refreshToken string) (string, time.Time, error) {
	claims, err := i.codec.Decode(refreshToken)
	if err != nil {
		return "", time.Time{}, err
	}

	if claims.Namespace != NamespaceRefresh {
		return "", time.Time{}, ErrInvalidNamespace
	}

	now := time.Now()
	expiry := now.Add(i.accessTTL)
	access, err := i.codec.Encode(sessionClaims(claims.Subject, NamespaceAccess, now, expiry))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}

	return access, expiry, nil
}

// IssuePasswordReset mints a single-purpose token scoped to one email
// address, used by the forgot-password flow.
func (i *Issuer) IssuePasswordReset(email string) (string, error) {
	return i.issueOneTime(email, NamespaceReset)
}

// IssueVerification mints the email-verification counterpart.
func (i *Issuer) IssueVerification(email string) (string, error) {
	return i.issueOneTime(email, NamespaceVerify)
}

func (i *Issuer) issueOneTime(email, namespace string) (string, error) {
	now := time.Now()
	tok, err := i.codec.Encode(Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.oneTimeTTL)),
		},
		Namespace: namespace,
		Email:     email,
	})
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", namespace, err)
	}
	return tok, nil
}

func sessionClaims(subjectID, namespace string, issuedAt, expiresAt time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Namespace: namespace,
	}
}
