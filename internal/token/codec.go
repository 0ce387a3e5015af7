package token

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// Namespaces discriminate the token families so one can never stand in for
// another: access tokens admit to protected routes, refresh tokens are only
// exchangeable for new access tokens, reset and verify tokens drive the
// out-of-band email flows.
const (
	NamespaceAccess  = "access"
	NamespaceRefresh = "refresh"
	NamespaceReset   = "reset"
	NamespaceVerify  = "verify"
)

var (
	ErrMalformed        = errors.New("token is malformed")
	ErrSignatureInvalid = errors.New("token signature is invalid")
	ErrExpired          = errors.New("token is expired")
	ErrInvalidNamespace = errors.New("token namespace not valid for this operation")
	ErrWrongPurpose     = errors.New("token issued for a different purpose")
)

// Claims is the signed content of every token the API issues.
// Session tokens carry the user id in Subject; out-of-band tokens carry the
// target address in Email instead.
type Claims struct {
	jwt.RegisteredClaims
	Namespace string `json:"ns"`
	Email     string `json:"email,omitempty"`
}

// Codec encodes and decodes signed claims. It holds only the process-wide
// signing secret and is safe for concurrent use.
type Codec struct {
	secret []byte
}

func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

func (c *Codec) Encode(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Decode parses and verifies a token string. Errors are collapsed to the
// package sentinels so callers can branch without knowing the jwt library.
func (c *Codec) Decode(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrSignatureInvalid):
			return nil, ErrSignatureInvalid
		default:
			return nil, ErrMalformed
		}
	}

	if !token.Valid {
		return nil, ErrSignatureInvalid
	}

	return claims, nil
}
