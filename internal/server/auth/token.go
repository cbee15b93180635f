package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmartins/askgate/internal/common"
)

// Claim keys follow the wire format consumed by the frontend.
const (
	claimUserID = "user_id"
	claimRole   = "role"
)

// Claims are the facts embedded into a session token at login.
type Claims struct {
	UserID string
	Role   string
}

// Issuer creates and verifies stateless session tokens (HS256). The secret
// and validity window are fixed for the process lifetime.
type Issuer struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

type IssuerOption func(*Issuer)

// WithNow sets the clock function (primarily for testing expiry).
func WithNow(now func() time.Time) IssuerOption {
	return func(i *Issuer) {
		i.now = now
	}
}

func NewIssuer(secret []byte, validity time.Duration, opts ...IssuerOption) *Issuer {
	issuer := &Issuer{secret: secret, validity: validity, now: time.Now}
	for _, opt := range opts {
		opt(issuer)
	}
	return issuer
}

// Issue signs a token carrying the claims plus an expiry at now+validity.
func (i *Issuer) Issue(c Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		claimUserID: c.UserID,
		claimRole:   c.Role,
		"exp":       jwt.NewNumericDate(i.now().Add(i.validity)),
	})

	tokenString, err := token.SignedString(i.secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Verify checks signature and expiry and returns the decoded claims map
// unchanged, extra fields included. Any parse or validation failure comes
// back as common.ErrInvalidToken.
func (i *Issuer) Verify(tokenString string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
