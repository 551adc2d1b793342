// Package jwtauth verifies HMAC-signed bearer tokens and turns their claims
// into a caller identity.
package jwtauth

import (
	"context"
	"errors"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/identity"
	"marketplace/internal/pkg/errs"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL matches the lifetime of tokens issued by the account service.
const DefaultTokenTTL = 24 * time.Hour

var ErrSecretIsRequired = errs.NewValueIsRequiredError("JWT secret")

// Claims is the token payload. The account service writes the user id under
// "userId"; standard "sub" is accepted as well.
type Claims struct {
	UserID string `json:"userId,omitempty"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Verifier is stateless and safe for concurrent use.
type Verifier struct {
	secret []byte
	issuer string
	parser *jwt.Parser
}

func NewVerifier(secret, issuer string) (*Verifier, error) {
	if secret == "" {
		return nil, ErrSecretIsRequired
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{
			jwt.SigningMethodHS256.Alg(),
			jwt.SigningMethodHS384.Alg(),
			jwt.SigningMethodHS512.Alg(),
		}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(5 * time.Second),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}

	return &Verifier{secret: []byte(secret), issuer: issuer, parser: jwt.NewParser(opts...)}, nil
}

// Verify validates token and returns the caller. It performs no I/O.
func (v *Verifier) Verify(_ context.Context, token string) (identity.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return identity.Identity{}, errs.NewMissingTokenError()
	}

	claims := &Claims{}
	parsed, err := v.parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return v.secret, nil
	})
	if err != nil {
		return identity.Identity{}, errs.NewInvalidTokenError(err)
	}
	if !parsed.Valid {
		return identity.Identity{}, errs.NewInvalidTokenError(errors.New("token is not valid"))
	}

	userID := claims.UserID
	if userID == "" {
		userID = claims.Subject
	}
	return identity.NewIdentity(userID, claims.Email, identity.ParseRole(claims.Role))
}

// Sign issues an HS256 token for caller, valid for ttl. It is used by local
// tooling and tests that need a token the Verifier accepts.
func (v *Verifier) Sign(caller identity.Identity, ttl time.Duration) (string, error) {
	if err := caller.Validate(); err != nil {
		return "", err
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	now := time.Now()
	claims := Claims{
		UserID: caller.UserID(),
		Email:  caller.Email(),
		Role:   string(caller.Role()),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   caller.UserID(),
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
