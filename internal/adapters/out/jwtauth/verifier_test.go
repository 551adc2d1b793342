package jwtauth_test

import (
	"testing"
	"time"

	"marketplace/internal/adapters/out/jwtauth"
	"marketplace/internal/core/domain/model/identity"
	"marketplace/internal/pkg/errs"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func validClaims() jwtauth.Claims {
	return jwtauth.Claims{
		UserID: "user-1",
		Email:  "user@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestNewVerifier(t *testing.T) {
	_, err := jwtauth.NewVerifier("", "")

	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestVerifier_Verify(t *testing.T) {
	v, err := jwtauth.NewVerifier(secret, "")
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		id, err := v.Verify(t.Context(), sign(t, jwt.SigningMethodHS256, []byte(secret), validClaims()))

		require.NoError(t, err)
		assert.Equal(t, "user-1", id.UserID())
		assert.Equal(t, "user@example.com", id.Email())
		assert.Equal(t, identity.Customer, id.Role())
	})

	t.Run("subject and role claims", func(t *testing.T) {
		claims := validClaims()
		claims.UserID = ""
		claims.Subject = "admin-1"
		claims.Role = "admin"

		id, err := v.Verify(t.Context(), sign(t, jwt.SigningMethodHS512, []byte(secret), claims))

		require.NoError(t, err)
		assert.Equal(t, "admin-1", id.UserID())
		assert.True(t, id.IsAdmin())
	})

	t.Run("empty token", func(t *testing.T) {
		_, err := v.Verify(t.Context(), "  ")

		assert.ErrorIs(t, err, errs.ErrMissingToken)
	})

	invalid := map[string]func(t *testing.T) string{
		"wrong secret": func(t *testing.T) string {
			return sign(t, jwt.SigningMethodHS256, []byte("other"), validClaims())
		},
		"expired": func(t *testing.T) string {
			claims := validClaims()
			claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
			return sign(t, jwt.SigningMethodHS256, []byte(secret), claims)
		},
		"no expiry": func(t *testing.T) string {
			claims := validClaims()
			claims.ExpiresAt = nil
			return sign(t, jwt.SigningMethodHS256, []byte(secret), claims)
		},
		"none algorithm": func(t *testing.T) string {
			return sign(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, validClaims())
		},
		"malformed": func(*testing.T) string {
			return "not.a.jwt"
		},
		"missing subject": func(t *testing.T) string {
			claims := validClaims()
			claims.UserID = ""
			return sign(t, jwt.SigningMethodHS256, []byte(secret), claims)
		},
	}
	for name, token := range invalid {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(t.Context(), token(t))

			require.ErrorIs(t, err, errs.ErrInvalidToken)
			assert.False(t, errs.IsRetryable(err))
		})
	}
}

func TestVerifier_Issuer(t *testing.T) {
	v, err := jwtauth.NewVerifier(secret, "marketplace")
	require.NoError(t, err)

	claims := validClaims()
	claims.Issuer = "someone-else"
	_, err = v.Verify(t.Context(), sign(t, jwt.SigningMethodHS256, []byte(secret), claims))
	require.ErrorIs(t, err, errs.ErrInvalidToken)

	claims.Issuer = "marketplace"
	_, err = v.Verify(t.Context(), sign(t, jwt.SigningMethodHS256, []byte(secret), claims))
	require.NoError(t, err)
}

func TestVerifier_SignRoundTrip(t *testing.T) {
	v, err := jwtauth.NewVerifier(secret, "marketplace")
	require.NoError(t, err)
	caller, err := identity.NewIdentity("owner-1", "o@example.com", identity.StoreOwner)
	require.NoError(t, err)

	token, err := v.Sign(caller, time.Minute)
	require.NoError(t, err)

	verified, err := v.Verify(t.Context(), token)
	require.NoError(t, err)
	assert.Equal(t, caller.UserID(), verified.UserID())
	assert.Equal(t, identity.StoreOwner, verified.Role())

	_, err = v.Sign(identity.Identity{}, time.Minute)
	assert.ErrorIs(t, err, errs.ErrMissingToken)
}
