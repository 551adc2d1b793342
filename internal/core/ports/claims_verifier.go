package ports

import (
	"context"

	"marketplace/internal/core/domain/model/identity"
)

// ClaimsVerifier turns a bearer token into a caller identity.
//
// An empty token yields errs.ErrMissingToken; a token that fails any check
// (signature, algorithm, expiry, issuer, subject) yields errs.ErrInvalidToken.
type ClaimsVerifier interface {
	Verify(ctx context.Context, token string) (identity.Identity, error)
}
