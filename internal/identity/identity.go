// Package identity turns bearer credentials into principal ids.
package identity

import (
	"context"
	"errors"
)

// ErrInvalidCredential is returned for any credential that does not verify.
var ErrInvalidCredential = errors.New("identity: invalid or expired credential")

// Verifier verifies a bearer credential and yields the principal id.
type Verifier interface {
	Verify(ctx context.Context, credential string) (string, error)
}
