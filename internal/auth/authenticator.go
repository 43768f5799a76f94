// Package auth provides authentication primitives: credential verification
// and session token management.
package auth

import (
	"context"

	"github.com/mkale/splitledger/internal/models"
)

// Authenticator abstracts the credential scheme so the service layer does
// not depend on passwords specifically.
type Authenticator interface {
	// Register creates a new user account. The credential format depends
	// on the implementation.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate verifies the credential and returns the matching user.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks whether the credential meets the
	// implementation's requirements before any storage work happens.
	ValidateCredential(credential string) error
}
