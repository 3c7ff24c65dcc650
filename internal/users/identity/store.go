// Copyright (c) 2026 CropSight. All rights reserved.
// Author: binh.phamq@gmail.com

package identity

import (
	"context"
	"time"
)

// # Repository Contracts

// IdentityRepository defines the persistence contract for identity records.
//
// Uniqueness of email and phone is enforced at the storage layer with
// independent constraints; Create surfaces those violations unwrapped enough
// for the resolver's bounded retry to recognize them.
type IdentityRepository interface {
	/*
		FindByID retrieves an identity record by its unique ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *Identity: Loaded identity entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*Identity, error)

	/*
		FindByEmail retrieves an identity record by its normalized email.

		Parameters:
		  - context: context.Context
		  - email: string (already normalized by the caller)

		Returns:
		  - *Identity: Loaded identity entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByEmail(context context.Context, email string) (*Identity, error)

	/*
		FindByPhone retrieves an identity record by its trimmed phone.

		Parameters:
		  - context: context.Context
		  - phone: string (already trimmed by the caller)

		Returns:
		  - *Identity: Loaded identity entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByPhone(context context.Context, phone string) (*Identity, error)

	/*
		Create inserts a brand new identity row.

		Description: A unique-constraint violation on email or phone must remain
		detectable through the returned error chain (SQLSTATE 23505), because the
		resolver treats it as a concurrent creation and retries the lookup once.

		Parameters:
		  - context: context.Context
		  - identity: *Identity (Entity to persist)

		Returns:
		  - error: Constraint violations or connectivity failures
	*/
	Create(context context.Context, identity *Identity) error

	/*
		Update overwrites the mutable fields (name, email, phone) of an existing row.

		Parameters:
		  - context: context.Context
		  - identity: *Identity (Hydrated entity with changes)

		Returns:
		  - error: Constraint violations or connectivity failures
	*/
	Update(context context.Context, identity *Identity) error
}

// SessionBindingRepository defines the contract for the single-session binding
// registry.
//
// Each identity has at most one live binding: the jti of its current session
// token. Bind replaces the previous value in one write, which is what makes
// issuance atomic with invalidation of the prior token.
type SessionBindingRepository interface {
	/*
		Bind records jti as the identity's current session binding, replacing
		any previous binding in a single atomic write.

		Parameters:
		  - context: context.Context
		  - identityID: string
		  - jti: string (Token ID of the freshly issued session token)
		  - ttl: time.Duration

		Returns:
		  - error: Storage failures
	*/
	Bind(context context.Context, identityID, jti string, ttl time.Duration) error

	/*
		Current retrieves the jti currently bound to the identity.

		Parameters:
		  - context: context.Context
		  - identityID: string

		Returns:
		  - string: Bound jti
		  - error: apperr.NotFound if no binding exists, or connectivity failures
	*/
	Current(context context.Context, identityID string) (string, error)

	/*
		Unbind removes the identity's binding, killing its current session.

		Parameters:
		  - context: context.Context
		  - identityID: string

		Returns:
		  - error: Storage failures
	*/
	Unbind(context context.Context, identityID string) error
}
