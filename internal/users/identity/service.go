// Copyright (c) 2026 CropSight. All rights reserved.
// Author: binh.phamq@gmail.com

package identity

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phambinh/cropsight/internal/platform/apperr"
	"github.com/phambinh/cropsight/internal/platform/ctxutil"
	"github.com/phambinh/cropsight/internal/platform/dberr"
	"github.com/phambinh/cropsight/internal/platform/events"
	"github.com/phambinh/cropsight/internal/platform/sec"
	"github.com/phambinh/cropsight/pkg/normalize"
	"github.com/phambinh/cropsight/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for issuing and verifying session tokens.
type TokenProvider interface {
	// IssueSessionToken creates a signed session token for the given identity.
	//
	// # Parameters
	//   - identityID: The ID of the identity.
	//   - name: The display name embedded in the claims.
	//   - email: The normalized email embedded in the claims.
	//   - timeToLive: The duration before the token expires.
	//
	// # Returns
	//   - The signed token, its jti, or an err if signing fails.
	IssueSessionToken(identityID, name, email string, timeToLive time.Duration) (string, string, error)

	// VerifyToken checks the signature and validity of a session token string.
	VerifyToken(tokenString string) (*sec.SessionClaims, error)
}

// AnomalyEmitter publishes conflicting-resolution audit events. A nil-backed
// emitter is a valid no-op.
type AnomalyEmitter interface {
	EmitAnomaly(ctx context.Context, anomaly *events.IdentityAnomaly) error
}

// Service implements identity resolution and session binding use cases.
//
// # Review Process
//
// This service is critical for data integrity. Any changes to the resolution
// algorithm (lookup order, tie-break, retry) must be reviewed against the
// uniqueness invariants before merging.
type Service struct {
	identityRepository IdentityRepository
	bindingRepository  SessionBindingRepository
	tokenProvider      TokenProvider
	anomalyEmitter     AnomalyEmitter
}

// NewService constructs a new identity [Service] with necessary dependencies.
func NewService(
	identityRepo IdentityRepository,
	bindingRepo SessionBindingRepository,
	tokenProv TokenProvider,
	emitter AnomalyEmitter,
) *Service {
	return &Service{
		identityRepository: identityRepo,
		bindingRepository:  bindingRepo,
		tokenProvider:      tokenProv,
		anomalyEmitter:     emitter,
	}
}

// # Identity Resolution

// ResolveInput holds the raw submission for identity resolution.
type ResolveInput struct {
	Name  string
	Email string
	Phone string
}

/*
Resolve deterministically maps a (name, email, phone) triple onto exactly one
persistent identity, creating or updating it.

Description: Email is case-folded and trimmed, phone trimmed, before any
comparison or storage. Lookup runs by email then by phone; a hit on either
resolves to an update of that same record. When both lookups hit DIFFERENT
rows the data is already anomalous: the email match is authoritative, the
anomaly is logged and emitted for audit, and only name and email are rewritten
on the winner (touching its phone would collide with the loser's phone
constraint). A fresh insert that loses a race to a concurrent submission
surfaces as a unique violation; the resolver then re-queries and takes the
update branch exactly once before giving up.

Parameters:
  - context: context.Context
  - input: ResolveInput

Returns:
  - *Identity: The resolved (created or updated) identity
  - error: ValidationError, or storage failures
*/
func (service *Service) Resolve(context context.Context, input ResolveInput) (*Identity, error) {

	// Normalize before validation so whitespace-only fields are caught.
	name := normalize.Name(input.Name)
	email := normalize.Email(input.Email)
	phone := normalize.Phone(input.Phone)

	// Reject before any store mutation. Field-level detail is the handler's
	// job; this guard keeps the invariant even for non-HTTP callers.
	if name == "" || email == "" || phone == "" {
		return nil, apperr.ValidationError("Name, email and phone are all required")
	}

	identity, err := service.resolveOnce(context, name, email, phone)
	if err == nil {
		return identity, nil
	}

	// A unique violation on insert means someone else just created this
	// identity concurrently. Re-query and retry the update branch exactly once.
	if dberr.IsUniqueViolation(err) {
		ctxutil.GetLogger(context).InfoContext(context, "identity_resolve_retry_after_conflict",
			slog.String("constraint", dberr.ConstraintName(err)),
		)

		identity, retryErr := service.resolveOnce(context, name, email, phone)
		if retryErr != nil {
			return nil, fmt.Errorf("identity_service_resolve_retry_failed: %w", retryErr)
		}
		return identity, nil
	}

	return nil, err
}

// resolveOnce performs a single lookup-then-write pass.
func (service *Service) resolveOnce(context context.Context, name, email, phone string) (*Identity, error) {

	// Independent lookups on the two unique keys.
	emailMatch, err := service.identityRepository.FindByEmail(context, email)
	if err != nil && !apperr.IsNotFound(err) {
		return nil, fmt.Errorf("identity_service_email_lookup_failed: %w", err)
	}

	phoneMatch, err := service.identityRepository.FindByPhone(context, phone)
	if err != nil && !apperr.IsNotFound(err) {
		return nil, fmt.Errorf("identity_service_phone_lookup_failed: %w", err)
	}

	switch {
	case emailMatch != nil && phoneMatch != nil && emailMatch.ID != phoneMatch.ID:
		// Data-integrity anomaly: the submission straddles two existing rows.
		// The email match is authoritative. Never silently dropped.
		return service.resolveAnomaly(context, emailMatch, phoneMatch, name, email, phone)

	case emailMatch != nil:
		// Covers both "email only" and "email and phone on the same row".
		emailMatch.Name = name
		emailMatch.Email = email
		emailMatch.Phone = phone
		if err := service.identityRepository.Update(context, emailMatch); err != nil {
			return nil, err
		}
		return emailMatch, nil

	case phoneMatch != nil:
		phoneMatch.Name = name
		phoneMatch.Email = email
		phoneMatch.Phone = phone
		if err := service.identityRepository.Update(context, phoneMatch); err != nil {
			return nil, err
		}
		return phoneMatch, nil
	}

	// No match on either key: insert a new row. Time-sortable ID to prevent
	// PG index fragmentation.
	identity := &Identity{
		ID:    uuid.New(),
		Name:  name,
		Email: email,
		Phone: phone,
	}

	if err := service.identityRepository.Create(context, identity); err != nil {
		return nil, err
	}

	return identity, nil
}

// resolveAnomaly applies the tie-break when email and phone match different rows.
//
// The winner's phone is left untouched: rewriting it to the submitted value
// would collide with the loser row's phone constraint.
func (service *Service) resolveAnomaly(context context.Context, winner, loser *Identity, name, email, phone string) (*Identity, error) {

	ctxutil.GetLogger(context).WarnContext(context, "identity_conflict_anomaly",
		slog.String("authoritative_id", winner.ID),
		slog.String("conflicting_id", loser.ID),
	)

	// Fire-and-forget audit event; a broker outage never fails the resolution.
	_ = service.anomalyEmitter.EmitAnomaly(context, &events.IdentityAnomaly{
		IdentityID:      winner.ID,
		ConflictingID:   loser.ID,
		NormalizedEmail: email,
		NormalizedPhone: phone,
		OccurredAt:      time.Now(),
	})

	winner.Name = name
	winner.Email = email
	if err := service.identityRepository.Update(context, winner); err != nil {
		return nil, err
	}

	return winner, nil
}

// # Session Binding

// SessionGrant represents a freshly established session.
type SessionGrant struct {
	Token     string
	ExpiresAt time.Time
	Identity  *Identity
}

/*
Bind issues a fresh session token for the identity, atomically invalidating
any prior token.

Description: The token's jti is written as the identity's single binding in
one Redis SET; from that instant the previous token is dead even though its
signature still verifies. No token is ever reused across binds.

Parameters:
  - context: context.Context
  - identity: *Identity (Resolved identity to bind)

Returns:
  - *SessionGrant: Transport-ready session credentials
  - error: Signing or binding-store failures
*/
func (service *Service) Bind(context context.Context, identity *Identity) (*SessionGrant, error) {

	token, jti, err := service.tokenProvider.IssueSessionToken(identity.ID, identity.Name, identity.Email, SessionTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("identity_service_token_issue_failed: %w", err)
	}

	if err := service.bindingRepository.Bind(context, identity.ID, jti, SessionTokenTTL); err != nil {
		return nil, fmt.Errorf("identity_service_bind_failed: %w", err)
	}

	return &SessionGrant{
		Token:     token,
		ExpiresAt: time.Now().Add(SessionTokenTTL),
		Identity:  identity,
	}, nil
}

/*
VerifySession checks a session token against both its signature and the
identity's current binding.

Description: A token is live only while its jti equals the recorded binding.
The second phase is what enforces single-session semantics: a newer bind or a
logout kills older tokens immediately.

Parameters:
  - ctx: context.Context
  - tokenStr: string

Returns:
  - *sec.SessionClaims: Verified claims
  - error: apperr.Unauthorized for any dead or malformed token
*/
func (service *Service) VerifySession(ctx context.Context, tokenStr string) (*sec.SessionClaims, error) {

	claims, err := service.tokenProvider.VerifyToken(tokenStr)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid session token")
	}

	currentJTI, err := service.bindingRepository.Current(ctx, claims.IdentityID)
	if err != nil {
		return nil, apperr.Unauthorized("Session is no longer active")
	}

	if currentJTI != claims.ID {
		return nil, apperr.Unauthorized("Session superseded by a newer login")
	}

	return claims, nil
}

/*
Logout destroys the identity's active session.

Description: Idempotent; logging out with no live binding is still a success.

Parameters:
  - context: context.Context
  - identityID: string

Returns:
  - error: Binding-store failures
*/
func (service *Service) Logout(context context.Context, identityID string) error {
	if err := service.bindingRepository.Unbind(context, identityID); err != nil {
		return fmt.Errorf("identity_service_logout_failed: %w", err)
	}
	return nil
}

/*
Profile retrieves the identity record behind an active session.

Parameters:
  - context: context.Context
  - identityID: string

Returns:
  - *Identity: Hydrated identity
  - error: apperr.NotFound or storage failures
*/
func (service *Service) Profile(context context.Context, identityID string) (*Identity, error) {
	identity, err := service.identityRepository.FindByID(context, identityID)
	if err != nil {
		return nil, err
	}
	return identity, nil
}
