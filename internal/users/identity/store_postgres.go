// Copyright (c) 2026 CropSight. All rights reserved.
// Author: binh.phamq@gmail.com

// PostgreSQL implementation of the identity storage layer.
//
// # Architecture
//
// Repositories here are strictly separated from domain logic. They implement
// the domain-defined [IdentityRepository] interface using the [pgxpool.Pool]
// connection manager.
//
// # Error Mapping
//
// pgx.ErrNoRows is mapped to apperr.NotFound so domain code never sees storage
// internals. Unique-constraint violations are deliberately NOT mapped away:
// the resolver inspects them (SQLSTATE 23505) to drive its bounded retry.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/phambinh/cropsight/internal/platform/apperr"
)

// # Identity Repository

// PostgresIdentityRepository implements the IdentityRepository interface using pgx.
type PostgresIdentityRepository struct {
	pool *pgxpool.Pool
}

// NewIdentityRepository creates a new PostgreSQL implementation of the IdentityRepository.
func NewIdentityRepository(pool *pgxpool.Pool) *PostgresIdentityRepository {
	return &PostgresIdentityRepository{pool: pool}
}

/*
Create persists a new identity record into the users.identity table.

Description: Initializes timestamps when absent. Unique violations on email or
phone pass through wrapped with %w so the resolver can detect SQLSTATE 23505.

Parameters:
  - context: context.Context
  - identity: *Identity (Entity to persist)

Returns:
  - error: Database constraint violations or connectivity errors
*/
func (repository *PostgresIdentityRepository) Create(context context.Context, identity *Identity) error {
	const query = `
		INSERT INTO users.identity (
			id, name, email, phone, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6)`

	now := time.Now()
	if identity.CreatedAt.IsZero() {
		identity.CreatedAt = now
	}
	identity.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		identity.ID,
		identity.Name,
		identity.Email,
		identity.Phone,
		identity.CreatedAt,
		identity.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_identity_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByID retrieves an identity record by its unique ID.

Description: Primary key resolution for identity records.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *Identity: Hydrated identity entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresIdentityRepository) FindByID(context context.Context, id string) (*Identity, error) {
	const query = `
		SELECT id, name, email, phone, createdat, updatedat
		FROM users.identity
		WHERE id = $1`

	return repository.scanOne(context, query, id, "Identity not found")
}

/*
FindByEmail retrieves an identity record by its normalized email address.

Description: The caller normalizes (case-folds, trims) before lookup so the
stored value and the probe are always in the same form.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *Identity: Hydrated identity entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresIdentityRepository) FindByEmail(context context.Context, email string) (*Identity, error) {
	const query = `
		SELECT id, name, email, phone, createdat, updatedat
		FROM users.identity
		WHERE email = $1`

	return repository.scanOne(context, query, email, "Identity not found with this email")
}

/*
FindByPhone retrieves an identity record by its trimmed phone number.

Parameters:
  - context: context.Context
  - phone: string

Returns:
  - *Identity: Hydrated identity entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresIdentityRepository) FindByPhone(context context.Context, phone string) (*Identity, error) {
	const query = `
		SELECT id, name, email, phone, createdat, updatedat
		FROM users.identity
		WHERE phone = $1`

	return repository.scanOne(context, query, phone, "Identity not found with this phone")
}

/*
Update overwrites the mutable fields of an existing identity row.

Description: Synchronizes the in-memory identity state with the database,
refreshing the updatedat timestamp. Unique violations pass through wrapped.

Parameters:
  - context: context.Context
  - identity: *Identity

Returns:
  - error: Constraint violations or update failures
*/
func (repository *PostgresIdentityRepository) Update(context context.Context, identity *Identity) error {
	const query = `
		UPDATE users.identity
		SET name = $2, email = $3, phone = $4, updatedat = $5
		WHERE id = $1`

	identity.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(context, query,
		identity.ID,
		identity.Name,
		identity.Email,
		identity.Phone,
		identity.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_identity_repo_update_failed: %w", err)
	}

	return nil
}

// scanOne executes a single-row query and hydrates an Identity.
func (repository *PostgresIdentityRepository) scanOne(context context.Context, query, arg, notFoundMessage string) (*Identity, error) {
	identity := &Identity{}
	err := repository.pool.QueryRow(context, query, arg).Scan(
		&identity.ID,
		&identity.Name,
		&identity.Email,
		&identity.Phone,
		&identity.CreatedAt,
		&identity.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(notFoundMessage)
		}
		return nil, fmt.Errorf("postgres_identity_repo_find_failed: %w", err)
	}

	return identity, nil
}
