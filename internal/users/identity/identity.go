// Copyright (c) 2026 CropSight. All rights reserved.
// Author: binh.phamq@gmail.com

/*
Package identity implements the core identity resolution and session binding system.

A visiting person submits a (name, email, phone) triple; the resolver maps it
deterministically onto exactly one persistent identity record, creating or
updating it. The binder then issues a fresh session token for that identity,
atomically invalidating any prior token.

# Architecture

  - Service: Orchestrates resolution (upsert with bounded retry) and sessions.
  - Repository: Abstracted interfaces for Postgres (identities) and Redis (bindings).
  - Security: RSA-signed session tokens whose jti must match the live binding.

The package ensures that no two identities ever share an email or share a
phone, even under concurrent submissions across server instances.
*/
package identity

import "time"

// # Domain Entities

// Identity represents one real-world person known to the system.
//
// The id is assigned on first creation and never changes. Email and phone are
// each unique across all identities; a later submission matching either field
// resolves to this same record.
type Identity struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"` // normalized: case-folded, trimmed
	Phone     string    `json:"phone"` // trimmed
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
