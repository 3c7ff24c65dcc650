// Copyright (c) 2026 CropSight. All rights reserved.
// Author: binh.phamq@gmail.com

package identity

import "time"

// # Session Constraints

const (
	// SessionTokenTTL is the duration a session token remains valid.
	// One day matches the browser-session character of the product; the
	// Redis binding carries the same TTL so both expire together.
	SessionTokenTTL = 24 * time.Hour
)

// # Field Identifiers

const (
	FieldName  = "name"
	FieldEmail = "email"
	FieldPhone = "phone"
)
