// Copyright (c) 2026 CropSight. All rights reserved.
// Author: binh.phamq@gmail.com

// Package normalize provides canonical forms for identity-matching fields.
//
// # Usage
//
// Email and phone values are the deduplication keys for grower identities.
// Every value MUST pass through this package before it is compared against or
// written to storage, otherwise the uniqueness guarantees of the identity
// store are meaningless ("A@X.com" and "a@x.com" would become two people).
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// caseFolder lowercases using full Unicode case folding, not just ASCII.
var caseFolder = cases.Fold()

// Email returns the canonical form of an email address: NFKC-normalized,
// case-folded, and trimmed of surrounding whitespace.
func Email(email string) string {
	email = strings.TrimSpace(email)
	email = norm.NFKC.String(email)
	return caseFolder.String(email)
}

// Phone returns the canonical form of a phone number: trimmed of surrounding
// whitespace with interior runs of spaces collapsed to one.
//
// Digits, punctuation, and formatting characters are kept as submitted; the
// identity store matches phones verbatim after trimming.
func Phone(phone string) string {
	phone = strings.TrimSpace(phone)

	var builder strings.Builder
	builder.Grow(len(phone))

	previousWasSpace := false
	for _, r := range phone {
		if unicode.IsSpace(r) {
			if !previousWasSpace {
				builder.WriteRune(' ')
			}
			previousWasSpace = true
			continue
		}
		previousWasSpace = false
		builder.WriteRune(r)
	}

	return builder.String()
}

// Name returns a display name trimmed of surrounding whitespace.
func Name(name string) string {
	return strings.TrimSpace(name)
}
