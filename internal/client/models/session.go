package models

import "time"

// Session is the ephemeral credential that allows re-entering the unlocked
// state without re-typing the master secret. At most one session exists at a
// time; it is persisted as a signed token in the local state store and
// destroyed on lock or expiry.
type Session struct {
	ID            string
	OwnerLabel    string
	VaultID       string
	Authenticated bool
	IssuedAt      time.Time
	ExpiresAt     time.Time
}
