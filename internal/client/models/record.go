// Package models defines the persisted and in-memory types of the vault.
package models

import "time"

// CredentialRecord is one protected entry in the vault store. SecretValue is
// never logged and never written to disk outside the sealed store envelope.
// The JSON field names are the store's on-disk serialization format.
type CredentialRecord struct {
	ID          string    `json:"id"`
	Label       string    `json:"label"`
	SecretValue string    `json:"secretValue"`
	CreatedAt   time.Time `json:"createdAt"`
}
