package models

import "time"

// MasterSecretRecord is the content of the master.key file, written exactly
// once per vault folder. Its absence marks the folder as uninitialized.
// Hash and Salt are hex-encoded; Hash verifies the master secret on unlock
// and is never used as an encryption key.
type MasterSecretRecord struct {
	Hash       string    `json:"hash"`
	Salt       string    `json:"salt"`
	OwnerLabel string    `json:"ownerLabel"`
	CreatedAt  time.Time `json:"createdAt"`
}
