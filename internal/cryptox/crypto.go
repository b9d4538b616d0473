// Package cryptox implements the key-derivation and authenticated-encryption
// primitives of the vault.
//
// Two independent pieces of key material are derived from the same master
// secret, matching the on-disk format of existing vaults:
//
//   - DeriveVerificationHash runs PBKDF2 and produces the hash stored in
//     master.key; it is used only to verify the secret on unlock.
//   - LegacyStoreKey pads/truncates the raw secret to 32 bytes and is the
//     AES-256-GCM key for passwords.enc.
//
// Unifying both on a single KDF would break every vault written by the
// previous client, so the dual scheme is kept.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"

	"github.com/altronvault/altron/internal/common"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// SaltSize is the length of the key-derivation salt in bytes.
	SaltSize = 16

	// Iterations is the PBKDF2 cost factor.
	Iterations = 100_000

	keySize   = 32
	nonceSize = 12
)

// DeriveVerificationHash derives a 256-bit verification hash from the master
// secret and salt using PBKDF2-HMAC-SHA256. Deterministic: the same inputs
// always produce the same output.
func DeriveVerificationHash(secret string, salt []byte) []byte {
	return pbkdf2.Key([]byte(secret), salt, Iterations, keySize, sha256.New)
}

// LegacyStoreKey converts the raw master secret into the 32-byte AES key the
// original client used for the record store: the secret padded with '0' up
// to 32 bytes, then truncated to 32.
func LegacyStoreKey(secret string) []byte {
	key := make([]byte, keySize)
	for i := range key {
		key[i] = '0'
	}
	copy(key, secret)
	return key
}

// NewSalt returns a fresh random key-derivation salt.
func NewSalt() []byte {
	return common.GenerateRandByteArray(SaltSize)
}

// Seal encrypts plaintext under key with AES-256-GCM using a fresh random
// 12-byte nonce and returns base64(nonce || ciphertext+tag). A new nonce is
// drawn from crypto/rand on every call, so sealing the same plaintext twice
// never yields the same envelope.
func Seal(key, plaintext []byte) (string, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	sealed := aesgcm.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Open decodes an envelope produced by Seal, splits nonce and ciphertext,
// and decrypts while verifying the authentication tag in one step. Any
// malformed envelope or failed tag check yields common.ErrorDecryption;
// no partial plaintext is ever returned.
func Open(key []byte, envelope string) ([]byte, error) {
	combined, err := base64.StdEncoding.DecodeString(envelope)
	if err != nil {
		return nil, common.ErrorDecryption
	}
	if len(combined) < nonceSize {
		return nil, common.ErrorDecryption
	}

	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce, ciphertext := combined[:nonceSize], combined[nonceSize:]
	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, common.ErrorDecryption
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
