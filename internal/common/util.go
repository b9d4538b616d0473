package common

import (
	"crypto/rand"
)

// GenerateRandByteArray returns n cryptographically secure random bytes.
// It panics if the system random source fails, which is not recoverable.
func GenerateRandByteArray(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}

// WipeByteArray overwrites b with zeros. Used to drop key material and
// secrets from memory once they are no longer needed. Nil-safe.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
