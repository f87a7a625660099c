// Package pinhash abstracts PIN digest computation so the ledger store
// never depends on a concrete algorithm and a slow salted hash can be
// swapped in without touching storage code.
package pinhash

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher turns a plaintext PIN into a one-way digest and checks a
// candidate PIN against a stored digest. Implementations must never
// retain or log the plaintext.
type Hasher interface {
	Hash(pin string) (string, error)
	Verify(pin, digest string) bool
}

// SHA256 hashes PINs with a plain SHA-256 hex digest.
type SHA256 struct{}

func (SHA256) Hash(pin string) (string, error) {
	sum := sha256.Sum256([]byte(pin))
	return hex.EncodeToString(sum[:]), nil
}

// Verify recomputes the digest and compares in constant time.
func (SHA256) Verify(pin, digest string) bool {
	sum := sha256.Sum256([]byte(pin))
	return subtle.ConstantTimeCompare([]byte(hex.EncodeToString(sum[:])), []byte(digest)) == 1
}

// Bcrypt hashes PINs with bcrypt. Slower than SHA256 but salted, so
// identical PINs do not share a digest.
type Bcrypt struct {
	// Cost is the bcrypt work factor. Zero means bcrypt.DefaultCost.
	Cost int
}

func (b Bcrypt) Hash(pin string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(pin), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash pin: %w", err)
	}
	return string(digest), nil
}

func (b Bcrypt) Verify(pin, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(pin)) == nil
}
