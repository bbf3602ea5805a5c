// Package hash wraps password hashing behind a small interface.
package hash

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"

	"golang.org/x/crypto/bcrypt"
)

// Hasher is a one-way salted transform with verification.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(hashed, plaintext string) bool
}

// Bcrypt keys an HMAC-SHA256 of the plaintext with the optional pepper and
// bcrypts the base64 digest. bcrypt refuses inputs over 72 bytes, the digest
// is always 44, so passwords of any length hash. The pepper lives in
// configuration, never in the store.
type Bcrypt struct {
	cost   int
	pepper []byte
}

func NewBcrypt(cost int, pepper string) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost, pepper: []byte(pepper)}
}

func (h *Bcrypt) Hash(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword(h.prehash(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h *Bcrypt) Verify(hashed, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), h.prehash(plaintext)) == nil
}

func (h *Bcrypt) prehash(plaintext string) []byte {
	mac := hmac.New(sha256.New, h.pepper)
	mac.Write([]byte(plaintext))
	sum := mac.Sum(nil)

	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum)
	return out
}
