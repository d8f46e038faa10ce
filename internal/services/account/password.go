package account

import (
	"crypto/rand"
	"crypto/sha1"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltLength     = 16
	hashLength     = 20
	hashIterations = 10000
)

// HashedPassword is a password stored as a PBKDF2 hash with its salt.
type HashedPassword struct {
	Hash []byte
	Salt []byte
}

// NewHashedPassword derives a HashedPassword from a plain password
// with a freshly generated random salt.
func NewHashedPassword(plain string) (HashedPassword, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return HashedPassword{}, fmt.Errorf("failed to generate salt: %w", err)
	}

	return HashedPassword{
		Hash: deriveHash(plain, salt),
		Salt: salt,
	}, nil
}

// Matches reports whether the plain password matches this stored hash.
// The comparison runs in constant time.
func (p HashedPassword) Matches(plain string) bool {
	hash := deriveHash(plain, p.Salt)
	return subtle.ConstantTimeCompare(hash, p.Hash) == 1
}

func deriveHash(plain string, salt []byte) []byte {
	return pbkdf2.Key([]byte(plain), salt, hashIterations, hashLength, sha1.New)
}
