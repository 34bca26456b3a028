package service

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher hashes passwords before they leave the process and
// verifies candidates against stored hashes.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

// BcryptHasher is the default hasher for new accounts.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) cost() int {
	if h.Cost == 0 {
		return bcrypt.DefaultCost
	}
	return h.Cost
}

func (h BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost())
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (h BcryptHasher) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// legacySalt matches the fixed salt older account records were hashed
// with, so those users can still log in.
const legacySalt = "cinehub_salt"

// LegacyHasher is the salted SHA-256 scheme of pre-existing records.
// It is verify-only in practice; new hashes always go through bcrypt.
type LegacyHasher struct{}

func (LegacyHasher) Hash(password string) (string, error) {
	sum := sha256.Sum256([]byte(password + legacySalt))
	return hex.EncodeToString(sum[:]), nil
}

func (LegacyHasher) Verify(hash, password string) bool {
	sum := sha256.Sum256([]byte(password + legacySalt))
	candidate := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(hash), []byte(candidate)) == 1
}
