package password

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost is the default bcrypt cost
	DefaultCost = 12

	// MinLength is the minimum accepted password length
	MinLength = 6
)

var cost = DefaultCost

// dummy is compared against when the principal does not exist so that
// unknown accounts pay for a comparison at the same work factor as real ones.
var dummy struct {
	mu   sync.Mutex
	hash []byte
	cost int
}

// SetCost overrides the work factor. Values outside bcrypt's range are ignored.
func SetCost(c int) {
	if c >= bcrypt.MinCost && c <= bcrypt.MaxCost {
		cost = c
	}
}

// Hash hashes a password using bcrypt with a random per-record salt
func Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify compares a password with a hash
func Verify(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// VerifyMissing burns a comparison for a principal that was not found.
// It always returns false.
func VerifyMissing(password string) bool {
	_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
	return false
}

// dummyHash returns a hash at the current cost, rebuilding it after SetCost
func dummyHash() []byte {
	dummy.mu.Lock()
	defer dummy.mu.Unlock()

	if dummy.hash == nil || dummy.cost != cost {
		h, err := bcrypt.GenerateFromPassword([]byte("paysecure-dummy-password"), cost)
		if err != nil {
			// Unreachable for costs SetCost accepts; keep the last hash
			return dummy.hash
		}
		dummy.hash, dummy.cost = h, cost
	}
	return dummy.hash
}

// HashToken hashes a token using SHA256 (revocation keys)
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// ValidatePassword checks if password meets requirements
func ValidatePassword(password string) bool {
	return len(password) >= MinLength
}
