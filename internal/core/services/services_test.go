package services

import (
	"testing"
	"time"

	"paysecure/internal/adapters/revocation"
	"paysecure/internal/pkg/jwt"
	"paysecure/internal/pkg/password"

	"golang.org/x/crypto/bcrypt"
)

func init() {
	password.SetCost(bcrypt.MinCost)
}

func newIssuer(t *testing.T, audience string) *jwt.Issuer {
	t.Helper()
	secret := "customer-secret-for-tests"
	if audience == jwt.AudienceStaff {
		secret = "staff-secret-for-tests"
	}
	iss, err := jwt.NewIssuer(secret, audience, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return iss
}

func newStore() *revocation.MemoryStore {
	return revocation.NewMemoryStore()
}
