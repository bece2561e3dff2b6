package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenExpired  = errors.New("token has expired")
	ErrTokenInvalid  = errors.New("token is invalid")
	ErrMissingSecret = errors.New("signing secret is not configured")
)

// Audiences. Each one is signed with its own secret.
const (
	AudienceCustomer = "customer"
	AudienceStaff    = "staff"
)

// TypeEmployee marks staff tokens.
const TypeEmployee = "employee"

const issuerName = "paysecure"

// Claims represents the JWT claims shared by both portals.
// Customer tokens leave Role and Type empty.
type Claims struct {
	SubjectID     uint   `json:"id"`
	DisplayName   string `json:"name"`
	AccountNumber string `json:"accountNumber,omitempty"`
	Role          string `json:"role,omitempty"`
	Type          string `json:"type,omitempty"`
	jwt.RegisteredClaims
}

// Principal is the input to Issue.
type Principal struct {
	ID            uint
	DisplayName   string
	AccountNumber string
	Role          string
	Type          string
}

// Issuer signs and verifies tokens for a single audience.
type Issuer struct {
	secret   []byte
	audience string
	ttl      time.Duration
	now      func() time.Time
}

// NewIssuer creates an issuer. An empty secret is a startup error.
func NewIssuer(secret, audience string, ttl time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if ttl <= 0 {
		return nil, errors.New("token lifetime must be positive")
	}
	return &Issuer{
		secret:   []byte(secret),
		audience: audience,
		ttl:      ttl,
		now:      time.Now,
	}, nil
}

// Audience returns the audience this issuer signs for.
func (i *Issuer) Audience() string {
	return i.audience
}

// Issue generates a signed token and returns it with its expiry.
func (i *Issuer) Issue(p Principal) (string, time.Time, error) {
	now := i.now()
	expiresAt := now.Add(i.ttl)

	claims := Claims{
		SubjectID:     p.ID,
		DisplayName:   p.DisplayName,
		AccountNumber: p.AccountNumber,
		Role:          p.Role,
		Type:          p.Type,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuerName,
			Audience:  jwt.ClaimStrings{i.audience},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify validates signature, audience, issuer and expiry.
func (i *Issuer) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(i.audience),
		jwt.WithIssuer(issuerName),
		jwt.WithTimeFunc(i.now),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrTokenInvalid
}

// ExpiresAtTime returns the expiry carried by the claims, or the zero time.
func (c *Claims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}
