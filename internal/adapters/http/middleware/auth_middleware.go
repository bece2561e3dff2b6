package middleware

import (
	"errors"
	"strings"

	"paysecure/internal/adapters/revocation"
	"paysecure/internal/core/domain"
	"paysecure/internal/core/policy"
	"paysecure/internal/pkg/jwt"
	"paysecure/internal/pkg/metrics"
	"paysecure/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Keys under which authenticated request state is stored in c.Locals
const (
	LocalClaims = "claims"
	LocalUserID = "userID"
	LocalRole   = "role"
	LocalToken  = "token"
)

// CustomerAuth authenticates customer-portal requests
func CustomerAuth(issuer *jwt.Issuer, store revocation.Store) fiber.Handler {
	return authenticate(issuer, store, "")
}

// StaffAuth authenticates staff-portal requests. Tokens must carry the
// employee type claim.
func StaffAuth(issuer *jwt.Issuer, store revocation.Store) fiber.Handler {
	return authenticate(issuer, store, jwt.TypeEmployee)
}

func authenticate(issuer *jwt.Issuer, store revocation.Store, requiredType string) fiber.Handler {
	portal := issuer.Audience()

	return func(c *fiber.Ctx) error {
		// 1. Extract bearer token
		token := bearerToken(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			metrics.TokenRejections.WithLabelValues(portal, "missing").Inc()
			return response.Unauthorized(c, "Access denied. No token provided.")
		}

		// 2. Check revocation before spending time on the signature
		revoked, err := store.IsRevoked(c.UserContext(), token)
		if err != nil {
			return err
		}
		if revoked {
			metrics.TokenRejections.WithLabelValues(portal, "revoked").Inc()
			return response.Unauthorized(c, "Token has been invalidated")
		}

		// 3. Verify signature, audience, issuer and expiry
		claims, err := issuer.Verify(token)
		if err != nil {
			reason := "invalid"
			if errors.Is(err, jwt.ErrTokenExpired) {
				reason = "expired"
			}
			metrics.TokenRejections.WithLabelValues(portal, reason).Inc()
			return response.Forbidden(c, "Invalid or expired token")
		}

		// 4. Portal-specific type check
		if requiredType != "" && claims.Type != requiredType {
			metrics.TokenRejections.WithLabelValues(portal, "type").Inc()
			return response.Forbidden(c, "Invalid token type")
		}

		// 5. Set principal in context
		role := claims.Role
		if role == "" {
			role = string(domain.RoleUser)
		}
		c.Locals(LocalClaims, claims)
		c.Locals(LocalUserID, claims.SubjectID)
		c.Locals(LocalRole, role)
		c.Locals(LocalToken, token)

		return c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// RequireCapability allows the request only when the caller's role holds capability
func RequireCapability(capability policy.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(LocalRole).(string)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		if !policy.Allows(domain.Role(role), capability) {
			return response.Forbidden(c, "Insufficient permissions")
		}
		return c.Next()
	}
}

// ClaimsFrom returns the verified claims set by CustomerAuth or StaffAuth
func ClaimsFrom(c *fiber.Ctx) (*jwt.Claims, bool) {
	claims, ok := c.Locals(LocalClaims).(*jwt.Claims)
	return claims, ok
}

// UserIDFrom returns the authenticated principal's id
func UserIDFrom(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals(LocalUserID).(uint)
	return id, ok
}

// TokenFrom returns the raw bearer token of the request
func TokenFrom(c *fiber.Ctx) string {
	token, _ := c.Locals(LocalToken).(string)
	return token
}
