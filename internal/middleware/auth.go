package middleware

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/noah-isme/projecthub-api/internal/authz"
	"github.com/noah-isme/projecthub-api/internal/profile"
	"github.com/noah-isme/projecthub-api/internal/utils"
)

const identityLocal = "identity"

// ScopeLookup resolves the college/department assignment for a subject.
// profile.Client satisfies it.
type ScopeLookup interface {
	LookupScope(ctx context.Context, subject string) (profile.Scope, bool)
}

// AuthConfig configures bearer-token authentication.
type AuthConfig struct {
	Secret   string
	Issuer   string
	Audience string
	Profiles ScopeLookup
	Logger   zerolog.Logger
}

// Authenticate validates the bearer token, resolves the caller's identity and
// enriches admin identities with their scope assignment. A failed scope
// lookup is non-fatal: the identity proceeds without scope and the gates deny
// elevated access.
func Authenticate(cfg AuthConfig) fiber.Handler {
	logger := cfg.Logger.With().Str("component", "auth_middleware").Logger()

	options := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"})}
	if cfg.Issuer != "" {
		options = append(options, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		options = append(options, jwt.WithAudience(cfg.Audience))
	}

	return func(c *fiber.Ctx) error {
		authorization := c.Get("Authorization")
		if authorization == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authorization header missing")
		}

		const bearer = "Bearer "
		if !strings.HasPrefix(strings.ToLower(authorization), strings.ToLower(bearer)) {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid authorization header")
		}

		tokenString := strings.TrimSpace(authorization[len(bearer):])
		if tokenString == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(cfg.Secret), nil
		}, options...)
		if err != nil || !token.Valid {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token claims")
		}

		identity := identityFromClaims(claims)
		if identity.Subject == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "token missing subject")
		}

		if cfg.Profiles != nil && identity.HasRoleAtLeast(authz.RoleDeptAdmin) {
			scope, ok := cfg.Profiles.LookupScope(c.Context(), identity.Subject)
			if ok {
				identity.Scope = authz.Scope{CollegeID: scope.CollegeID, Department: scope.Department}
			} else {
				logger.Warn().Str("subject", identity.Subject).Msg("scope lookup failed, proceeding without scope")
			}
		}

		c.Locals(identityLocal, identity)
		return c.Next()
	}
}

// IdentityFromContext returns the resolved identity bound to the request, or
// nil when authentication did not run.
func IdentityFromContext(c *fiber.Ctx) *authz.Identity {
	if v := c.Locals(identityLocal); v != nil {
		if identity, ok := v.(*authz.Identity); ok {
			return identity
		}
	}
	return nil
}

func identityFromClaims(claims jwt.MapClaims) *authz.Identity {
	identity := &authz.Identity{}

	if sub, ok := claims["sub"].(string); ok {
		identity.Subject = strings.TrimSpace(sub)
	}
	if name, ok := claims["name"].(string); ok {
		identity.Name = strings.TrimSpace(name)
	}
	if email, ok := claims["email"].(string); ok {
		identity.Email = strings.ToLower(strings.TrimSpace(email))
	}

	identity.Roles = rolesFromClaim(claims["roles"])
	if len(identity.Roles) == 0 {
		identity.Roles = rolesFromClaim(claims["role"])
	}

	return identity
}

func rolesFromClaim(value interface{}) []authz.Role {
	var roles []authz.Role

	appendRole := func(raw string) {
		if role := authz.ParseRole(raw); role != authz.RoleUnknown {
			roles = append(roles, role)
		}
	}

	switch v := value.(type) {
	case string:
		appendRole(v)
	case []interface{}:
		for _, item := range v {
			if str, ok := item.(string); ok {
				appendRole(str)
			}
		}
	case []string:
		for _, str := range v {
			appendRole(str)
		}
	}

	return roles
}
