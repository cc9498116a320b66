// internals/middlewares/auth/jwt_auth.go
package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	helper "campusaxis_backend/internals/helpers"
)

const LocRolesGlobal = "roles_global"

type AuthJWTOpts struct {
	Secret              string
	AllowCookieFallback bool // read the access_token cookie when there is no Bearer header
	// Optional lets anonymous requests through; a token that is present
	// but invalid is still rejected.
	Optional bool
}

func AuthJWT(o AuthJWTOpts) fiber.Handler {
	secret := strings.TrimSpace(o.Secret)
	if secret == "" {
		panic("AuthJWT: Secret is required")
	}

	return func(c *fiber.Ctx) error {
		raw := extractBearerToken(c, o.AllowCookieFallback)
		if raw == "" {
			if o.Optional {
				return c.Next()
			}
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}

		tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !tok.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
		}

		claims, ok := tok.Claims.(jwt.MapClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
		}

		// user id: id / sub / user_id in order of preference
		var uid string
		for _, key := range []string{"id", "sub", "user_id"} {
			if uid = strClaim(claims, key); uid != "" {
				break
			}
		}
		if _, err := uuid.Parse(uid); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid user id in token")
		}

		c.Locals("jwt_claims", claims)
		c.Locals(helper.LocUserID, uid)
		c.Locals(LocRolesGlobal, readStringSlice(claims["roles_global"]))
		return c.Next()
	}
}

func extractBearerToken(c *fiber.Ctx, cookieFallback bool) string {
	authz := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	fields := strings.Fields(authz)
	if len(fields) == 2 && strings.EqualFold(fields[0], "bearer") {
		return strings.Trim(fields[1], "\"'")
	}
	if cookieFallback {
		return strings.TrimSpace(c.Cookies("access_token"))
	}
	return ""
}

func strClaim(m jwt.MapClaims, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// readStringSlice accepts []string or the []any a JSON decode produces.
func readStringSlice(v any) []string {
	out := make([]string, 0)
	switch t := v.(type) {
	case []string:
		for _, s := range t {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for _, it := range t {
			if s, ok := it.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
		}
	case string:
		for _, s := range strings.Split(t, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
