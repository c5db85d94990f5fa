package auth

import (
	"context"
	"log"

	helper "dormku_backend/internals/helpers"
	helperAuth "dormku_backend/internals/helpers/auth"

	"github.com/gofiber/fiber/v2"
)

// Authenticator turns a raw bearer token into a principal (signature, expiry, blacklist, account state).
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (helperAuth.Principal, error)
}

type AuthJWTOpts struct {
	Auth                Authenticator
	AllowCookieFallback bool // access_token cookie when there is no Bearer header
}

// AuthJWT resolves the principal once per request and stores it in locals.
func AuthJWT(o AuthJWTOpts) fiber.Handler {
	if o.Auth == nil {
		panic("AuthJWT: Auth is required")
	}
	return func(c *fiber.Ctx) error {
		if _, ok := helperAuth.PrincipalFrom(c); ok {
			return c.Next()
		}

		raw := helperAuth.GetRawAccessToken(c, o.AllowCookieFallback)
		if raw == "" {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - missing token")
		}

		p, err := o.Auth.Authenticate(helper.ReqCtx(c), raw)
		if err != nil {
			log.Printf("[WARN] auth rejected %s %s: %v", c.Method(), c.Path(), err)
			return helper.JsonServiceError(c, err)
		}

		helperAuth.StorePrincipal(c, p)
		return c.Next()
	}
}
