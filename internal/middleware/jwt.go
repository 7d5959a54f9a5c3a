package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	appErrors "github.com/noah-isme/timetable-core/pkg/errors"
	"github.com/noah-isme/timetable-core/pkg/response"
)

// ContextCallerKey is the gin context key storing the validated bearer subject.
const ContextCallerKey = "scheduleCaller"

// ServiceBearerClaims identifies the calling service, not a human user —
// the generation trigger is invoked by other backend services, never
// browsers, so there is no session/role machinery here.
type ServiceBearerClaims struct {
	jwt.RegisteredClaims
	Service string `json:"service"`
}

// ServiceBearer protects the generation-trigger endpoints with an
// HMAC-signed JWT verified against a pre-shared secret (signature plus the
// library's exp/nbf checks; no audience or issuer check) instead of the
// teacher's full user/role JWT
// system, matching spec.md's framing of authentication as an external
// collaborator's concern.
func ServiceBearer(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims := &ServiceBearerClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired service token"))
			c.Abort()
			return
		}

		c.Set(ContextCallerKey, claims.Service)
		c.Next()
	}
}
