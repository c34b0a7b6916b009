package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/courseware-backend/internal/http/response"
	"github.com/yungbote/courseware-backend/internal/platform/ctxutil"
	"github.com/yungbote/courseware-backend/internal/platform/logger"
	"github.com/yungbote/courseware-backend/internal/services"
)

type AuthMiddleware struct {
	log      *logger.Logger
	verifier services.TokenVerifier
	users    services.UserService
}

func NewAuthMiddleware(log *logger.Logger, verifier services.TokenVerifier, users services.UserService) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("middleware", "AuthMiddleware"), verifier: verifier, users: users}
}

// RequireAuth verifies the bearer token, attaches the identity and syncs the user row
// so first sign-in creates it.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractTokenFromAll(c)
		if tokenString == "" {
			response.AbortError(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token")
			return
		}
		id, err := am.verifier.Verify(c.Request.Context(), tokenString)
		if err != nil || id == nil {
			response.AbortError(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token")
			return
		}
		ctx := ctxutil.WithIdentity(c.Request.Context(), id)
		c.Request = c.Request.WithContext(ctx)

		if am.users != nil {
			if _, err := am.users.SyncUser(ctx, id.UserID); err != nil {
				response.RespondFromError(c, am.log, err)
				c.Abort()
				return
			}
		}
		c.Next()
	}
}

// EventSource cannot set headers, so the stream endpoint also accepts ?token=.
func extractTokenFromAll(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return strings.TrimSpace(c.Query("token"))
}
