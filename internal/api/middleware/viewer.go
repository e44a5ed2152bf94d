package middleware

import (
	"Subfapp/internal/api/config"
	"Subfapp/internal/pkg/security"
	log "log/slog"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	UserIDHeader = "X-User-ID"
	UserIDKey    = "user_id"
)

// ViewerMiddleware 可选鉴权：优先解析 Bearer Token；
// 未携带 Token 且信任网关时读取 X-User-ID；失败或缺失均视为游客 (0)
func ViewerMiddleware(auth config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var userID uint64
		if token := security.BearerToken(c.GetHeader("Authorization")); token != "" {
			claims, err := security.ValidateToken(auth.JWTSecret, token)
			if err != nil {
				log.DebugContext(c.Request.Context(), "viewer token rejected", "err", err)
			} else {
				userID = claims.UserID
			}
		} else if auth.TrustUserHeader {
			if raw := c.GetHeader(UserIDHeader); raw != "" {
				if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
					userID = id
				}
			}
		}
		c.Set(UserIDKey, userID)
		c.Next()
	}
}
