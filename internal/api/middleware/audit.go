package middleware

import (
	"bytes"
	"io"
	log "log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

const auditBodyLimit = 4096

type responseBodyWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (r *responseBodyWriter) Write(b []byte) (int, error) {
	if r.body.Len() < auditBodyLimit {
		r.body.Write(b)
	}
	return r.ResponseWriter.Write(b)
}

// AuditMiddleware 记录写请求的请求体与失败响应，读请求只由访问日志记录
func AuditMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == "GET" || c.Request.Method == "OPTIONS" {
			c.Next()
			return
		}
		ctx := c.Request.Context()

		var reqBody []byte
		if c.Request.Body != nil {
			reqBody, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewReader(reqBody))
		}

		w := &responseBodyWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = w
		startTime := time.Now()

		c.Next()

		fields := []any{
			log.String("method", c.Request.Method),
			log.String("path", c.Request.URL.Path),
			log.Any("user_id", c.GetUint64(UserIDKey)),
			log.String("req_body", string(reqBody[:min(len(reqBody), auditBodyLimit)])),
			log.Int("status", c.Writer.Status()),
			log.Duration("latency", time.Since(startTime)),
		}
		if c.Writer.Status() >= 400 {
			log.WarnContext(ctx, "Audit Request Failed", append(fields, log.String("res_body", w.body.String()))...)
			return
		}
		log.InfoContext(ctx, "Audit Request", fields...)
	}
}
