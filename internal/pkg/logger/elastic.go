package logger

import (
	"bytes"
	"io"
	log "log/slog"
	"net/http"
	"time"
)

const esBodyLimit = 1000

// ESTransport 记录 ES 请求，只在失败时附带请求与响应体
type ESTransport struct {
	Transport http.RoundTripper
}

func (t *ESTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	var reqBody []byte
	if req.Body != nil {
		reqBody, _ = io.ReadAll(req.Body)
		req.Body = io.NopCloser(bytes.NewReader(reqBody))
	}

	resp, err := t.Transport.RoundTrip(req)
	elapsed := time.Since(start)

	fields := []any{
		log.String("method", req.Method),
		log.String("path", req.URL.Path),
		log.Duration("latency", elapsed),
	}

	if err != nil {
		fields = append(fields, log.String("req_body", truncate(reqBody)), log.Any("err", err))
		log.ErrorContext(req.Context(), "ES_REQUEST_ERROR", fields...)
		return nil, err
	}

	fields = append(fields, log.Int("status", resp.StatusCode))
	switch {
	case resp.StatusCode >= http.StatusBadRequest && resp.StatusCode != http.StatusNotFound:
		var resBody []byte
		if resp.Body != nil {
			resBody, _ = io.ReadAll(resp.Body)
			resp.Body = io.NopCloser(bytes.NewReader(resBody))
		}
		fields = append(fields, log.String("req_body", truncate(reqBody)), log.String("res_body", truncate(resBody)))
		log.ErrorContext(req.Context(), "ES_REQUEST_FAILED", fields...)
	case elapsed > 500*time.Millisecond:
		log.WarnContext(req.Context(), "ES_REQUEST_SLOW", fields...)
	default:
		log.DebugContext(req.Context(), "ES_REQUEST", fields...)
	}

	return resp, nil
}

func truncate(body []byte) string {
	if len(body) > esBodyLimit {
		return string(body[:esBodyLimit]) + "...[truncated]"
	}
	return string(body)
}
