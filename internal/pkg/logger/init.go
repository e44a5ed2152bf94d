package logger

import (
	"Subfapp/internal/api/config"
	"io"
	log "log/slog"
	"net"
	"os"
	"strings"
	"time"

	"github.com/natefinch/lumberjack"
)

var LogWriter io.Writer = os.Stdout

func parseLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "debug":
		return log.LevelDebug
	case "warn":
		return log.LevelWarn
	case "error":
		return log.LevelError
	default:
		return log.LevelInfo
	}
}

// localWriter 标准输出，配置了 log.file 时同时写入按大小滚动的文件
func localWriter(cfg config.LogConfig) io.Writer {
	if cfg.File == "" {
		return os.Stdout
	}
	return io.MultiWriter(os.Stdout, &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	})
}

// InitLogger 本地输出始终开启；配置了 Logstash 时把带 trace_id 的日志同时上报
func InitLogger() {
	opts := &log.HandlerOptions{Level: parseLevel(config.Cfg.Log.Level)}
	local := localWriter(config.Cfg.Log)
	LogWriter = local
	hStdout := log.NewJSONHandler(local, opts)

	var finalHandler log.Handler = hStdout

	cfg := config.Cfg.Logstash
	if cfg.Address != "" {
		conn, err := net.DialTimeout("tcp", cfg.Address, 3*time.Second)
		if err == nil {
			hRemote := log.NewJSONHandler(conn, opts).
				WithAttrs([]log.Attr{
					log.String("target_index", cfg.Index),
					log.String("log_token", cfg.Token),
				})
			finalHandler = &TeeHandler{
				handlers: []log.Handler{hStdout, &RemoteFilterHandler{next: hRemote}},
			}
			LogWriter = io.MultiWriter(local, conn)
		} else {
			log.Warn("Failed to connect to Logstash, logging to stdout only", "err", err)
		}
	}

	log.SetDefault(log.New(&ContextHandler{finalHandler}))
}
