package main

import (
	"Subfapp/internal/pkg/cron"
	"Subfapp/internal/wire"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func main() {
	infra, err := wire.Bootstrap()
	if err != nil {
		log.Error("Fatal error: bootstrap failed", "err", err)
		os.Exit(1)
	}

	app, err := wire.BuildApplication(infra.DB, infra.Ext, infra.Cfg)
	if err != nil {
		log.Error("Fatal error: failed to create application", "err", err)
		os.Exit(1)
	}

	if err = serve(app, infra.Cfg.Server.Port); err != nil {
		log.Error("App exited with error", "err", err)
		os.Exit(1)
	}
	log.Info("App exited successfully.")
}

// serve 运行 HTTP、定时任务与 Kafka 消费者，任一退出或收到信号后整体关闭
func serve(app *wire.ApplicationContainer, port int) error {
	if err := cron.InitCron(app.CronMgr); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           app.Router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g.Go(func() error {
		log.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if app.KafkaManager != nil {
		g.Go(func() error {
			return app.KafkaManager.Start(ctx)
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down", "cause", context.Cause(ctx))

		// 先停止接收新任务，再等待进行中的请求
		app.CronMgr.Stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
