package main

import (
	"Subfapp/internal/job"
	"Subfapp/internal/pkg/logger"
	"Subfapp/internal/wire"
	"context"
	"fmt"
	log "log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
)

const (
	modeMetrics = "metrics"
	modeHot     = "hot"
)

func main() {
	limit := pflag.IntP("limit", "l", -1, "max posts to process; -1 uses the config value, 0 means no limit")
	mode := pflag.StringP("mode", "m", modeMetrics, "metrics: rotate 24h baseline and rescore stale posts; hot: rescore posts of the last 7 days")
	pflag.Parse()

	if err := run(*mode, *limit); err != nil {
		fmt.Fprintln(os.Stderr, "rollover:", err)
		os.Exit(1)
	}
}

func run(mode string, limit int) error {
	if mode != modeMetrics && mode != modeHot {
		return fmt.Errorf("unknown mode %q", mode)
	}

	infra, err := wire.Bootstrap()
	if err != nil {
		return err
	}
	cfg := infra.Cfg
	core := wire.BuildCore(infra.DB, infra.Ext, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var result *job.RolloverResult
	switch mode {
	case modeHot:
		limit = resolveLimit(limit, cfg.Jobs.HotRefreshLimit)
		ctx = logger.JobContext(ctx, job.HotRefreshName)
		result, err = core.HotRefreshJob.RefreshHotScores(ctx, limit)
	default:
		limit = resolveLimit(limit, cfg.Jobs.RolloverLimit)
		ctx = logger.JobContext(ctx, job.MetricsRolloverName)
		result, err = core.RolloverJob.RunMetricsRollover(ctx, limit)
	}
	if err != nil {
		return err
	}

	log.InfoContext(ctx, "done", "mode", mode, "processed", result.PostsProcessed,
		"skipped", result.Skipped, "errors", len(result.Errors))
	fmt.Printf("processed=%d skipped=%d errors=%d\n", result.PostsProcessed, result.Skipped, len(result.Errors))
	for _, e := range result.Errors {
		fmt.Printf("  post %d: %v\n", e.PostID, e.Err)
	}
	if len(result.Errors) > 0 {
		return fmt.Errorf("%d posts failed", len(result.Errors))
	}
	return nil
}

// resolveLimit 负数取配置值，0 表示不限
func resolveLimit(flag, configured int) int {
	if flag < 0 {
		return configured
	}
	return flag
}
