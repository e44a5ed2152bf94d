package job

import (
	"Subfapp/internal/pkg/consts"
	"Subfapp/internal/pkg/logger"
	"Subfapp/internal/ranking"
	"Subfapp/internal/repository"
	"Subfapp/internal/service"
	"context"
	"errors"
	log "log/slog"
	"time"
)

const HotRefreshName = "hot-refresh"

// HotScoreRefreshJob 定期重算近期帖子的热度，让时间衰减和窗口外的互动及时生效
type HotScoreRefreshJob struct {
	postRepo repository.PostRepo
	scoring  service.ScoringService
	locker   service.Cache
	archiver RunArchiver
	clock    ranking.Clock
	limit    int
	lockTTL  time.Duration
}

func NewHotScoreRefreshJob(
	postRepo repository.PostRepo,
	scoring service.ScoringService,
	locker service.Cache,
	archiver RunArchiver,
	clock ranking.Clock,
	limit int,
	lockTTL time.Duration,
) *HotScoreRefreshJob {
	if clock == nil {
		clock = ranking.SystemClock()
	}
	if lockTTL <= 0 {
		lockTTL = 30 * time.Minute
	}
	return &HotScoreRefreshJob{
		postRepo: postRepo,
		scoring:  scoring,
		locker:   locker,
		archiver: archiver,
		clock:    clock,
		limit:    limit,
		lockTTL:  lockTTL,
	}
}

func (s *HotScoreRefreshJob) Run() {
	ctx := logger.JobContext(context.Background(), HotRefreshName)
	if _, err := s.RefreshHotScores(ctx, s.limit); err != nil {
		if errors.Is(err, service.ErrJobRunning) {
			log.InfoContext(ctx, "hot score refresh already running, skip")
			return
		}
		log.ErrorContext(ctx, "hot score refresh failed", "err", err)
	}
}

// RefreshHotScores 最近 7 天发布的帖子，最新的优先
func (s *HotScoreRefreshJob) RefreshHotScores(ctx context.Context, limit int) (*RolloverResult, error) {
	if s.locker != nil {
		token := logger.TraceID(ctx)
		if token == "" {
			token = HotRefreshName
		}
		ok, err := s.locker.TryLock(ctx, consts.HotRefreshLock, token, s.lockTTL)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, service.ErrJobRunning
		}
		defer s.locker.UnLock(ctx, consts.HotRefreshLock, token)
	}

	now := s.clock.Now()
	result := &RolloverResult{StartedAt: now}

	since := now.AddDate(0, 0, -consts.RecentPostDays)
	postIDs, err := s.postRepo.ListRecentPostIDs(ctx, since, limit)
	if err != nil {
		return nil, err
	}

	for _, pid := range postIDs {
		if ctx.Err() != nil {
			result.addError(pid, ctx.Err())
			break
		}
		_, err = s.scoring.UpdateHotScore(ctx, pid)
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			result.Skipped++
		case err != nil:
			log.ErrorContext(ctx, "refresh hot score failed", "pid", pid, "err", err)
			result.addError(pid, err)
		default:
			result.PostsProcessed++
		}
	}

	result.FinishedAt = s.clock.Now()
	log.InfoContext(ctx, "hot score refresh finished",
		"selected", len(postIDs),
		"processed", result.PostsProcessed,
		"skipped", result.Skipped,
		"errors", len(result.Errors))

	archive(ctx, s.archiver, toRunDTO(ctx, HotRefreshName, limit, result))
	return result, nil
}
