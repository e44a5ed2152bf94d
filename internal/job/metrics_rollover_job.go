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

	"gorm.io/gorm"
)

const (
	MetricsRolloverName = "metrics-rollover"
	// StaleAfter 距离上次快照超过该时长的帖子参与轮转
	StaleAfter = time.Hour
)

// MetricsRolloverJob 刷新 24h 基线并对过期帖子重新计算得分
type MetricsRolloverJob struct {
	postRepo repository.PostRepo
	scoring  service.ScoringService
	locker   service.Cache
	archiver RunArchiver
	clock    ranking.Clock
	limit    int
	lockTTL  time.Duration
}

func NewMetricsRolloverJob(
	postRepo repository.PostRepo,
	scoring service.ScoringService,
	locker service.Cache,
	archiver RunArchiver,
	clock ranking.Clock,
	limit int,
	lockTTL time.Duration,
) *MetricsRolloverJob {
	if clock == nil {
		clock = ranking.SystemClock()
	}
	if lockTTL <= 0 {
		lockTTL = 30 * time.Minute
	}
	return &MetricsRolloverJob{
		postRepo: postRepo,
		scoring:  scoring,
		locker:   locker,
		archiver: archiver,
		clock:    clock,
		limit:    limit,
		lockTTL:  lockTTL,
	}
}

// Run 供 cron 调用
func (s *MetricsRolloverJob) Run() {
	ctx := logger.JobContext(context.Background(), MetricsRolloverName)
	if _, err := s.RunMetricsRollover(ctx, s.limit); err != nil {
		if errors.Is(err, service.ErrJobRunning) {
			log.InfoContext(ctx, "metrics rollover already running, skip")
			return
		}
		log.ErrorContext(ctx, "metrics rollover failed", "err", err)
	}
}

// RunMetricsRollover limit <= 0 表示不限制数量
func (s *MetricsRolloverJob) RunMetricsRollover(ctx context.Context, limit int) (*RolloverResult, error) {
	if s.locker != nil {
		token := logger.TraceID(ctx)
		if token == "" {
			token = MetricsRolloverName
		}
		ok, err := s.locker.TryLock(ctx, consts.MetricsRolloverLock, token, s.lockTTL)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, service.ErrJobRunning
		}
		defer s.locker.UnLock(ctx, consts.MetricsRolloverLock, token)
	}

	now := s.clock.Now()
	result := &RolloverResult{StartedAt: now}

	postIDs, err := s.postRepo.ListStalePostIDs(ctx, now.Add(-StaleAfter), limit)
	if err != nil {
		return nil, err
	}

	for _, pid := range postIDs {
		if ctx.Err() != nil {
			result.addError(pid, ctx.Err())
			break
		}
		skipped, err := s.rollover(ctx, pid, now)
		switch {
		case skipped:
			result.Skipped++
		case err != nil:
			log.ErrorContext(ctx, "rollover post failed", "pid", pid, "err", err)
			result.addError(pid, err)
		default:
			result.PostsProcessed++
		}
	}

	result.FinishedAt = s.clock.Now()
	log.InfoContext(ctx, "metrics rollover finished",
		"selected", len(postIDs),
		"processed", result.PostsProcessed,
		"skipped", result.Skipped,
		"errors", len(result.Errors))

	archive(ctx, s.archiver, toRunDTO(ctx, MetricsRolloverName, limit, result))
	return result, nil
}

// rollover 先保存旧基线，再写入新快照，热门判断与得分重算都使用旧基线
func (s *MetricsRolloverJob) rollover(ctx context.Context, pid uint64, now time.Time) (bool, error) {
	post, err := s.postRepo.GetPost(ctx, pid)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}

	previous := service.BaselineOf(post)

	if err = s.postRepo.SnapshotMetrics(ctx, pid, post.ViewsCount, post.Score, now); err != nil {
		return false, err
	}
	post.ViewsCount24h = post.ViewsCount
	post.Score24h = post.Score
	post.MetricsUpdatedAt = &now

	if err = s.scoring.EvaluateTrending(ctx, post, previous); err != nil {
		return false, err
	}
	return false, s.scoring.RecomputeWithBaseline(ctx, post, previous)
}
