package service

import (
	"Subfapp/internal/model"
	"Subfapp/internal/ranking"
	"Subfapp/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"time"

	"gorm.io/gorm"
)

// Baseline 上一次指标轮转时记录的 24h 基线
type Baseline struct {
	ViewsCount int64
	Score      int64
}

// BaselineOf 读取帖子当前保存的基线
func BaselineOf(post *model.Post) Baseline {
	return Baseline{ViewsCount: post.ViewsCount24h, Score: post.Score24h}
}

// ScoreIndexer 得分更新后的外部同步 (搜索索引等)，失败不影响主流程
type ScoreIndexer interface {
	SyncPostScore(ctx context.Context, post *model.Post) error
}

type ScoringService interface {
	// UpdateHotScore 从投票记录重算 score，并重算 hot_score 与热门状态
	UpdateHotScore(ctx context.Context, postID uint64) (*model.Post, error)
	// UpdateTrendingStatus 仅根据相对基线的增量更新热门状态
	UpdateTrendingStatus(ctx context.Context, postID uint64) (*model.Post, error)
	// RecomputeWithBaseline 与 UpdateHotScore 相同，但增量按给定基线计算
	RecomputeWithBaseline(ctx context.Context, post *model.Post, baseline Baseline) error
	// EvaluateTrending 与 UpdateTrendingStatus 相同，但增量按给定基线计算
	EvaluateTrending(ctx context.Context, post *model.Post, baseline Baseline) error
}

type scoringServiceImpl struct {
	postRepo       repository.PostRepo
	engagementRepo repository.EngagementRepo
	indexer        ScoreIndexer
	policy         ranking.TrendingPolicy
	window         time.Duration
	clock          ranking.Clock
}

func NewScoringService(
	postRepo repository.PostRepo,
	engagementRepo repository.EngagementRepo,
	indexer ScoreIndexer,
	policy ranking.TrendingPolicy,
	window time.Duration,
	clock ranking.Clock,
) ScoringService {
	if window <= 0 {
		window = ranking.RecentWindow
	}
	if clock == nil {
		clock = ranking.SystemClock()
	}
	return &scoringServiceImpl{
		postRepo:       postRepo,
		engagementRepo: engagementRepo,
		indexer:        indexer,
		policy:         policy,
		window:         window,
		clock:          clock,
	}
}

func (s *scoringServiceImpl) UpdateHotScore(ctx context.Context, postID uint64) (*model.Post, error) {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err = s.RecomputeWithBaseline(ctx, post, BaselineOf(post)); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *scoringServiceImpl) UpdateTrendingStatus(ctx context.Context, postID uint64) (*model.Post, error) {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err = s.EvaluateTrending(ctx, post, BaselineOf(post)); err != nil {
		return nil, err
	}
	return post, nil
}

// RecomputeWithBaseline 先读取全部输入再一次性写回，任一读取失败都不会落库
func (s *scoringServiceImpl) RecomputeWithBaseline(ctx context.Context, post *model.Post, baseline Baseline) error {
	now := s.clock.Now()
	since := now.Add(-s.window)

	upvotes, err := s.engagementRepo.CountVotesByType(ctx, post.ID, model.VoteUp, nil)
	if err != nil {
		return storeErr("count upvotes", err)
	}
	downvotes, err := s.engagementRepo.CountVotesByType(ctx, post.ID, model.VoteDown, nil)
	if err != nil {
		return storeErr("count downvotes", err)
	}
	recentUp, err := s.engagementRepo.CountVotesByType(ctx, post.ID, model.VoteUp, &since)
	if err != nil {
		return storeErr("count recent upvotes", err)
	}
	recentDown, err := s.engagementRepo.CountVotesByType(ctx, post.ID, model.VoteDown, &since)
	if err != nil {
		return storeErr("count recent downvotes", err)
	}
	recentComments, err := s.engagementRepo.CountComments(ctx, post.ID, since)
	if err != nil {
		return storeErr("count recent comments", err)
	}
	recentViews, err := s.engagementRepo.CountViews(ctx, post.ID, since)
	if err != nil {
		return storeErr("count recent views", err)
	}

	score := upvotes - downvotes
	hotScore := ranking.HotScore(ranking.HotInput{
		Score:          score,
		CreatedAt:      post.CreatedAt,
		RecentComments: recentComments,
		RecentViews:    recentViews,
	})
	trendingStart := s.policy.Decide(now, post.TrendingStart, ranking.Signal{
		RecentScore:    recentUp - recentDown,
		RecentComments: recentComments,
		ViewsDelta:     post.ViewsCount - baseline.ViewsCount,
		ScoreDelta:     score - baseline.Score,
	})

	err = s.postRepo.UpdateScores(ctx, post.ID, repository.ScoreFields{
		Score:         score,
		Upvotes:       upvotes,
		Downvotes:     downvotes,
		HotScore:      hotScore,
		TrendingStart: trendingStart,
	})
	if err != nil {
		return storeErr("update scores", err)
	}

	post.Score = score
	post.Upvotes = upvotes
	post.Downvotes = downvotes
	post.HotScore = hotScore
	post.TrendingStart = trendingStart

	s.syncIndex(ctx, post)
	return nil
}

func (s *scoringServiceImpl) EvaluateTrending(ctx context.Context, post *model.Post, baseline Baseline) error {
	// 浏览路径不读取窗口内投票与评论，只有增长规则生效
	next := s.policy.Decide(s.clock.Now(), post.TrendingStart, ranking.Signal{
		ViewsDelta: post.ViewsCount - baseline.ViewsCount,
		ScoreDelta: post.Score - baseline.Score,
	})
	if sameInstant(next, post.TrendingStart) {
		return nil
	}

	if err := s.postRepo.UpdateTrendingStart(ctx, post.ID, next); err != nil {
		return storeErr("update trending start", err)
	}
	post.TrendingStart = next

	s.syncIndex(ctx, post)
	return nil
}

func (s *scoringServiceImpl) getPost(ctx context.Context, postID uint64) (*model.Post, error) {
	post, err := s.postRepo.GetPost(ctx, postID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, storeErr("get post", err)
	}
	return post, nil
}

func (s *scoringServiceImpl) syncIndex(ctx context.Context, post *model.Post) {
	if s.indexer == nil {
		return
	}
	if err := s.indexer.SyncPostScore(ctx, post); err != nil {
		log.WarnContext(ctx, "sync post score to index failed", "post_id", post.ID, "err", err)
	}
}

func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
