package service

import (
	"context"
)

// ScoreTrigger 投票、评论、浏览写入后同步刷新单个帖子的得分，可重复调用
type ScoreTrigger interface {
	OnVoteChanged(ctx context.Context, postID uint64) error
	OnCommentChanged(ctx context.Context, postID uint64) error
	OnViewRecorded(ctx context.Context, postID uint64) error
}

type scoreTriggerImpl struct {
	scoring ScoringService
}

func NewScoreTrigger(scoring ScoringService) ScoreTrigger {
	return &scoreTriggerImpl{scoring: scoring}
}

func (s *scoreTriggerImpl) OnVoteChanged(ctx context.Context, postID uint64) error {
	_, err := s.scoring.UpdateHotScore(ctx, postID)
	return err
}

func (s *scoreTriggerImpl) OnCommentChanged(ctx context.Context, postID uint64) error {
	_, err := s.scoring.UpdateHotScore(ctx, postID)
	return err
}

func (s *scoreTriggerImpl) OnViewRecorded(ctx context.Context, postID uint64) error {
	_, err := s.scoring.UpdateTrendingStatus(ctx, postID)
	return err
}
