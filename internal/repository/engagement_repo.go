package repository

import (
	"Subfapp/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

// EngagementRepo 只读的互动统计，直接查询数据源，不做缓存
type EngagementRepo interface {
	// CountVotesByType since 为空时统计全部历史
	CountVotesByType(ctx context.Context, postID uint64, voteType int8, since *time.Time) (int64, error)
	// CountComments 不包含已软删除的评论
	CountComments(ctx context.Context, postID uint64, since time.Time) (int64, error)
	CountViews(ctx context.Context, postID uint64, since time.Time) (int64, error)
}

type engagementRepoImpl struct {
	db *gorm.DB
}

func NewEngagementRepository(db *gorm.DB) EngagementRepo {
	return &engagementRepoImpl{db: db}
}

func (r *engagementRepoImpl) CountVotesByType(ctx context.Context, postID uint64, voteType int8, since *time.Time) (int64, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&model.PostVote{}).
		Where("post_id = ? AND vote_type = ?", postID, voteType)
	if since != nil {
		// 改票也算近期投票
		q = q.Where("updated_at >= ?", *since)
	}
	err := q.Count(&count).Error
	return count, err
}

func (r *engagementRepoImpl) CountComments(ctx context.Context, postID uint64, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.PostComment{}).
		Where("post_id = ? AND created_at >= ?", postID, since).
		Count(&count).Error
	return count, err
}

func (r *engagementRepoImpl) CountViews(ctx context.Context, postID uint64, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.PostView{}).
		Where("post_id = ? AND created_at >= ?", postID, since).
		Count(&count).Error
	return count, err
}
