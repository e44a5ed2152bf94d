package repository

import (
	"Subfapp/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

// ScoreFields 热度计算一次性写回的字段
type ScoreFields struct {
	Score         int64
	Upvotes       int64
	Downvotes     int64
	HotScore      float64
	TrendingStart *time.Time
}

type PostRepo interface {
	GetPost(ctx context.Context, id uint64) (*model.Post, error)
	UpdateScores(ctx context.Context, id uint64, fields ScoreFields) error
	UpdateTrendingStart(ctx context.Context, id uint64, start *time.Time) error
	SnapshotMetrics(ctx context.Context, id uint64, viewsCount, score int64, at time.Time) error
	RecordView(ctx context.Context, view *model.PostView) error
	ListStalePostIDs(ctx context.Context, cutoff time.Time, limit int) ([]uint64, error)
	ListRecentPostIDs(ctx context.Context, since time.Time, limit int) ([]uint64, error)
	ListFeed(ctx context.Context, scopes ...func(*gorm.DB) *gorm.DB) ([]*model.FeedPost, error)
}

type PostRepoImpl struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepo {
	return &PostRepoImpl{
		db: db,
	}
}

func (s *PostRepoImpl) GetPost(ctx context.Context, id uint64) (*model.Post, error) {
	var post model.Post
	err := s.db.WithContext(ctx).First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdateScores 单条 UPDATE 写回得分、热度与热门状态，不会出现部分更新
func (s *PostRepoImpl) UpdateScores(ctx context.Context, id uint64, fields ScoreFields) error {
	return s.db.WithContext(ctx).Model(&model.Post{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"score":          fields.Score,
			"upvotes":        fields.Upvotes,
			"downvotes":      fields.Downvotes,
			"hot_score":      fields.HotScore,
			"trending_start": fields.TrendingStart,
		}).Error
}

func (s *PostRepoImpl) UpdateTrendingStart(ctx context.Context, id uint64, start *time.Time) error {
	return s.db.WithContext(ctx).Model(&model.Post{}).
		Where("id = ?", id).
		Update("trending_start", start).Error
}

// SnapshotMetrics 将当前浏览量与得分记为新的 24h 基线
func (s *PostRepoImpl) SnapshotMetrics(ctx context.Context, id uint64, viewsCount, score int64, at time.Time) error {
	return s.db.WithContext(ctx).Model(&model.Post{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"views_count_24h":    viewsCount,
			"score_24h":          score,
			"metrics_updated_at": at,
		}).Error
}

// RecordView 写入浏览记录并累加 views_count
func (s *PostRepoImpl) RecordView(ctx context.Context, view *model.PostView) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Post{}).
			Where("id = ?", view.PostID).
			UpdateColumn("views_count", gorm.Expr("views_count + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Create(view).Error
	})
}

// ListStalePostIDs 指标从未轮转或上次轮转早于 cutoff 的帖子
func (s *PostRepoImpl) ListStalePostIDs(ctx context.Context, cutoff time.Time, limit int) ([]uint64, error) {
	var ids []uint64
	q := s.db.WithContext(ctx).Model(&model.Post{}).
		Where("metrics_updated_at IS NULL OR metrics_updated_at <= ?", cutoff).
		Order("id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Pluck("id", &ids).Error
	return ids, err
}

func (s *PostRepoImpl) ListRecentPostIDs(ctx context.Context, since time.Time, limit int) ([]uint64, error) {
	var ids []uint64
	q := s.db.WithContext(ctx).Model(&model.Post{}).
		Where("created_at >= ?", since).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Pluck("id", &ids).Error
	return ids, err
}

// ListFeed 按传入的可见性、排序、分页 scope 查询列表
func (s *PostRepoImpl) ListFeed(ctx context.Context, scopes ...func(*gorm.DB) *gorm.DB) ([]*model.FeedPost, error) {
	var posts []*model.FeedPost
	err := s.db.WithContext(ctx).Model(&model.Post{}).
		Scopes(scopes...).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}
