package repository

import (
	"Subfapp/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VoteRepo interface {
	UpsertVote(ctx context.Context, userID, postID uint64, voteType int8, at time.Time) error
	DeleteVote(ctx context.Context, userID, postID uint64) error
	GetUserVote(ctx context.Context, userID, postID uint64) (int8, error)
}

type voteRepoImpl struct {
	db *gorm.DB
}

func NewVoteRepository(db *gorm.DB) VoteRepo {
	return &voteRepoImpl{db: db}
}

// UpsertVote 依赖 (user_id, post_id) 唯一索引，同一用户对同一帖子只保留一条记录；
// 改票只刷新 vote_type 与 updated_at
func (r *voteRepoImpl) UpsertVote(ctx context.Context, userID, postID uint64, voteType int8, at time.Time) error {
	vote := &model.PostVote{
		UserID:    userID,
		PostID:    postID,
		VoteType:  voteType,
		CreatedAt: at,
		UpdatedAt: at,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "post_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"vote_type", "updated_at"}),
	}).Create(vote).Error
}

func (r *voteRepoImpl) DeleteVote(ctx context.Context, userID, postID uint64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&model.PostVote{}).Error
}

// GetUserVote 未投票时返回 0
func (r *voteRepoImpl) GetUserVote(ctx context.Context, userID, postID uint64) (int8, error) {
	var vote model.PostVote
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		First(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.VoteNone, nil
	}
	if err != nil {
		return model.VoteNone, err
	}
	return vote.VoteType, nil
}
