package service

import (
	"Subfapp/internal/api/dto"
	"Subfapp/internal/model"
	"Subfapp/internal/ranking"
	"Subfapp/internal/repository"
	"context"
	"errors"
	log "log/slog"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

const mysqlDeadlock = 1213

type VoteService interface {
	// RecordVote value 为 0 时撤销投票，返回投票后的计数
	RecordVote(ctx context.Context, userID, postID uint64, value int) (*dto.VoteResultDTO, error)
}

type voteServiceImpl struct {
	voteRepo       repository.VoteRepo
	postRepo       repository.PostRepo
	engagementRepo repository.EngagementRepo
	trigger        ScoreTrigger
	clock          ranking.Clock
}

func NewVoteService(
	voteRepo repository.VoteRepo,
	postRepo repository.PostRepo,
	engagementRepo repository.EngagementRepo,
	trigger ScoreTrigger,
	clock ranking.Clock,
) VoteService {
	if clock == nil {
		clock = ranking.SystemClock()
	}
	return &voteServiceImpl{
		voteRepo:       voteRepo,
		postRepo:       postRepo,
		engagementRepo: engagementRepo,
		trigger:        trigger,
		clock:          clock,
	}
}

func (s *voteServiceImpl) RecordVote(ctx context.Context, userID, postID uint64, value int) (*dto.VoteResultDTO, error) {
	if !model.IsValidVoteValue(value) {
		return nil, ErrInvalidVoteValue
	}
	if userID == 0 || postID == 0 {
		return nil, ErrParamInvalid
	}

	post, err := s.postRepo.GetPost(ctx, postID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, storeErr("get post", err)
	}

	if err = s.writeVote(ctx, userID, postID, int8(value)); err != nil {
		return nil, storeErr("write vote", err)
	}

	// 投票已落库，得分刷新失败只记录日志，等待下一次触发或定时任务修正
	if err = s.trigger.OnVoteChanged(ctx, postID); err != nil {
		log.ErrorContext(ctx, "refresh post score after vote failed", "post_id", postID, "err", err)
	}

	result := &dto.VoteResultDTO{
		PostID:    postID,
		Score:     post.Score,
		Upvotes:   post.Upvotes,
		Downvotes: post.Downvotes,
		UserVote:  int8(value),
	}
	upvotes, upErr := s.engagementRepo.CountVotesByType(ctx, postID, model.VoteUp, nil)
	downvotes, downErr := s.engagementRepo.CountVotesByType(ctx, postID, model.VoteDown, nil)
	if upErr != nil || downErr != nil {
		log.WarnContext(ctx, "count votes after vote failed, returning stored counts",
			"post_id", postID, "up_err", upErr, "down_err", downErr)
		return result, nil
	}
	result.Upvotes = upvotes
	result.Downvotes = downvotes
	result.Score = upvotes - downvotes
	return result, nil
}

// writeVote 死锁时重试一次，最终以最后一次写入为准
func (s *voteServiceImpl) writeVote(ctx context.Context, userID, postID uint64, value int8) error {
	now := s.clock.Now()
	write := func() error {
		if value == model.VoteNone {
			return s.voteRepo.DeleteVote(ctx, userID, postID)
		}
		return s.voteRepo.UpsertVote(ctx, userID, postID, value, now)
	}

	err := write()
	if isDeadlock(err) {
		log.WarnContext(ctx, "vote write deadlock, retrying", "post_id", postID, "user_id", userID)
		err = write()
	}
	return err
}

func isDeadlock(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDeadlock
}
