package job

import (
	"Subfapp/internal/api/dto"
	"Subfapp/internal/pkg/logger"
	"context"
	log "log/slog"
	"time"
)

// PostError 单个帖子处理失败，不影响批次中的其他帖子
type PostError struct {
	PostID uint64
	Err    error
}

// RolloverResult 一次批处理的结果
type RolloverResult struct {
	StartedAt      time.Time
	FinishedAt     time.Time
	PostsProcessed int
	// Skipped 选出后已被删除的帖子
	Skipped int
	Errors  []PostError
}

func (r *RolloverResult) addError(postID uint64, err error) {
	r.Errors = append(r.Errors, PostError{PostID: postID, Err: err})
}

// RunArchiver 保存批处理记录，nil 表示不归档
type RunArchiver interface {
	SaveRun(ctx context.Context, run *dto.RolloverRunDTO) error
}

func toRunDTO(ctx context.Context, name string, limit int, r *RolloverResult) *dto.RolloverRunDTO {
	run := &dto.RolloverRunDTO{
		Job:            name,
		TraceID:        logger.TraceID(ctx),
		Limit:          limit,
		StartedAt:      r.StartedAt,
		FinishedAt:     r.FinishedAt,
		PostsProcessed: r.PostsProcessed,
		Skipped:        r.Skipped,
		Errors:         make([]*dto.RolloverErrorDTO, 0, len(r.Errors)),
	}
	for _, e := range r.Errors {
		run.Errors = append(run.Errors, &dto.RolloverErrorDTO{PostID: e.PostID, Error: e.Err.Error()})
	}
	return run
}

func archive(ctx context.Context, archiver RunArchiver, run *dto.RolloverRunDTO) {
	if archiver == nil {
		return
	}
	if err := archiver.SaveRun(ctx, run); err != nil {
		log.WarnContext(ctx, "archive job run failed", "job", run.Job, "err", err)
	}
}
