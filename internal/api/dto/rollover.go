package dto

import "time"

// RolloverErrorDTO 单个帖子处理失败
type RolloverErrorDTO struct {
	PostID uint64 `json:"post_id" bson:"post_id"`
	Error  string `json:"error" bson:"error"`
}

// RolloverRunDTO 一次批处理的汇总，同时用于归档
type RolloverRunDTO struct {
	Job            string              `json:"job" bson:"job"`
	TraceID        string              `json:"trace_id" bson:"trace_id"`
	Limit          int                 `json:"limit" bson:"limit"`
	StartedAt      time.Time           `json:"started_at" bson:"started_at"`
	FinishedAt     time.Time           `json:"finished_at" bson:"finished_at"`
	PostsProcessed int                 `json:"posts_processed" bson:"posts_processed"`
	Skipped        int                 `json:"skipped" bson:"skipped"`
	Errors         []*RolloverErrorDTO `json:"errors" bson:"errors"`
}
