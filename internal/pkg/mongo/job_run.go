package mongo

import (
	"Subfapp/internal/api/dto"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const RunCollection = "rollover_runs"

// JobRunModel 一次批处理任务的执行记录
type JobRunModel struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"`
	dto.RolloverRunDTO `bson:",inline"`
	DurationMs         int64     `bson:"duration_ms"`
	CreatedAt          time.Time `bson:"created_at"`
}
