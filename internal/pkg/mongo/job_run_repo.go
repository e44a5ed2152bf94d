package mongo

import (
	"Subfapp/internal/api/dto"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type JobRunRepo interface {
	SaveRun(ctx context.Context, run *dto.RolloverRunDTO) error
	// ListRuns 最近的执行记录，job 为空时不过滤
	ListRuns(ctx context.Context, job string, limit int64) ([]*dto.RolloverRunDTO, error)
}

type jobRunRepoImpl struct {
	col *mongo.Collection
}

func NewJobRunRepo(db *mongo.Database) JobRunRepo {
	return &jobRunRepoImpl{
		col: db.Collection(RunCollection),
	}
}

func ensureRunIndexes(ctx context.Context, col *mongo.Collection) error {
	_, err := col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "job", Value: 1}, {Key: "started_at", Value: -1}}},
		// 执行记录保留 30 天
		{Keys: bson.D{{Key: "created_at", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(30 * 24 * 3600)},
	})
	return err
}

func (s *jobRunRepoImpl) SaveRun(ctx context.Context, run *dto.RolloverRunDTO) error {
	_, err := s.col.InsertOne(ctx, &JobRunModel{
		RolloverRunDTO: *run,
		DurationMs:     run.FinishedAt.Sub(run.StartedAt).Milliseconds(),
		CreatedAt:      time.Now(),
	})
	return err
}

func (s *jobRunRepoImpl) ListRuns(ctx context.Context, job string, limit int64) ([]*dto.RolloverRunDTO, error) {
	filter := bson.M{}
	if job != "" {
		filter["job"] = job
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "started_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var list []*JobRunModel
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}

	runs := make([]*dto.RolloverRunDTO, 0, len(list))
	for _, m := range list {
		run := m.RolloverRunDTO
		runs = append(runs, &run)
	}
	return runs, nil
}
