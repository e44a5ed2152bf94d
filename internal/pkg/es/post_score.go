package es

import (
	"Subfapp/internal/model"
	"context"
	"errors"
	log "log/slog"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/core/update"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/goccy/go-json"
)

// PostScoreES 帖子文档中由得分计算维护的字段
type PostScoreES struct {
	Score         int64      `json:"score"`
	Upvotes       int64      `json:"upvotes"`
	Downvotes     int64      `json:"downvotes"`
	HotScore      float64    `json:"hot_score"`
	ViewsCount    int64      `json:"views_count"`
	Trending      bool       `json:"trending"`
	TrendingStart *time.Time `json:"trending_start"`
}

func NewPostScoreES(post *model.Post) *PostScoreES {
	return &PostScoreES{
		Score:         post.Score,
		Upvotes:       post.Upvotes,
		Downvotes:     post.Downvotes,
		HotScore:      post.HotScore,
		ViewsCount:    post.ViewsCount,
		Trending:      post.IsTrending(),
		TrendingStart: post.TrendingStart,
	}
}

// PostScoreRepo 把得分写回搜索索引中的帖子文档；文档由内容服务创建
type PostScoreRepo struct {
	client *elasticsearch.TypedClient
	index  string
}

func NewPostScoreRepo(client *elasticsearch.TypedClient, index string) *PostScoreRepo {
	return &PostScoreRepo{client: client, index: index}
}

// SyncPostScore 局部更新文档，文档尚未建立时忽略
func (s *PostScoreRepo) SyncPostScore(ctx context.Context, post *model.Post) error {
	doc, err := json.Marshal(NewPostScoreES(post))
	if err != nil {
		return err
	}

	req := update.NewRequest()
	req.Doc = doc

	_, err = s.client.Update(s.index, strconv.FormatUint(post.ID, 10)).
		Request(req).
		RetryOnConflict(3).
		Do(ctx)
	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) && e.Status == NotFoundCode {
			log.DebugContext(ctx, "post document not indexed yet", "post_id", post.ID)
			return nil
		}
		return err
	}
	return nil
}
