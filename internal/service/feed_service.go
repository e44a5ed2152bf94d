package service

import (
	"Subfapp/internal/api/dto"
	"Subfapp/internal/pkg/consts"
	"Subfapp/internal/ranking"
	"Subfapp/internal/repository"
	"context"
	"fmt"
	log "log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

type FeedService interface {
	// ApplySort 给查询追加排序条件，key 非法时返回 ErrUnknownSort
	ApplySort(tx *gorm.DB, key string) (*gorm.DB, error)
	// ListFeed 按可见性过滤并排序后分页
	ListFeed(ctx context.Context, viewerID uint64, key string, page, pageSize int) (*dto.FeedDTO, error)
}

type FeedOptions struct {
	DefaultPageSize int
	MaxPageSize     int
	CacheTTL        time.Duration
}

type feedServiceImpl struct {
	postRepo repository.PostRepo
	cache    Cache
	opts     FeedOptions
	clock    ranking.Clock
}

func NewFeedService(postRepo repository.PostRepo, cache Cache, opts FeedOptions, clock ranking.Clock) FeedService {
	if opts.DefaultPageSize <= 0 {
		opts.DefaultPageSize = 20
	}
	if opts.MaxPageSize < opts.DefaultPageSize {
		opts.MaxPageSize = opts.DefaultPageSize
	}
	if clock == nil {
		clock = ranking.SystemClock()
	}
	return &feedServiceImpl{
		postRepo: postRepo,
		cache:    cache,
		opts:     opts,
		clock:    clock,
	}
}

func (s *feedServiceImpl) ApplySort(tx *gorm.DB, key string) (*gorm.DB, error) {
	sortKey, err := ranking.ParseSortKey(key)
	if err != nil {
		return nil, ErrUnknownSort
	}
	return sortKey.Sort().Apply(tx, s.clock.Now()), nil
}

func (s *feedServiceImpl) ListFeed(ctx context.Context, viewerID uint64, key string, page, pageSize int) (*dto.FeedDTO, error) {
	sortKey, err := ranking.ParseSortKey(key)
	if err != nil {
		return nil, ErrUnknownSort
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = s.opts.DefaultPageSize
	}
	if pageSize > s.opts.MaxPageSize {
		pageSize = s.opts.MaxPageSize
	}

	// 只缓存游客的列表，登录用户的可见范围各不相同
	cacheKey := ""
	if viewerID == 0 && s.cache != nil && s.opts.CacheTTL > 0 {
		cacheKey = fmt.Sprintf("%s%s:%d:%d", consts.FeedCacheKey, sortKey, page, pageSize)
		if feed := s.getCached(ctx, cacheKey); feed != nil {
			return feed, nil
		}
	}

	posts, err := s.postRepo.ListFeed(ctx,
		repository.VisibleTo(viewerID),
		ranking.Scope(sortKey.Sort(), s.clock.Now()),
		repository.PaginateLookahead(page, pageSize),
	)
	if err != nil {
		return nil, storeErr("list feed", err)
	}

	feed := &dto.FeedDTO{
		Sort:     sortKey.String(),
		Page:     page,
		PageSize: pageSize,
		Posts:    make([]*dto.FeedPostDTO, 0, len(posts)),
	}
	if len(posts) > pageSize {
		feed.HasMore = true
		posts = posts[:pageSize]
	}
	for _, post := range posts {
		item := &dto.FeedPostDTO{}
		_ = copier.Copy(item, post)
		item.Trending = post.IsTrending()
		item.CreatedAt = post.CreatedAt.Format(consts.TimeLayout)
		feed.Posts = append(feed.Posts, item)
	}

	if cacheKey != "" {
		s.setCached(ctx, cacheKey, feed)
	}
	return feed, nil
}

func (s *feedServiceImpl) getCached(ctx context.Context, key string) *dto.FeedDTO {
	value, err := s.cache.GetValue(ctx, key)
	if err != nil {
		log.WarnContext(ctx, "read feed cache failed", "key", key, "err", err)
		return nil
	}
	if value == "" {
		return nil
	}
	feed := &dto.FeedDTO{}
	if err = json.Unmarshal([]byte(value), feed); err != nil {
		log.WarnContext(ctx, "decode feed cache failed", "key", key, "err", err)
		return nil
	}
	return feed
}

func (s *feedServiceImpl) setCached(ctx context.Context, key string, feed *dto.FeedDTO) {
	raw, err := json.Marshal(feed)
	if err != nil {
		return
	}
	if err = s.cache.SetWithExpiration(ctx, key, string(raw), s.opts.CacheTTL); err != nil {
		log.WarnContext(ctx, "write feed cache failed", "key", key, "err", err)
	}
}
