package ranking

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

var ErrUnknownSort = errors.New("unknown sort key")

type SortKey int

const (
	SortHot SortKey = iota
	SortNew
	SortTop
	SortRising
	SortTrending
)

const (
	// RecentWindow top / rising 的统计窗口
	RecentWindow = 6 * time.Hour
	// TrendingWindow trending 只考虑这段时间内发布的帖子
	TrendingWindow = 24 * time.Hour
)

// tieBreak 所有排序的最终兜底，保证分页稳定
const tieBreak = "posts.created_at DESC, posts.id DESC"

var sortNames = map[SortKey]string{
	SortHot:      "hot",
	SortNew:      "new",
	SortTop:      "top",
	SortRising:   "rising",
	SortTrending: "trending",
}

func (k SortKey) String() string {
	if name, ok := sortNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseSortKey 解析排序参数，空字符串视为 hot
func ParseSortKey(s string) (SortKey, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SortHot, nil
	}
	for k, name := range sortNames {
		if name == s {
			return k, nil
		}
	}
	return SortHot, ErrUnknownSort
}

// Sort 一种列表排序策略，只组合查询条件，不修改任何帖子
type Sort interface {
	Key() SortKey
	Apply(tx *gorm.DB, now time.Time) *gorm.DB
}

// Sort 返回 key 对应的策略
func (k SortKey) Sort() Sort {
	switch k {
	case SortNew:
		return newSort{}
	case SortTop:
		return topSort{}
	case SortRising:
		return risingSort{}
	case SortTrending:
		return trendingSort{}
	default:
		return hotSort{}
	}
}

// Scope 适配 gorm.Scopes
func Scope(s Sort, now time.Time) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return s.Apply(tx, now)
	}
}

type hotSort struct{}

func (hotSort) Key() SortKey { return SortHot }

func (hotSort) Apply(tx *gorm.DB, _ time.Time) *gorm.DB {
	return tx.Order("posts.hot_score DESC, " + tieBreak)
}

type newSort struct{}

func (newSort) Key() SortKey { return SortNew }

func (newSort) Apply(tx *gorm.DB, _ time.Time) *gorm.DB {
	return tx.Order(tieBreak)
}

// topSort 最近 6 小时内得分最高，非全时段排行
type topSort struct{}

func (topSort) Key() SortKey { return SortTop }

func (topSort) Apply(tx *gorm.DB, now time.Time) *gorm.DB {
	return tx.
		Where("posts.created_at >= ?", now.Add(-RecentWindow)).
		Order("posts.score DESC, " + tieBreak)
}

const recentCommentsExpr = "(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id " +
	"AND comments.deleted_at IS NULL AND comments.created_at >= ?)"

// risingSort 最近 6 小时发布且窗口内有评论的帖子，按窗口内评论数排序
type risingSort struct{}

func (risingSort) Key() SortKey { return SortRising }

func (risingSort) Apply(tx *gorm.DB, now time.Time) *gorm.DB {
	since := now.Add(-RecentWindow)
	return tx.
		Select("posts.*, "+recentCommentsExpr+" AS recent_comments_count", since).
		Where("posts.created_at >= ?", since).
		Where(recentCommentsExpr+" > 0", since).
		Order("recent_comments_count DESC, posts.score DESC, " + tieBreak)
}

const (
	commentsExpr = "(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id AND comments.deleted_at IS NULL)"

	recencyBonusExpr = "CASE WHEN posts.created_at >= ? THEN 50 " +
		"WHEN posts.created_at >= ? THEN 25 " +
		"WHEN posts.created_at >= ? THEN 10 ELSE 0 END"

	trendingScoreExpr = "posts.score + posts.views_count / 10.0 + " + commentsExpr + " * 2 + " + recencyBonusExpr
)

type trendingSort struct{}

func (trendingSort) Key() SortKey { return SortTrending }

func (trendingSort) Apply(tx *gorm.DB, now time.Time) *gorm.DB {
	return tx.
		Select("posts.*, "+commentsExpr+" AS comments_count, "+trendingScoreExpr+" AS trending_score",
			now.Add(-time.Hour), now.Add(-3*time.Hour), now.Add(-6*time.Hour)).
		Where("posts.created_at >= ?", now.Add(-TrendingWindow)).
		Order("trending_score DESC, " + tieBreak)
}
