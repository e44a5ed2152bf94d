package dto

// FeedQueryDTO 列表查询参数
type FeedQueryDTO struct {
	Sort     string `form:"sort"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1"`
}

// FeedPostDTO 列表中的单个帖子
type FeedPostDTO struct {
	ID                  uint64  `json:"id"`
	SubfappID           uint64  `json:"subfapp_id"`
	UserID              uint64  `json:"user_id"`
	Title               string  `json:"title"`
	Score               int64   `json:"score"`
	Upvotes             int64   `json:"upvotes"`
	Downvotes           int64   `json:"downvotes"`
	HotScore            float64 `json:"hot_score"`
	ViewsCount          int64   `json:"views_count"`
	Trending            bool    `json:"trending"`
	RecentCommentsCount int64   `json:"recent_comments_count,omitempty"`
	CommentsCount       int64   `json:"comments_count,omitempty"`
	TrendingScore       float64 `json:"trending_score,omitempty"`
	CreatedAt           string  `json:"created_at"`
}

// FeedDTO 分页结果
type FeedDTO struct {
	Sort     string         `json:"sort"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
	HasMore  bool           `json:"has_more"`
	Posts    []*FeedPostDTO `json:"posts"`
}
