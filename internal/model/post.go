package model

import (
	"time"

	"gorm.io/gorm"
)

type Post struct {
	ID        uint64 `gorm:"primaryKey" json:"id"`
	SubfappID uint64 `gorm:"not null;index:idx_subfapp_id" json:"subfapp_id"`
	UserID    uint64 `gorm:"not null;index:idx_user_id" json:"user_id"`
	Title     string `gorm:"type:varchar(255)" json:"title"`
	Content   string `gorm:"type:text" json:"content"`

	// 以下字段只由热度计算写入
	Score         int64      `gorm:"not null;default:0;index:idx_score" json:"score"`
	Upvotes       int64      `gorm:"not null;default:0" json:"upvotes"`
	Downvotes     int64      `gorm:"not null;default:0" json:"downvotes"`
	HotScore      float64    `gorm:"not null;default:0;index:idx_hot_score" json:"hot_score"`
	TrendingStart *time.Time `json:"trending_start"`

	// 以下字段只由指标轮转任务写入
	ViewsCount       int64      `gorm:"not null;default:0" json:"views_count"`
	ViewsCount24h    int64      `gorm:"column:views_count_24h;not null;default:0" json:"views_count_24h"`
	Score24h         int64      `gorm:"column:score_24h;not null;default:0" json:"score_24h"`
	MetricsUpdatedAt *time.Time `gorm:"index:idx_metrics_updated_at" json:"metrics_updated_at"`

	CreatedAt time.Time      `gorm:"index:idx_created_at" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Subfapp Subfapp `gorm:"foreignKey:SubfappID;references:ID" json:"-"`
}

func (Post) TableName() string {
	return "posts"
}

// IsTrending 帖子当前是否处于热门状态
func (p *Post) IsTrending() bool {
	return p.TrendingStart != nil
}

// FeedPost 列表查询结果，附带排序时计算出的派生字段
type FeedPost struct {
	Post
	RecentCommentsCount int64   `gorm:"column:recent_comments_count;->" json:"recent_comments_count"`
	CommentsCount       int64   `gorm:"column:comments_count;->" json:"comments_count"`
	TrendingScore       float64 `gorm:"column:trending_score;->" json:"trending_score"`
}
