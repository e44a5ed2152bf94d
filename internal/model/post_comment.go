package model

import (
	"time"

	"gorm.io/gorm"
)

// PostComment 评论由社区服务写入，这里只用于统计近期评论数
type PostComment struct {
	ID        uint64         `gorm:"primaryKey"`
	PostID    uint64         `gorm:"not null;index:idx_post_created,priority:1" json:"postId"`
	UserID    uint64         `gorm:"not null" json:"userId"`
	ParentID  uint64         `gorm:"not null;default:0" json:"parentId"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time      `gorm:"index:idx_post_created,priority:2" json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (PostComment) TableName() string {
	return "comments"
}
