package model

import (
	"time"
)

type PostView struct {
	ID        uint64    `gorm:"primaryKey"`
	PostID    uint64    `gorm:"not null;index:idx_post_created,priority:1;index:idx_ip_post_created,priority:2" json:"postId"`
	UserID    *uint64   `json:"userId"`
	IPAddress string    `gorm:"type:varchar(45);index:idx_ip_post_created,priority:1" json:"ipAddress"`
	UserAgent string    `gorm:"type:varchar(512)" json:"userAgent"`
	CreatedAt time.Time `gorm:"index:idx_post_created,priority:2;index:idx_ip_post_created,priority:3" json:"createdAt"`
}

func (PostView) TableName() string {
	return "post_views"
}
