package model

import "time"

const (
	VoteUp   int8 = 1
	VoteDown int8 = -1
	VoteNone int8 = 0
)

type PostVote struct {
	ID        uint64    `gorm:"primaryKey"`
	UserID    uint64    `gorm:"not null;uniqueIndex:uk_user_post,priority:1" json:"user_id"`
	PostID    uint64    `gorm:"not null;uniqueIndex:uk_user_post,priority:2;index:idx_post_type,priority:1" json:"post_id"`
	VoteType  int8      `gorm:"not null;index:idx_post_type,priority:2" json:"vote_type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PostVote) TableName() string {
	return "post_votes"
}

// IsValidVoteValue 投票值只允许 -1 / 0 / 1，0 表示撤销
func IsValidVoteValue(v int) bool {
	return v == int(VoteUp) || v == int(VoteDown) || v == int(VoteNone)
}
