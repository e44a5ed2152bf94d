package dto

// VoteDTO 投票请求，vote_type 为 0 时撤销
type VoteDTO struct {
	VoteType *int `json:"vote_type" binding:"required,oneof=-1 0 1"`
}

// VoteResultDTO 投票后的帖子计数
type VoteResultDTO struct {
	PostID    uint64 `json:"post_id"`
	Score     int64  `json:"score"`
	Upvotes   int64  `json:"upvotes"`
	Downvotes int64  `json:"downvotes"`
	UserVote  int8   `json:"user_vote"`
}
