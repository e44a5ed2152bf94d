package dto

// ViewResultDTO 浏览记录结果，Counted 为 false 表示被节流
type ViewResultDTO struct {
	PostID  uint64 `json:"post_id"`
	Counted bool   `json:"counted"`
}
