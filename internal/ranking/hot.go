package ranking

import (
	"math"
	"time"
)

const (
	// Epoch 热度计算的参考时刻 (2005-12-08 07:46:43 UTC)
	Epoch int64 = 1134028003
	// DecaySeconds 每 45000 秒的发布时间差等价于 10 倍的得分差
	DecaySeconds = 45000.0

	CommentBoost = 0.5
	ViewBoost    = 0.1

	hotScorePrecision = 1e7
)

// HotInput 计算热度所需的全部输入
type HotInput struct {
	Score          int64
	CreatedAt      time.Time
	RecentComments int64
	RecentViews    int64
}

// HotScore 对数得分 + 线性时间衰减 + 近期互动加成，保留 7 位小数
func HotScore(in HotInput) float64 {
	order := math.Log10(math.Max(math.Abs(float64(in.Score)), 1))

	var sign float64
	switch {
	case in.Score > 0:
		sign = 1
	case in.Score < 0:
		sign = -1
	}

	seconds := float64(in.CreatedAt.Unix() - Epoch)
	boost := EngagementBoost(in.RecentComments, in.RecentViews)

	return Round7(sign*order + seconds/DecaySeconds + boost)
}

// EngagementBoost 近期评论和浏览带来的加成
func EngagementBoost(recentComments, recentViews int64) float64 {
	return CommentBoost*float64(recentComments) + ViewBoost*float64(recentViews)
}

// Round7 四舍五入到 7 位小数
func Round7(v float64) float64 {
	return math.Round(v*hotScorePrecision) / hotScorePrecision
}
