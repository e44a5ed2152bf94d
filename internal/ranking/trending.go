package ranking

import "time"

// Signal 判断热门状态用到的活跃度信号，全部限定在近期窗口或基线之后。
// 调用方拿不到的字段保持 0
type Signal struct {
	// RecentScore 窗口内新增投票的净得分，不是帖子的累计得分
	RecentScore    int64
	RecentComments int64
	ViewsDelta     int64
	ScoreDelta     int64
}

// TrendingPolicy 统一的热门判定：互动规则或增长规则任一命中即视为活跃，
// 不活跃且持续满 Cooldown 后才清除
type TrendingPolicy struct {
	MinRecentScore    int64
	MinRecentComments int64
	MinViewsDelta     int64
	MinScoreDelta     int64
	Cooldown          time.Duration
}

// DefaultTrendingPolicy 默认阈值
func DefaultTrendingPolicy() TrendingPolicy {
	return TrendingPolicy{
		MinRecentScore:    3,
		MinRecentComments: 2,
		MinViewsDelta:     50,
		MinScoreDelta:     10,
		Cooldown:          24 * time.Hour,
	}
}

// EngagementHit 窗口内净得分或近期评论达到阈值
func (p TrendingPolicy) EngagementHit(s Signal) bool {
	return s.RecentScore >= p.MinRecentScore || s.RecentComments >= p.MinRecentComments
}

// MomentumHit 相对 24h 基线的增量达到阈值
func (p TrendingPolicy) MomentumHit(s Signal) bool {
	return s.ViewsDelta >= p.MinViewsDelta || s.ScoreDelta >= p.MinScoreDelta
}

func (p TrendingPolicy) Active(s Signal) bool {
	return p.EngagementHit(s) || p.MomentumHit(s)
}

// Decide 返回新的 trending_start
func (p TrendingPolicy) Decide(now time.Time, current *time.Time, s Signal) *time.Time {
	if p.Active(s) {
		if current == nil {
			t := now
			return &t
		}
		return current
	}
	if current != nil && now.Sub(*current) >= p.Cooldown {
		return nil
	}
	return current
}
