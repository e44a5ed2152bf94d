package consts

const (
	// RecentPostDays 热度刷新任务只处理最近 7 天发布的帖子
	RecentPostDays = 7
)

const (
	TimeLayout = "2006-01-02 15:04:05"
)
