package consts

const (
	PostViewThrottleKey = "post:view:throttle:"
	FeedCacheKey        = "feed:guest:"
)

const (
	MetricsRolloverLock = "lock:job:metrics_rollover"
	HotRefreshLock      = "lock:job:hot_refresh"
)
