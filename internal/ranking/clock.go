package ranking

import "time"

// Clock 时间来源，测试时替换为固定时间
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock 返回使用系统时间的 Clock
func SystemClock() Clock {
	return systemClock{}
}

// FixedClock 始终返回同一时刻
type FixedClock struct {
	T time.Time
}

func (c *FixedClock) Now() time.Time { return c.T }

// Advance 将时钟向前拨动 d
func (c *FixedClock) Advance(d time.Duration) {
	c.T = c.T.Add(d)
}
