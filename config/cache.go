package config

import "time"

// Cache 缓存过期时间配置，单位秒，缺省时填充默认值
type Cache struct {
	StatusTTL  int `json:"status_ttl" yaml:"status_ttl"`
	StoryTTL   int `json:"story_ttl" yaml:"story_ttl"`
	CounterTTL int `json:"counter_ttl" yaml:"counter_ttl"`
	ActionTTL  int `json:"action_ttl" yaml:"action_ttl"`
}

const (
	// 快照默认过期时间 - 4周
	defaultStatusTTL = 28 * 24 * time.Hour
	// 动态(story)默认过期时间 - 24小时
	defaultStoryTTL = 24 * time.Hour
)

func (c *Cache) fill() {
	if c.StatusTTL <= 0 {
		c.StatusTTL = int(defaultStatusTTL / time.Second)
	}
	if c.StoryTTL <= 0 {
		c.StoryTTL = int(defaultStoryTTL / time.Second)
	}
	if c.CounterTTL <= 0 {
		c.CounterTTL = c.StatusTTL
	}
	if c.ActionTTL <= 0 {
		c.ActionTTL = c.StatusTTL
	}
}

func (c *Cache) StatusExpire() time.Duration {
	return time.Duration(c.StatusTTL) * time.Second
}

func (c *Cache) StoryExpire() time.Duration {
	return time.Duration(c.StoryTTL) * time.Second
}

func (c *Cache) CounterExpire() time.Duration {
	return time.Duration(c.CounterTTL) * time.Second
}

func (c *Cache) ActionExpire() time.Duration {
	return time.Duration(c.ActionTTL) * time.Second
}
