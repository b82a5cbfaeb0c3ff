package types

// 事件总线的封闭变体集合。
// 每个生产方的事件都在这里静态声明，消费方按类型分发，
// 不再依赖运行时字符串事件名发现。

// TopicStatus 上游状态事件主题(消费)
const TopicStatus = "plume_status"

// TopicTimeline 时间线变更事件主题(发布)
const TopicTimeline = "plume_timeline"

// 事件契约名，跨服务约定，不可改动
const (
	EventStatusCreated        = "status.created"
	EventStatusDeleted        = "status.deleted"
	EventStatusActioned       = "status.actioned"
	EventTimelineUpdated      = "timeline.updated"
	EventTimelineRemoved      = "timeline.removed"
	EventHomeRebuildRequested = "timeline.homeRebuildRequested"
)

type Event interface {
	// Topic 投递的 MQ 主题
	Topic() string
	// Name 事件契约名
	Name() string

	isEvent()
}

// StatusCreated 上游持久化完成后发出，驱动扇出
type StatusCreated struct {
	StatusID  uint64 `json:"status_id"`
	AuthorID  uint64 `json:"author_id"`
	CreatedAt int64  `json:"created_at"`
}

func (StatusCreated) Topic() string { return TopicStatus }
func (StatusCreated) Name() string  { return EventStatusCreated }
func (StatusCreated) isEvent()      {}

type StatusDeleted struct {
	StatusID uint64 `json:"status_id"`
	AuthorID uint64 `json:"author_id"`
}

func (StatusDeleted) Topic() string { return TopicStatus }
func (StatusDeleted) Name() string  { return EventStatusDeleted }
func (StatusDeleted) isEvent()      {}

type StatusActioned struct {
	StatusID uint64     `json:"status_id"`
	UserID   uint64     `json:"user_id"`
	Action   ActionKind `json:"action"`
	Removed  bool       `json:"removed"`
}

func (StatusActioned) Topic() string { return TopicStatus }
func (StatusActioned) Name() string  { return EventStatusActioned }
func (StatusActioned) isEvent()      {}

// TimelineUpdated 某个索引新增了条目
type TimelineUpdated struct {
	Subject  string       `json:"subject"`
	Kind     TimelineKind `json:"kind"`
	StatusID uint64       `json:"status_id"`
	Score    int64        `json:"score"`
}

func (TimelineUpdated) Topic() string { return TopicTimeline }
func (TimelineUpdated) Name() string  { return EventTimelineUpdated }
func (TimelineUpdated) isEvent()      {}

type TimelineRemoved struct {
	Subject  string       `json:"subject"`
	Kind     TimelineKind `json:"kind"`
	StatusID uint64       `json:"status_id"`
}

func (TimelineRemoved) Topic() string { return TopicTimeline }
func (TimelineRemoved) Name() string  { return EventTimelineRemoved }
func (TimelineRemoved) isEvent()      {}

// HomeRebuildRequested 首页时间线触发了缓存重建
type HomeRebuildRequested struct {
	UserID uint64 `json:"user_id"`
}

func (HomeRebuildRequested) Topic() string { return TopicTimeline }
func (HomeRebuildRequested) Name() string  { return EventHomeRebuildRequested }
func (HomeRebuildRequested) isEvent()      {}
