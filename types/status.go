package types

// StatusKind 动态类型，封闭枚举。
// 新增类型时必须同步维护 service 层的分发表，保证编译期可查。
type StatusKind int8

const (
	StatusKindNormal       StatusKind = 1 // 普通动态
	StatusKindMedia        StatusKind = 2 // 媒体动态
	StatusKindStory        StatusKind = 3 // 短时动态
	StatusKindChannelMedia StatusKind = 4 // 频道媒体
	StatusKindRate         StatusKind = 5 // 评分
	StatusKindHelp         StatusKind = 6 // 求助(问答入口展示，不进首页)
	StatusKindCompetition  StatusKind = 7 // 比赛
)

// Privacy 可见性配置
type Privacy int8

const (
	PrivacyPublic   Privacy = 1 // 公开
	PrivacyContacts Privacy = 2 // 仅互关好友
	PrivacyOnlyMe   Privacy = 3 // 仅自己
)

// CounterField 计数器字段名，与缓存 HASH field 一一对应
type CounterField string

const (
	CounterLikes    CounterField = "likes_count"
	CounterDislikes CounterField = "dislikes_count"
	CounterShares   CounterField = "shared_count"
	CounterComments CounterField = "comment_count"
	CounterViews    CounterField = "views_count"
)

// ActionKind 用户对动态的操作类型
type ActionKind int8

const (
	ActionLike    ActionKind = 1
	ActionDislike ActionKind = 2
)

type CreateStatusRequest struct {
	AuthorID    uint64     `json:"author_id"`
	Content     string     `json:"content"`
	Kind        StatusKind `json:"kind"`
	IsReply     bool       `json:"is_reply"`
	IsShare     bool       `json:"is_share"`
	IsLive      bool       `json:"is_live"`
	Privacy     Privacy    `json:"privacy"`
	MediaData   []string   `json:"media_data"`
	ParentID    uint64     `json:"parent_id"`
	OriginalID  uint64     `json:"original_id"`
	MentionIDs  []uint64   `json:"mention_ids"`
	ChannelID   uint64     `json:"channel_id"`
	CountryCode string     `json:"country_code"`
}

// Counters 动态的实时计数
type Counters struct {
	Likes    int64 `json:"likes"`
	Dislikes int64 `json:"dislikes"`
	Shares   int64 `json:"shares"`
	Comments int64 `json:"comments"`
	Views    int64 `json:"views"`
}

// Mention 被@用户，展示名在读取时解析
type Mention struct {
	UserID   uint64 `json:"user_id"`
	Nickname string `json:"nickname"`
}

type ChannelInfo struct {
	ID      uint64 `json:"id"`
	OwnerID uint64 `json:"owner_id"`
	Name    string `json:"name"`
}

// ViewerState 当前查看者与动态的关系
type ViewerState struct {
	IsLiked    bool `json:"is_liked"`
	IsDisliked bool `json:"is_disliked"`
	IsViewed   bool `json:"is_viewed"`
}

// ResolvedStatus 读取路径返回的聚合视图。
// Parent / Original 只解析一层，不会出现嵌套链。
type ResolvedStatus struct {
	ID          uint64          `json:"id"`
	AuthorID    uint64          `json:"author_id"`
	AuthorName  string          `json:"author_name"`
	Content     string          `json:"content"`
	Kind        StatusKind      `json:"kind"`
	IsReply     bool            `json:"is_reply"`
	IsShare     bool            `json:"is_share"`
	IsLive      bool            `json:"is_live"`
	Privacy     Privacy         `json:"privacy"`
	MediaData   []string        `json:"media_data"`
	Parent      *ResolvedStatus `json:"parent,omitempty"`
	Original    *ResolvedStatus `json:"original,omitempty"`
	Mentions    []Mention       `json:"mentions"`
	Channel     *ChannelInfo    `json:"channel,omitempty"`
	Counters    Counters        `json:"counters"`
	Viewer      *ViewerState    `json:"viewer,omitempty"`
	CountryCode string          `json:"country_code"`
	CreatedAt   int64           `json:"created_at"`
}
