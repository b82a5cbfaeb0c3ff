package types

// TimelineKind 时间线索引类型，封闭枚举
type TimelineKind int8

const (
	TimelineAll          TimelineKind = 1 // 用户全量时间线
	TimelineMedia        TimelineKind = 2 // 用户媒体时间线
	TimelineChannelMedia TimelineKind = 3 // 用户频道媒体时间线
	TimelineHome         TimelineKind = 4 // 首页聚合时间线
	TimelineStory        TimelineKind = 5 // 短时动态
	TimelineCountry      TimelineKind = 6 // 按国家聚合
)

// SubjectGlobal 全局索引使用的固定 subject
const SubjectGlobal = "global"

// TimelineEntry (score, member) 对，score 为创建时间的纳秒时间戳
type TimelineEntry struct {
	Score    int64  `json:"score"`
	MemberID uint64 `json:"member_id"`
}

// NoCursor 表示从最新一条开始分页
const NoCursor int64 = 0

type PageRequest struct {
	Cursor   int64 `json:"cursor"` // 严格小于该 score 的条目，0 表示无游标
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}
