package cache

import (
	"Plume/models"
	"Plume/types"
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"
)

// StatusSnapshot 反范式化的动态快照，msgpack 紧凑二进制存储。
// 只存引用 ID，不嵌套对象，读取时再做一层解析。
type StatusSnapshot struct {
	ID          uint64   `msgpack:"id"`
	AuthorID    uint64   `msgpack:"author_id"`
	Content     string   `msgpack:"content"`
	Kind        int8     `msgpack:"kind"`
	IsReply     bool     `msgpack:"is_reply"`
	IsShare     bool     `msgpack:"is_share"`
	IsLive      bool     `msgpack:"is_live"`
	Privacy     int8     `msgpack:"privacy"`
	MediaData   []string `msgpack:"media_data"`
	ParentID    uint64   `msgpack:"parent_id"`
	OriginalID  uint64   `msgpack:"original_id"`
	MentionIDs  []uint64 `msgpack:"mention_ids"`
	ChannelID   uint64   `msgpack:"channel_id"`
	CountryCode string   `msgpack:"country_code"`
	Deleted     bool     `msgpack:"deleted"`
	CreatedAt   int64    `msgpack:"created_at"` // 纳秒时间戳，同时是索引 score
}

func EncodeSnapshot(s *StatusSnapshot) ([]byte, error) {
	return msgpack.Marshal(s)
}

func DecodeSnapshot(data []byte) (*StatusSnapshot, error) {
	var s StatusSnapshot
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// SnapshotFromModel 由落库模型构建快照
func SnapshotFromModel(m *models.Status) *StatusSnapshot {
	snapshot := &StatusSnapshot{
		ID:          m.ID,
		AuthorID:    m.UserID,
		Content:     m.Content,
		Kind:        m.Kind,
		IsReply:     m.IsReply,
		IsShare:     m.IsShare,
		IsLive:      m.IsLive,
		Privacy:     m.Privacy,
		ParentID:    m.ParentID,
		OriginalID:  m.OriginalID,
		ChannelID:   m.ChannelID,
		CountryCode: m.CountryCode,
		Deleted:     m.Deleted,
		CreatedAt:   m.CreatedAt.UnixNano(),
	}
	if len(m.MediaData) > 0 {
		_ = json.Unmarshal(m.MediaData, &snapshot.MediaData)
	}
	if len(m.MentionIDs) > 0 {
		_ = json.Unmarshal(m.MentionIDs, &snapshot.MentionIDs)
	}
	return snapshot
}

// View 转换为读取视图，引用字段由调用方填充
func (s *StatusSnapshot) View() *types.ResolvedStatus {
	return &types.ResolvedStatus{
		ID:          s.ID,
		AuthorID:    s.AuthorID,
		Content:     s.Content,
		Kind:        types.StatusKind(s.Kind),
		IsReply:     s.IsReply,
		IsShare:     s.IsShare,
		IsLive:      s.IsLive,
		Privacy:     types.Privacy(s.Privacy),
		MediaData:   s.MediaData,
		Mentions:    make([]types.Mention, 0, len(s.MentionIDs)),
		CountryCode: s.CountryCode,
		CreatedAt:   s.CreatedAt,
	}
}
