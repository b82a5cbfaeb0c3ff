package service

import (
	"Plume/types"
	"context"
)

// IsVisible 可见性纯判定，不做任何 IO。
// 互相关注关系由调用方查好传入。
func IsVisible(status *types.ResolvedStatus, viewerID uint64, isContact bool) bool {
	if status == nil {
		return false
	}
	if status.AuthorID == viewerID {
		// 作者永远可见，包括 onlyMe
		return true
	}
	switch status.Privacy {
	case types.PrivacyPublic:
		return true
	case types.PrivacyContacts:
		return isContact
	default:
		return false
	}
}

// contactChecker 按作者记忆化互关查询，同一次列表渲染只查一次库
type contactChecker struct {
	follows  FollowStore
	viewerID uint64
	known    map[uint64]bool
}

func newContactChecker(follows FollowStore, viewerID uint64) *contactChecker {
	return &contactChecker{
		follows:  follows,
		viewerID: viewerID,
		known:    make(map[uint64]bool),
	}
}

func (c *contactChecker) visible(ctx context.Context, status *types.ResolvedStatus) bool {
	if status == nil {
		return false
	}
	if status.AuthorID == c.viewerID || status.Privacy == types.PrivacyPublic {
		return true
	}
	if status.Privacy != types.PrivacyContacts {
		return false
	}
	mutual, ok := c.known[status.AuthorID]
	if !ok {
		var err error
		mutual, err = c.follows.IsContact(ctx, c.viewerID, status.AuthorID)
		if err != nil {
			// 查询失败按不可见处理，列表路径跳过即可
			mutual = false
		}
		c.known[status.AuthorID] = mutual
	}
	return mutual
}
