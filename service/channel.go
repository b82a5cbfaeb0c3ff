package service

import (
	"Plume/dao/cache"
	"Plume/models"
	"Plume/pkg/log"
	"Plume/pkg/response"
	"context"

	"go.uber.org/zap"
)

var _ IChannelService = (*ChannelService)(nil)

type IChannelService interface {
	FollowChannel(ctx context.Context, channelID, userID uint64) (pending bool, err error)
	UnfollowChannel(ctx context.Context, channelID, userID uint64) error
	ResolveFollowRequest(ctx context.Context, channelID, ownerID, applicantID uint64, accept bool) error
	ListFollowers(ctx context.Context, channelID uint64, page, pageSize int) ([]uint64, error)
	FollowerCount(ctx context.Context, channelID uint64) (int64, error)
}

type ChannelService struct {
	ChannelDAO   ChannelStore
	UserDAO      UserStore
	ChannelCache *cache.ChannelStorage
}

// FollowChannel 关注频道。
// 公开频道与系统频道直接生效，私有频道进入待审批申请。
func (s *ChannelService) FollowChannel(ctx context.Context, channelID, userID uint64) (bool, error) {
	ch, err := s.ChannelDAO.FindByID(ctx, channelID)
	if err != nil {
		return false, err
	}
	if ch == nil {
		return false, response.ErrChannelNotFound
	}
	active, err := s.UserDAO.IsActive(ctx, userID)
	if err != nil {
		return false, err
	}
	if !active {
		return false, response.ErrUserNotFound
	}

	if ch.IsPublic || ch.IsSystem {
		if err := s.ChannelDAO.SetFollow(ctx, channelID, userID, 1); err != nil {
			return false, err
		}
		if err := s.ChannelCache.AddFollower(ctx, channelID, userID); err != nil {
			log.L.Error("add cached follower failed",
				zap.Uint64("channel_id", channelID),
				zap.Error(err))
		}
		// 历史申请记录一并清掉
		_ = s.ChannelCache.RemoveRequest(ctx, channelID, userID)
		return false, nil
	}

	if err := s.ChannelDAO.UpsertRequest(ctx, channelID, userID, models.ChannelRequestPending); err != nil {
		return false, err
	}
	if err := s.ChannelCache.SetRequest(ctx, channelID, userID, models.ChannelRequestPending); err != nil {
		log.L.Error("cache follow request failed",
			zap.Uint64("channel_id", channelID),
			zap.Error(err))
	}
	return true, nil
}

// UnfollowChannel 取消关注，无关注记录时幂等
func (s *ChannelService) UnfollowChannel(ctx context.Context, channelID, userID uint64) error {
	ch, err := s.ChannelDAO.FindByID(ctx, channelID)
	if err != nil {
		return err
	}
	if ch == nil {
		return response.ErrChannelNotFound
	}
	if err := s.ChannelDAO.SetFollow(ctx, channelID, userID, 0); err != nil {
		return err
	}
	if err := s.ChannelCache.RemoveFollower(ctx, channelID, userID); err != nil {
		log.L.Error("remove cached follower failed",
			zap.Uint64("channel_id", channelID),
			zap.Error(err))
	}
	return nil
}

// ResolveFollowRequest 频道主审批关注申请
func (s *ChannelService) ResolveFollowRequest(ctx context.Context, channelID, ownerID, applicantID uint64, accept bool) error {
	ch, err := s.ChannelDAO.FindByID(ctx, channelID)
	if err != nil {
		return err
	}
	if ch == nil {
		return response.ErrChannelNotFound
	}
	if ch.OwnerID != ownerID {
		return response.ErrPrivacyForbidden
	}

	req, err := s.ChannelDAO.FindRequest(ctx, channelID, applicantID)
	if err != nil {
		return err
	}
	if req == nil || req.Status != models.ChannelRequestPending {
		return response.ErrRequestNotFound
	}

	next := models.ChannelRequestCancelled
	if accept {
		next = models.ChannelRequestAccepted
	}
	if err := s.ChannelDAO.UpsertRequest(ctx, channelID, applicantID, next); err != nil {
		return err
	}
	if err := s.ChannelCache.SetRequest(ctx, channelID, applicantID, next); err != nil {
		log.L.Error("cache request state failed",
			zap.Uint64("channel_id", channelID),
			zap.Error(err))
	}

	if accept {
		if err := s.ChannelDAO.SetFollow(ctx, channelID, applicantID, 1); err != nil {
			return err
		}
		if err := s.ChannelCache.AddFollower(ctx, channelID, applicantID); err != nil {
			log.L.Error("add cached follower failed",
				zap.Uint64("channel_id", channelID),
				zap.Error(err))
		}
	}
	return nil
}

// ListFollowers 关注者列表，读频道的关注者索引
func (s *ChannelService) ListFollowers(ctx context.Context, channelID uint64, page, pageSize int) ([]uint64, error) {
	return s.ChannelCache.PageFollowers(ctx, channelID, page, pageSize)
}

func (s *ChannelService) FollowerCount(ctx context.Context, channelID uint64) (int64, error) {
	return s.ChannelCache.FollowerCount(ctx, channelID)
}
