package service

import (
	"Plume/dao/cache"
	"Plume/pkg/log"
	"Plume/pkg/response"
	"Plume/types"
	"context"

	"go.uber.org/zap"
)

var _ IActionService = (*ActionService)(nil)

type IActionService interface {
	Like(ctx context.Context, statusID, userID uint64) error
	Dislike(ctx context.Context, statusID, userID uint64) error
	RemoveReaction(ctx context.Context, statusID, userID uint64) error
	View(ctx context.Context, statusID, userID uint64) error
}

type ActionService struct {
	StatusDAO     StatusStore
	StatsDAO      StatsStore
	ActionDAO     ActionStore
	StatusCache   *cache.StatusStorage
	TimelineCache *cache.TimelineStorage
	Bus           EventBus
}

// Like 点赞。与点踩互斥，切换时两个计数一增一减
func (s *ActionService) Like(ctx context.Context, statusID, userID uint64) error {
	return s.setReaction(ctx, statusID, userID, types.ActionLike)
}

// Dislike 点踩
func (s *ActionService) Dislike(ctx context.Context, statusID, userID uint64) error {
	return s.setReaction(ctx, statusID, userID, types.ActionDislike)
}

func (s *ActionService) setReaction(ctx context.Context, statusID, userID uint64, action types.ActionKind) error {
	status, err := s.StatusDAO.FindActive(ctx, statusID)
	if err != nil {
		return err
	}
	if status == nil {
		return response.ErrStatusNotFound
	}

	prior, err := s.ActionDAO.GetAction(ctx, statusID, userID)
	if err != nil {
		return err
	}
	if prior != nil && types.ActionKind(prior.Action) == action {
		// 重复操作幂等
		return nil
	}

	if err := s.ActionDAO.SetAction(ctx, statusID, userID, int8(action)); err != nil {
		return err
	}
	if err := s.StatusCache.RecordAction(ctx, statusID, userID, action); err != nil {
		log.L.Error("record cached action failed",
			zap.Uint64("status_id", statusID),
			zap.Error(err))
	}

	s.bumpCounter(ctx, statusID, counterFor(action), 1)
	if prior != nil {
		// 从另一种操作切换过来，回收旧计数
		s.bumpCounter(ctx, statusID, counterFor(types.ActionKind(prior.Action)), -1)
	}

	// 媒体动态的点赞计入热门榜热度
	if action == types.ActionLike && types.StatusKind(status.Kind) == types.StatusKindMedia {
		if err := s.TimelineCache.IncrRank(ctx, statusID); err != nil {
			log.L.Error("bump top media rank failed",
				zap.Uint64("status_id", statusID),
				zap.Error(err))
		}
	}

	publishEvent(ctx, s.Bus, types.StatusActioned{
		StatusID: statusID,
		UserID:   userID,
		Action:   action,
	})
	return nil
}

// RemoveReaction 撤销点赞/点踩，无操作时幂等返回
func (s *ActionService) RemoveReaction(ctx context.Context, statusID, userID uint64) error {
	prior, err := s.ActionDAO.GetAction(ctx, statusID, userID)
	if err != nil {
		return err
	}
	if prior == nil {
		return nil
	}

	if err := s.ActionDAO.RemoveAction(ctx, statusID, userID); err != nil {
		return err
	}
	if err := s.StatusCache.RemoveAction(ctx, statusID, userID); err != nil {
		log.L.Error("remove cached action failed",
			zap.Uint64("status_id", statusID),
			zap.Error(err))
	}
	s.bumpCounter(ctx, statusID, counterFor(types.ActionKind(prior.Action)), -1)

	publishEvent(ctx, s.Bus, types.StatusActioned{
		StatusID: statusID,
		UserID:   userID,
		Action:   types.ActionKind(prior.Action),
		Removed:  true,
	})
	return nil
}

// View 浏览计数，同一用户只计一次
func (s *ActionService) View(ctx context.Context, statusID, userID uint64) error {
	status, err := s.StatusDAO.FindActive(ctx, statusID)
	if err != nil {
		return err
	}
	if status == nil {
		return response.ErrStatusNotFound
	}

	first, err := s.ActionDAO.RecordView(ctx, statusID, userID)
	if err != nil {
		return err
	}
	if !first {
		return nil
	}

	if err := s.StatusCache.RecordView(ctx, statusID, userID); err != nil {
		log.L.Error("record cached view failed",
			zap.Uint64("status_id", statusID),
			zap.Error(err))
	}
	s.bumpCounter(ctx, statusID, types.CounterViews, 1)
	return nil
}

// bumpCounter 与 StatusService 相同的双写策略
func (s *ActionService) bumpCounter(ctx context.Context, statusID uint64, field types.CounterField, delta int64) {
	if err := s.StatusCache.MutateCounter(ctx, statusID, field, delta); err != nil {
		log.L.Error("mutate cached counter failed",
			zap.Uint64("status_id", statusID),
			zap.String("field", string(field)),
			zap.Error(err))
	}
	if err := s.StatsDAO.Incr(ctx, statusID, field, delta); err != nil {
		log.L.Error("incr durable counter failed",
			zap.Uint64("status_id", statusID),
			zap.String("field", string(field)),
			zap.Error(err))
	}
}

func counterFor(action types.ActionKind) types.CounterField {
	if action == types.ActionDislike {
		return types.CounterDislikes
	}
	return types.CounterLikes
}
