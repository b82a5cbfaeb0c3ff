package handler

import (
	"Plume/pkg/context"
	"Plume/pkg/response"
	"Plume/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Channel struct {
	ChannelService service.IChannelService
}

func (h *Channel) RegisterRouter(r gin.IRouter) {
	g := r.Group("/v1/channel")
	g.POST("/follow", context.Wrap(h.Follow))
	g.POST("/unfollow", context.Wrap(h.Unfollow))
	g.POST("/resolveRequest", context.Wrap(h.ResolveRequest))
	g.GET("/followers", context.Wrap(h.Followers))
}

type channelRequest struct {
	ChannelID uint64 `json:"channel_id,string"`
}

func (h *Channel) Follow(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return response.NewError(401, err.Error())
	}
	var req channelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(400, err.Error())
	}
	pending, err := h.ChannelService.FollowChannel(c.Request.Context(), req.ChannelID, uid)
	if err != nil {
		return err
	}
	response.Success(c, gin.H{"pending": pending})
	return nil
}

func (h *Channel) Unfollow(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return response.NewError(401, err.Error())
	}
	var req channelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(400, err.Error())
	}
	if err := h.ChannelService.UnfollowChannel(c.Request.Context(), req.ChannelID, uid); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}

func (h *Channel) ResolveRequest(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return response.NewError(401, err.Error())
	}
	var req struct {
		ChannelID   uint64 `json:"channel_id,string"`
		ApplicantID uint64 `json:"applicant_id,string"`
		Accept      bool   `json:"accept"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(400, err.Error())
	}
	err = h.ChannelService.ResolveFollowRequest(c.Request.Context(),
		req.ChannelID, uid, req.ApplicantID, req.Accept)
	if err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}

func (h *Channel) Followers(c *gin.Context) error {
	channelID, err := strconv.ParseUint(c.Query("channel_id"), 10, 64)
	if err != nil {
		return response.NewError(400, "channel_id 不合法")
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	followers, err := h.ChannelService.ListFollowers(c.Request.Context(), channelID, page, pageSize)
	if err != nil {
		return err
	}
	total, err := h.ChannelService.FollowerCount(c.Request.Context(), channelID)
	if err != nil {
		return err
	}
	response.Success(c, gin.H{"total": total, "user_ids": followers})
	return nil
}
