package handler

import (
	"Plume/pkg/context"
	"Plume/pkg/response"
	"Plume/service"
	"Plume/types"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Timeline struct {
	TimelineService service.ITimelineService
}

func (h *Timeline) RegisterRouter(r gin.IRouter) {
	g := r.Group("/v1/timeline")
	g.GET("/home", context.Wrap(h.Home))
	g.GET("/user", context.Wrap(h.User))
	g.GET("/story", context.Wrap(h.Story))
	g.GET("/channel", context.Wrap(h.Channel))
	g.GET("/country", context.Wrap(h.Country))
	g.GET("/global", context.Wrap(h.Global))
	g.GET("/topMedia", context.Wrap(h.TopMedia))
}

// pageRequest 解析游标分页参数
func pageRequest(c *gin.Context) types.PageRequest {
	cursor, _ := strconv.ParseInt(c.DefaultQuery("cursor", "0"), 10, 64)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return types.PageRequest{Cursor: cursor, Page: page, PageSize: pageSize}
}

func (h *Timeline) Home(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return response.NewError(401, err.Error())
	}
	statuses, err := h.TimelineService.HomeTimeline(c.Request.Context(), uid, pageRequest(c))
	if err != nil {
		return err
	}
	response.Success(c, statuses)
	return nil
}

func (h *Timeline) User(c *gin.Context) error {
	viewer, _ := context.GetUserID(c)
	userID, err := strconv.ParseUint(c.Query("user_id"), 10, 64)
	if err != nil {
		return response.NewError(400, "user_id 不合法")
	}
	kind, _ := strconv.Atoi(c.DefaultQuery("kind", "1"))

	statuses, err := h.TimelineService.UserTimeline(c.Request.Context(), userID, viewer,
		types.TimelineKind(kind), pageRequest(c))
	if err != nil {
		return err
	}
	response.Success(c, statuses)
	return nil
}

func (h *Timeline) Story(c *gin.Context) error {
	viewer, _ := context.GetUserID(c)
	userID, err := strconv.ParseUint(c.Query("user_id"), 10, 64)
	if err != nil {
		return response.NewError(400, "user_id 不合法")
	}
	statuses, err := h.TimelineService.StoryTimeline(c.Request.Context(), userID, viewer)
	if err != nil {
		return err
	}
	response.Success(c, statuses)
	return nil
}

func (h *Timeline) Channel(c *gin.Context) error {
	viewer, _ := context.GetUserID(c)
	channelID, err := strconv.ParseUint(c.Query("channel_id"), 10, 64)
	if err != nil {
		return response.NewError(400, "channel_id 不合法")
	}
	statuses, err := h.TimelineService.ChannelTimeline(c.Request.Context(), channelID, viewer, pageRequest(c))
	if err != nil {
		return err
	}
	response.Success(c, statuses)
	return nil
}

func (h *Timeline) Country(c *gin.Context) error {
	viewer, _ := context.GetUserID(c)
	code := c.Query("country")
	if code == "" {
		return response.NewError(400, "country 不能为空")
	}
	statuses, err := h.TimelineService.CountryTimeline(c.Request.Context(), code, viewer, pageRequest(c))
	if err != nil {
		return err
	}
	response.Success(c, statuses)
	return nil
}

func (h *Timeline) Global(c *gin.Context) error {
	viewer, _ := context.GetUserID(c)
	statuses, err := h.TimelineService.GlobalTimeline(c.Request.Context(), viewer, pageRequest(c))
	if err != nil {
		return err
	}
	response.Success(c, statuses)
	return nil
}

func (h *Timeline) TopMedia(c *gin.Context) error {
	viewer, _ := context.GetUserID(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	statuses, err := h.TimelineService.TopMedia(c.Request.Context(), viewer, page, pageSize)
	if err != nil {
		return err
	}
	response.Success(c, statuses)
	return nil
}
