package handler

import (
	"Plume/pkg/context"
	"Plume/pkg/response"
	"Plume/service"
	"Plume/types"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Status struct {
	StatusService service.IStatusService
}

func (h *Status) RegisterRouter(r gin.IRouter) {
	g := r.Group("/v1/status")
	g.POST("/create", context.Wrap(h.Create))
	g.POST("/delete", context.Wrap(h.Delete))
	g.GET("/detail", context.Wrap(h.Detail))
	g.GET("/replies", context.Wrap(h.Replies))
}

func (h *Status) Create(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return response.NewError(401, err.Error())
	}

	var req types.CreateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(400, err.Error())
	}
	req.AuthorID = uid

	id, err := h.StatusService.CreateStatus(c.Request.Context(), &req)
	if err != nil {
		return err
	}
	response.Success(c, gin.H{"status_id": strconv.FormatUint(id, 10)})
	return nil
}

func (h *Status) Delete(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return response.NewError(401, err.Error())
	}
	var req struct {
		StatusID uint64 `json:"status_id,string"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(400, err.Error())
	}
	if err := h.StatusService.DeleteStatus(c.Request.Context(), req.StatusID, uid); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}

func (h *Status) Detail(c *gin.Context) error {
	uid, _ := context.GetUserID(c)
	statusID, err := strconv.ParseUint(c.Query("status_id"), 10, 64)
	if err != nil {
		return response.NewError(400, "status_id 不合法")
	}
	view, err := h.StatusService.GetStatus(c.Request.Context(), statusID, uid)
	if err != nil {
		return err
	}
	response.Success(c, view)
	return nil
}

func (h *Status) Replies(c *gin.Context) error {
	uid, _ := context.GetUserID(c)
	statusID, err := strconv.ParseUint(c.Query("status_id"), 10, 64)
	if err != nil {
		return response.NewError(400, "status_id 不合法")
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	replies, err := h.StatusService.ListReplies(c.Request.Context(), statusID, uid, page, pageSize)
	if err != nil {
		return err
	}
	response.Success(c, replies)
	return nil
}
