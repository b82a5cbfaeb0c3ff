package handler

import (
	stdctx "context"

	"Plume/pkg/context"
	"Plume/pkg/response"
	"Plume/service"

	"github.com/gin-gonic/gin"
)

type Action struct {
	ActionService service.IActionService
}

func (h *Action) RegisterRouter(r gin.IRouter) {
	g := r.Group("/v1/action")
	g.POST("/like", context.Wrap(h.Like))
	g.POST("/dislike", context.Wrap(h.Dislike))
	g.POST("/remove", context.Wrap(h.Remove))
	g.POST("/view", context.Wrap(h.View))
}

type actionRequest struct {
	StatusID uint64 `json:"status_id,string"`
}

func (h *Action) Like(c *gin.Context) error {
	return h.do(c, h.ActionService.Like)
}

func (h *Action) Dislike(c *gin.Context) error {
	return h.do(c, h.ActionService.Dislike)
}

func (h *Action) Remove(c *gin.Context) error {
	return h.do(c, h.ActionService.RemoveReaction)
}

func (h *Action) View(c *gin.Context) error {
	return h.do(c, h.ActionService.View)
}

func (h *Action) do(c *gin.Context, fn func(ctx stdctx.Context, statusID, userID uint64) error) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return response.NewError(401, err.Error())
	}
	var req actionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(400, err.Error())
	}
	if err := fn(c.Request.Context(), req.StatusID, uid); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}
