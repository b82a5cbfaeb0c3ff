package context

import (
	"Plume/pkg/response"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// 调用方身份由网关注入的请求头传递
const HeaderUserID = "X-User-Id"

type HandlerFunc func(*gin.Context) error

func Wrap(h func(*gin.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h(c); err != nil {

			// 如果已经写过响应，直接返回
			if c.Writer.Written() {
				return
			}
			// 业务错误
			var be *response.BizError
			if errors.As(err, &be) {
				c.JSON(http.StatusOK, response.Response{
					Code: be.Code,
					Msg:  be.Msg,
				})
				return
			}
			c.JSON(http.StatusInternalServerError, response.Response{
				Code: 500,
				Msg:  err.Error(),
			})
		}
	}
}

func GetUserID(c *gin.Context) (uint64, error) {
	raw := c.GetHeader(HeaderUserID)
	if raw == "" {
		return 0, errors.New("user_id 不存在")
	}
	uid, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, errors.New("user_id 类型错误")
	}
	return uid, nil
}
