package response

type BizError struct {
	Code int
	Msg  string
}

func (e *BizError) Error() string {
	return e.Msg
}

func NewError(code int, msg string) *BizError {
	return &BizError{
		Code: code,
		Msg:  msg,
	}
}

// 业务错误码表
// 404xx 资源不存在 403xx 权限不足 500xx 存储异常
var (
	ErrStatusNotFound  = NewError(40401, "动态不存在")
	ErrUserNotFound    = NewError(40402, "用户不存在")
	ErrChannelNotFound = NewError(40403, "频道不存在")
	ErrRequestNotFound = NewError(40404, "关注申请不存在")

	// ErrPrivacyForbidden 可见性校验不通过，与"不存在"严格区分
	ErrPrivacyForbidden = NewError(40301, "没有查看权限")

	ErrStoreFailure = NewError(50001, "存储服务异常")
)
