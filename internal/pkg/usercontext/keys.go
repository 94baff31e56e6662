package usercontext

// Shared Locals/session keys used across controllers and middlewares
const (
	LocalsKey        = "USER_CONTEXT"
	KeyUserID        = "user_id"
	KeyNickname      = "nickname"
	KeyHasInfo       = "has_info"
	KeyFromProtected = "from_protected"
)
