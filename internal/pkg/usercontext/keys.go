package usercontext

// Shared Locals/session keys used across controllers and middlewares
const (
	KeyUserContext   = "USER_CONTEXT"
	KeyUserID        = "user_id"
	KeyUserEmail     = "user_email"
	KeyUserName      = "user_name"
	KeyFromProtected = "from_protected"
)
