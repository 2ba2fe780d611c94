package constants

const (
	// ContextKeyUserID is the session key holding the authenticated user ID.
	ContextKeyUserID = "user_id"
	// ContextKeyUser is the gin context key holding the resolved user model.
	ContextKeyUser = "current_user"

	// SessionCookieName names the panel session cookie.
	SessionCookieName = "taskforce_panel"

	// MinPasswordLength is the minimum accepted password length.
	MinPasswordLength = 8
)
