package constants

const (
	// ContextKeyUserID is shared by the session store and gin.Context.
	ContextKeyUserID = "user_id"
	// ContextKeyUser holds the authenticated *models.User.
	ContextKeyUser = "user"
	// ContextKeyProject holds the project resolved by RequireProject.
	ContextKeyProject = "project"

	SessionCookieName = "tumbluv_session"

	DefaultOffset   = 0
	DefaultPageSize = 12
	MaxPageSize     = 100

	MinFullnameLength = 2
	MaxFullnameLength = 40
	MinPasswordLength = 6
	MaxPasswordLength = 20

	VerificationCodeLength = 6
)
