package globals

type ContextKey string

const (
	UserIDKey ContextKey = "userId"
	TokenKey  ContextKey = "token"
)
