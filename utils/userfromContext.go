package utils

import (
	"chatwire/globals"
	"context"
)

func GetUserIDFromContext(ctx context.Context) string {
	requestingUserID, ok := ctx.Value(globals.UserIDKey).(string)
	if !ok || requestingUserID == "" {
		return ""
	}
	return requestingUserID
}

func GetTokenFromContext(ctx context.Context) string {
	token, ok := ctx.Value(globals.TokenKey).(string)
	if !ok {
		return ""
	}
	return token
}
