package cont

import (
	"context"

	"linklet/entity"
)

type contextKey string

const userKey contextKey = "auth-user"

// PutUser stores the authenticated API user in the request context.
func PutUser(ctx context.Context, user *entity.UserAuth) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUser retrieves the authenticated API user from the request context.
func GetUser(ctx context.Context) *entity.UserAuth {
	user, ok := ctx.Value(userKey).(*entity.UserAuth)
	if !ok {
		return nil
	}
	return user
}
