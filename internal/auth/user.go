package auth

import (
	"context"

	"go.uber.org/zap"

	"github.com/ecuworks/tunehub/internal/store/model"
)

type userKeyType struct{}

var userKey userKeyType

func NewUserContext(ctx context.Context, u *model.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

func UserFromContext(ctx context.Context) (*model.User, bool) {
	val := ctx.Value(userKey)
	if val == nil {
		return nil, false
	}
	return val.(*model.User), true
}

func MustHaveUser(ctx context.Context) *model.User {
	user, found := UserFromContext(ctx)
	if !found {
		zap.S().Named("auth").Panic("failed to find user in context")
	}
	return user
}
