package actorctx

import "context"

type contextKey struct{}

// Actor identifies the authenticated caller of a request.
type Actor struct {
	UserID int64
	Role   string
}

func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, contextKey{}, actor)
}

func FromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(contextKey{}).(Actor)
	return actor, ok
}
