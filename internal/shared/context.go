package shared

import "context"

type sessionContextKey struct{}

// ContextWithSession stores the request session in the context. The session
// middleware installs it; everything downstream reads it back out.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// SessionFromContext extracts the session, or nil outside the middleware.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionContextKey{}).(*Session)
	return sess
}
