package auth

import "context"

type sessionContextKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, s)
}

func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionContextKey{}).(*Session)
	return s, ok && s != nil
}

// MustFromContext panics when no session was injected. Reaching it without
// SessionContext in the chain is a wiring mistake, not a runtime condition.
func MustFromContext(ctx context.Context) *Session {
	s, ok := FromContext(ctx)
	if !ok {
		panic("auth: session read outside SessionContext; register auth.SessionContext before this handler")
	}
	return s
}
