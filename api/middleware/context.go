package middleware

import "context"

type contextKey string

const (
	ctxAdminSubject contextKey = "admin_subject"
	ctxSessionID    contextKey = "cart_session_id"
)

// AdminSubjectFromContext returns the operator authenticated by AdminAuth.
func AdminSubjectFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxAdminSubject).(string); ok {
		return v
	}
	return ""
}

func WithAdminSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, ctxAdminSubject, subject)
}

// SessionIDFromContext returns the storefront cart session set by CartSession.
func SessionIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxSessionID).(string); ok {
		return v
	}
	return ""
}

func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, ctxSessionID, sessionID)
}
