package apiclient

import "context"

type contextKey string

const tokenKey contextKey = "bearer_token"

// WithToken stores the caller's bearer token; the client forwards it.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}
