package requestctx

import "context"

type ctxKey int

const requestIDKey ctxKey = iota

// WithRequestID stores the request ID so any layer can tag logs and audit
// records without threading it through every signature.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	value, _ := ctx.Value(requestIDKey).(string)
	return value
}
