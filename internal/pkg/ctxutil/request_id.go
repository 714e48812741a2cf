package ctxutil

import "context"

type requestIDKeyType struct{}

var requestIDKey = requestIDKeyType{}

// WithRequestID 将请求ID注入到 context 中，由 RequestID 中间件调用
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID 从 context 中解析请求ID
func GetRequestID(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	v := ctx.Value(requestIDKey)
	id, ok := v.(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
