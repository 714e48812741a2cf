package ctxutil

import "context"

// subjectKeyType 使用私有类型避免与其他 context key 冲突
type subjectKeyType struct{}

var subjectKey = subjectKeyType{}

// WithSubject 将认证主体注入到 context 中
// 说明：在认证中间件解析 JWT 成功后调用：
//
//	ctx := ctxutil.WithSubject(c.Request.Context(), claims.Subject)
//	c.Request = c.Request.WithContext(ctx)
func WithSubject(ctx context.Context, subject string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, subjectKey, subject)
}

// GetSubject 从 context 中解析认证主体
// 返回值：
//   - string: 解析到的主体标识
//   - bool  : 是否存在有效的主体
func GetSubject(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	v := ctx.Value(subjectKey)
	sub, ok := v.(string)
	if !ok || sub == "" {
		return "", false
	}
	return sub, true
}
