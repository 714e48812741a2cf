package http

// 所有接口共用一个响应信封：成功为 {code:0, message, data}，
// 由 handler 直接以 gin.H 组装；失败返回 ErrorResponse。
//
// 错误码按 HTTP 状态分段：
//
//	40001          请求参数错误（绑定失败、缺参、文件打不开）
//	40002 - 40006  业务校验失败（空文本/格式不支持/设定非法/无场景/无待提交分镜）
//	40101 - 40103  认证失败（缺 Token／Token 过期／Token 无效）
//	40401 / 40402  运行、源文本不存在
//	50000 - 50002  内部错误（panic／未分类／文件流中断）
//	50301 - 50303  可选依赖未配置（MongoDB／渲染主机／存储）

// ErrorResponse 错误响应（所有API共用）
type ErrorResponse struct {
	Code    int    `json:"code"`             // 错误码（非0表示错误）
	Message string `json:"message"`          // 错误消息
	Detail  string `json:"detail,omitempty"` // 错误详情（可选）
}
