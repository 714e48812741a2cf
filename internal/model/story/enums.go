package story

// RunStatus 运行状态
type RunStatus string

const (
	RunStatusPending    RunStatus = "pending"    // 已创建，未开始
	RunStatusProcessing RunStatus = "processing" // 分解中
	RunStatusCompleted  RunStatus = "completed"  // 已完成
	RunStatusFailed     RunStatus = "failed"     // 失败
)

// String 返回状态的字符串表示
func (s RunStatus) String() string {
	return string(s)
}

// SubmitStatus 镜头提示词的渲染提交状态
type SubmitStatus string

const (
	SubmitStatusPending   SubmitStatus = "pending"   // 未提交
	SubmitStatusSubmitted SubmitStatus = "submitted" // 已提交给渲染主机
	SubmitStatusFailed    SubmitStatus = "failed"    // 提交失败
)

// String 返回状态的字符串表示
func (s SubmitStatus) String() string {
	return string(s)
}
