package storytools

import (
	"math"
	"sort"
)

// Checkpoint 已完成条目序号的集合
//
// 序列化形态是升序整数数组，标记操作幂等。
type Checkpoint struct {
	completed map[int]struct{}
}

// NewCheckpoint 由已完成序号创建检查点
func NewCheckpoint(indices []int) *Checkpoint {
	cp := &Checkpoint{completed: make(map[int]struct{}, len(indices))}
	for _, idx := range indices {
		cp.completed[idx] = struct{}{}
	}
	return cp
}

// Mark 标记条目完成，重复标记无效果，负数序号忽略
func (cp *Checkpoint) Mark(index int) {
	if index < 0 {
		return
	}
	cp.completed[index] = struct{}{}
}

// Contains 判断条目是否已完成
func (cp *Checkpoint) Contains(index int) bool {
	_, ok := cp.completed[index]
	return ok
}

// Count 返回已完成条目数
func (cp *Checkpoint) Count() int {
	return len(cp.completed)
}

// Indices 导出升序的已完成序号
func (cp *Checkpoint) Indices() []int {
	out := make([]int, 0, len(cp.completed))
	for idx := range cp.completed {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

// Percent 计算完成百分比，保留一位小数
func (cp *Checkpoint) Percent(totalItems int) float64 {
	if totalItems < 1 {
		totalItems = 1
	}
	percent := float64(cp.Count()) / float64(totalItems) * 100
	return math.Round(percent*10) / 10
}

// AllComplete 判断是否全部完成
func (cp *Checkpoint) AllComplete(totalItems int) bool {
	return cp.Count() >= totalItems
}

// Batch 批次切片
type Batch struct {
	Index        int  `json:"index"`         // 批次序号，从 0 开始
	Start        int  `json:"start"`         // 起始条目序号（含）
	End          int  `json:"end"`           // 结束条目序号（不含）
	Size         int  `json:"size"`          // 批内条目数
	TotalBatches int  `json:"total_batches"` // 总批次数
	HasMore      bool `json:"has_more"`      // 之后是否还有批次
}

// BatchPlan 断点续跑规划
type BatchPlan struct {
	TotalItems       int     `json:"total_items"`        // 条目总数
	BatchSize        int     `json:"batch_size"`         // 批大小
	TotalBatches     int     `json:"total_batches"`      // 总批次数
	CompletedItems   int     `json:"completed_items"`    // 已完成条目数
	ResumeBatchIndex int     `json:"resume_batch_index"` // 续跑批次序号
	RemainingItems   int     `json:"remaining_items"`    // 剩余条目数
	RemainingBatches int     `json:"remaining_batches"`  // 剩余批次数
	EstimatedSeconds float64 `json:"estimated_seconds"`  // 预计剩余耗时（秒）
	PercentComplete  float64 `json:"percent_complete"`   // 完成百分比
	AllComplete      bool    `json:"all_complete"`       // 是否全部完成
}

// BatchPlanner 批次规划器
//
// 将顺序工作集切成定长批次，依据检查点计算续跑位置与耗时估算。
type BatchPlanner struct {
	batchSize      int
	secondsPerItem float64
}

// NewBatchPlanner 创建批次规划器，batchSize 不为正时默认 10
func NewBatchPlanner(batchSize int) *BatchPlanner {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &BatchPlanner{batchSize: batchSize, secondsPerItem: 10}
}

// SetSecondsPerItem 设置单件默认耗时（秒），非正值忽略
func (bp *BatchPlanner) SetSecondsPerItem(seconds float64) {
	if seconds > 0 {
		bp.secondsPerItem = seconds
	}
}

// BatchSize 返回批大小
func (bp *BatchPlanner) BatchSize() int {
	return bp.batchSize
}

// TotalBatches 计算总批次数
func (bp *BatchPlanner) TotalBatches(totalItems int) int {
	if totalItems <= 0 {
		return 0
	}
	return (totalItems + bp.batchSize - 1) / bp.batchSize
}

// Batch 取第 batchIndex 个批次
//
// 序号越界时返回空批次并带回真实总批次数，has_more 为假。
func (bp *BatchPlanner) Batch(totalItems, batchIndex int) Batch {
	totalBatches := bp.TotalBatches(totalItems)
	if batchIndex < 0 || batchIndex >= totalBatches {
		return Batch{Index: batchIndex, TotalBatches: totalBatches}
	}
	start := batchIndex * bp.batchSize
	end := start + bp.batchSize
	if end > totalItems {
		end = totalItems
	}
	return Batch{
		Index:        batchIndex,
		Start:        start,
		End:          end,
		Size:         end - start,
		TotalBatches: totalBatches,
		HasMore:      batchIndex < totalBatches-1,
	}
}

// Plan 依据检查点计算续跑规划
//
// 续跑批次是首个索引区间未被完整覆盖的批次；全部覆盖时为总批次数。
// checkpoint 为 nil 时按零完成处理。
func (bp *BatchPlanner) Plan(totalItems int, checkpoint *Checkpoint) BatchPlan {
	if totalItems < 0 {
		totalItems = 0
	}
	completed := 0
	if checkpoint != nil {
		completed = checkpoint.Count()
	}

	totalBatches := bp.TotalBatches(totalItems)
	resume := totalBatches
	for b := 0; b < totalBatches; b++ {
		start := b * bp.batchSize
		end := start + bp.batchSize
		if end > totalItems {
			end = totalItems
		}
		covered := checkpoint != nil
		for i := start; covered && i < end; i++ {
			if !checkpoint.Contains(i) {
				covered = false
			}
		}
		if !covered {
			resume = b
			break
		}
	}

	remaining := totalItems - completed
	if remaining < 0 {
		remaining = 0
	}

	denom := totalItems
	if denom < 1 {
		denom = 1
	}
	percent := math.Round(float64(completed)/float64(denom)*100*10) / 10

	return BatchPlan{
		TotalItems:       totalItems,
		BatchSize:        bp.batchSize,
		TotalBatches:     totalBatches,
		CompletedItems:   completed,
		ResumeBatchIndex: resume,
		RemainingItems:   remaining,
		RemainingBatches: (remaining + bp.batchSize - 1) / bp.batchSize,
		EstimatedSeconds: bp.EstimateSeconds(remaining, 0, 0),
		PercentComplete:  percent,
		AllComplete:      completed >= totalItems,
	}
}

// EstimateSeconds 估算剩余耗时（秒）
//
// 已有完成条目且给出实际耗时时，用观测均值覆盖默认单件耗时。
func (bp *BatchPlanner) EstimateSeconds(remaining, completed int, elapsedSeconds float64) float64 {
	perItem := bp.secondsPerItem
	if completed > 0 && elapsedSeconds > 0 {
		perItem = elapsedSeconds / float64(completed)
	}
	if remaining < 0 {
		remaining = 0
	}
	return float64(remaining) * perItem
}
