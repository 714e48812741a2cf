package storytools

import (
	"fmt"
	"regexp"
	"strings"
)

var sceneIDSegmentPattern = regexp.MustCompile(`scene_\d+`)

// OutputMerger 分段产物合并器
//
// 超长小说按部分各自跑完流水线后，用本合并器把各部分的场景、
// 解说、音效与分镜提示词文档拼成整本产物，序号与编号按基准偏移重排。
type OutputMerger struct{}

// NewOutputMerger 创建合并器
func NewOutputMerger() *OutputMerger {
	return &OutputMerger{}
}

// MergeFlat 合并扁平文档数组（场景、解说、音效）
//
// incoming 以 existing 长度为基准重排 index 与 scene_idx，
// id 中的 scene_NNN 段同步改写。文档按引用原地修改。
func (om *OutputMerger) MergeFlat(existing, incoming []map[string]interface{}) []map[string]interface{} {
	base := len(existing)
	for i, doc := range incoming {
		if doc == nil {
			continue
		}
		doc["index"] = base + i
		if _, ok := doc["scene_idx"]; ok {
			doc["scene_idx"] = base + i
		}
		if id, ok := doc["id"].(string); ok && strings.Contains(id, "scene_") {
			doc["id"] = sceneIDSegmentPattern.ReplaceAllString(id, fmt.Sprintf("scene_%03d", base+i+1))
		}
	}
	return append(existing, incoming...)
}

// MergeShots 合并按场景嵌套的分镜提示词数组
//
// 场景序号以 existing 场景数为基准偏移，编号由场景与分镜序号重建。
func (om *OutputMerger) MergeShots(existing, incoming [][]map[string]interface{}) [][]map[string]interface{} {
	baseScene := len(existing)
	for sceneIdx, prompts := range incoming {
		for _, doc := range prompts {
			if doc == nil {
				continue
			}
			doc["scene_idx"] = baseScene + sceneIdx
			doc["id"] = fmt.Sprintf("scene_%03d_shot_%02d", baseScene+sceneIdx+1, docInt(doc, "shot_idx")+1)
		}
	}
	return append(existing, incoming...)
}

// docInt 宽容读取文档整数字段，缺失或类型不符返回 0
func docInt(doc map[string]interface{}, key string) int {
	switch v := doc[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}
