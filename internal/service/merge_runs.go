package service

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"fable/internal/pkg/storytools"
)

// MergedDocuments 多个部分合并后的分解文档
// 超长小说分部分各自跑完流水线后，按部分顺序拼成整本产物
type MergedDocuments struct {
	Scenes    []map[string]interface{}   `json:"scenes"`
	Prompts   [][]map[string]interface{} `json:"prompts"`
	Narration []map[string]interface{}   `json:"narration"`
	SFX       []map[string]interface{}   `json:"sfx"`
}

// MergeExportedRuns 读取多个导出目录下的分解文档并按顺序合并
//
// 每个目录应包含一次运行导出的 scenes.json、prompts.json、
// narration.json 与 sfx.json，场景序号与编号按前序部分的场景数偏移重排。
func MergeExportedRuns(dirs []string) (*MergedDocuments, error) {
	if len(dirs) < 2 {
		return nil, fmt.Errorf("merge requires at least two run directories, got %d", len(dirs))
	}

	merger := storytools.NewOutputMerger()
	merged := &MergedDocuments{}

	for _, dir := range dirs {
		var scenes, narration, sfx []map[string]interface{}
		var prompts [][]map[string]interface{}

		if err := readRunDocument(dir, "scenes.json", &scenes); err != nil {
			return nil, err
		}
		if err := readRunDocument(dir, "prompts.json", &prompts); err != nil {
			return nil, err
		}
		if err := readRunDocument(dir, "narration.json", &narration); err != nil {
			return nil, err
		}
		if err := readRunDocument(dir, "sfx.json", &sfx); err != nil {
			return nil, err
		}

		merged.Scenes = merger.MergeFlat(merged.Scenes, scenes)
		merged.Prompts = merger.MergeShots(merged.Prompts, prompts)
		merged.Narration = merger.MergeFlat(merged.Narration, narration)
		merged.SFX = merger.MergeFlat(merged.SFX, sfx)
	}

	return merged, nil
}

// readRunDocument 读取并解码单个导出文档
func readRunDocument(dir, name string, dest interface{}) error {
	path := filepath.Join(dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
