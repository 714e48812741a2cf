package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"fable/internal/model/story"
	"fable/internal/pkg/id"
	"fable/internal/pkg/storytools"
)

// toRunSettings 将核心流水线设定映射为运行实体的设定字段
func toRunSettings(ps storytools.PipelineSettings, maxSceneChars int) story.RunSettings {
	return story.RunSettings{
		ImageEngine:           ps.ImageEngine,
		ImageStyle:            ps.ImageStyle,
		CharacterProfile:      ps.CharacterProfile,
		VoiceMode:             ps.VoiceMode,
		ParallaxEnabled:       ps.ParallaxEnabled,
		SFXMode:               ps.SFXMode,
		BrollDensity:          ps.BrollDensity,
		SceneTransition:       ps.SceneTransition,
		TargetVideoFPS:        ps.TargetVideoFPS,
		TargetResolution:      ps.TargetResolution,
		MaxSceneChars:         maxSceneChars,
		HasVoiceReference:     ps.HasVoiceReference,
		HasCharacterReference: ps.HasCharacterReference,
		CustomStylePrompt:     ps.CustomStylePrompt,
	}
}

// toPipelineSettings 运行实体设定还原为核心流水线设定
func toPipelineSettings(rs story.RunSettings) storytools.PipelineSettings {
	return storytools.PipelineSettings{
		ImageEngine:           rs.ImageEngine,
		ImageStyle:            rs.ImageStyle,
		CharacterProfile:      rs.CharacterProfile,
		VoiceMode:             rs.VoiceMode,
		ParallaxEnabled:       rs.ParallaxEnabled,
		SFXMode:               rs.SFXMode,
		BrollDensity:          rs.BrollDensity,
		SceneTransition:       rs.SceneTransition,
		TargetVideoFPS:        rs.TargetVideoFPS,
		TargetResolution:      rs.TargetResolution,
		HasVoiceReference:     rs.HasVoiceReference,
		HasCharacterReference: rs.HasCharacterReference,
		CustomStylePrompt:     rs.CustomStylePrompt,
	}
}

// toRunStats 将核心统计映射为运行实体的统计字段
func toRunStats(ps storytools.PipelineStats, numTTSChunks int) story.RunStats {
	return story.RunStats{
		NumScenes:     ps.NumScenes,
		TotalShots:    ps.TotalShots,
		NumCharacters: ps.NumCharacters,
		NumTTSChunks:  numTTSChunks,
		TotalWords:    ps.TotalWords,
		TotalSeconds:  ps.TotalSeconds,
	}
}

// toPipelineStats 运行实体统计还原为核心统计
func toPipelineStats(rs story.RunStats) storytools.PipelineStats {
	return storytools.PipelineStats{
		NumScenes:     rs.NumScenes,
		TotalShots:    rs.TotalShots,
		TotalSeconds:  rs.TotalSeconds,
		NumCharacters: rs.NumCharacters,
		TotalWords:    rs.TotalWords,
	}
}

// persistResult 将一次分解的全部文档落库
func (s *decomposeService) persistResult(ctx context.Context, runID string, result *DecomposeResult) error {
	scenes := make([]*story.Scene, len(result.Scenes))
	for i, doc := range result.Scenes {
		scenes[i] = &story.Scene{
			ID:               id.New(),
			RunID:            runID,
			SceneID:          doc.Scene.ID,
			Index:            doc.Index,
			Text:             doc.Text,
			StartOffset:      doc.StartOffset,
			CharCount:        doc.CharCount,
			ParaCount:        doc.ParaCount,
			SceneType:        doc.SceneType,
			Density:          doc.Density,
			DurationEstimate: doc.DurationEstimate,
		}
	}
	if err := s.sceneRepo.CreateMany(ctx, scenes); err != nil {
		return fmt.Errorf("save scenes: %w", err)
	}

	var prompts []*story.ShotPrompt
	for _, scenePrompts := range result.Prompts {
		for _, p := range scenePrompts {
			prompts = append(prompts, &story.ShotPrompt{
				ID:             id.New(),
				RunID:          runID,
				SceneID:        fmt.Sprintf("scene_%03d", p.SceneIdx+1),
				ShotID:         p.ID,
				SceneIndex:     p.SceneIdx,
				ShotIndex:      p.ShotIdx,
				ShotType:       p.ShotType,
				Prompt:         p.Prompt,
				NegativePrompt: p.NegativePrompt,
				TokenCount:     p.TokenCount,
			})
		}
	}
	if err := s.shotPromptRepo.CreateMany(ctx, prompts); err != nil {
		return fmt.Errorf("save shot prompts: %w", err)
	}

	characters := make([]*story.Character, len(result.Characters))
	for i, e := range result.Characters {
		characters[i] = &story.Character{
			ID:          id.New(),
			RunID:       runID,
			CharID:      e.ID,
			Name:        e.Name,
			Slug:        storytools.CharacterSlug(e.Name),
			Description: e.Description,
			Mentions:    e.Mentions,
			Tier:        string(e.Tier),
			RefsNeeded:  e.RefsNeeded,
		}
	}
	if err := s.characterRepo.CreateMany(ctx, characters); err != nil {
		return fmt.Errorf("save characters: %w", err)
	}

	narration := make([]*story.NarrationUnit, len(result.Narration))
	for i, u := range result.Narration {
		narration[i] = &story.NarrationUnit{
			ID:              id.New(),
			RunID:           runID,
			NarrationID:     u.ID,
			SceneID:         fmt.Sprintf("scene_%03d", u.SceneIdx+1),
			SceneIndex:      u.SceneIdx,
			Text:            u.Text,
			WordCount:       u.WordCount,
			DurationSeconds: u.EstimatedDurationSeconds,
			DialogueRatio:   u.DialogueRatio,
			HasDialogue:     u.HasDialogue,
		}
	}
	if err := s.narrationRepo.CreateMany(ctx, narration); err != nil {
		return fmt.Errorf("save narration: %w", err)
	}

	sfxDocs := make([]*story.SFXDoc, len(result.SFX))
	for i, sfx := range result.SFX {
		cues := make([]story.SFXCueItem, len(sfx.Cues))
		for j, cue := range sfx.Cues {
			cues[j] = story.SFXCueItem{
				Keyword:  cue.Keyword,
				Prompts:  cue.Prompts,
				Prompt:   cue.Prompt,
				Priority: cue.Priority,
			}
		}
		sfxDocs[i] = &story.SFXDoc{
			ID:             id.New(),
			RunID:          runID,
			SFXID:          sfx.ID,
			SceneID:        fmt.Sprintf("scene_%03d", sfx.SceneIdx+1),
			SceneIndex:     sfx.SceneIdx,
			Cues:           cues,
			CombinedPrompt: sfx.CombinedPrompt,
			CueCount:       sfx.CueCount,
		}
	}
	if err := s.sfxRepo.CreateMany(ctx, sfxDocs); err != nil {
		return fmt.Errorf("save sfx cues: %w", err)
	}

	chunks := make([]*story.TTSChunk, len(result.TTSChunks))
	for i, c := range result.TTSChunks {
		chunks[i] = &story.TTSChunk{
			ID:               id.New(),
			RunID:            runID,
			ChunkID:          c.ID,
			Index:            c.Index,
			SceneIndex:       c.SceneIdx,
			Text:             c.Text,
			CharCount:        c.CharCount,
			WordCount:        c.WordCount,
			EstimatedSeconds: c.EstimatedSeconds,
			IsSceneEnd:       c.IsSceneEnd,
		}
	}
	if err := s.ttsChunkRepo.CreateMany(ctx, chunks); err != nil {
		return fmt.Errorf("save tts chunks: %w", err)
	}

	return nil
}

// exportResult 把七类文档以 JSON 形式导出到存储，失败仅告警
func (s *decomposeService) exportResult(ctx context.Context, runID string, result *DecomposeResult) {
	if s.store == nil {
		return
	}
	documents := map[string]interface{}{
		"scenes.json":     result.Scenes,
		"prompts.json":    result.Prompts,
		"characters.json": result.Characters,
		"narration.json":  result.Narration,
		"sfx.json":        result.SFX,
		"tts_chunks.json": result.TTSChunks,
		"summary.json":    result.Summary,
	}
	for name, doc := range documents {
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			log.Warn().Err(err).Str("document", name).Msg("序列化导出文档失败")
			continue
		}
		key := fmt.Sprintf("runs/%s/%s", runID, name)
		if _, err := s.store.Upload(ctx, key, bytes.NewReader(data), "application/json"); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("导出文档到存储失败")
		}
	}
}
