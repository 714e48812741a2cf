package story

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RunSettings 运行的流水线参数快照
// 与请求无关的字段在创建时按默认值补齐，之后不再变化
type RunSettings struct {
	ImageEngine           string `bson:"image_engine" json:"image_engine"`                                   // 生图引擎
	ImageStyle            string `bson:"image_style" json:"image_style"`                                     // 画面风格
	CharacterProfile      string `bson:"character_profile,omitempty" json:"character_profile,omitempty"`     // 角色 LoRA 配置
	VoiceMode             string `bson:"voice_mode" json:"voice_mode"`                                       // 配音模式
	ParallaxEnabled       bool   `bson:"parallax_enabled" json:"parallax_enabled"`                           // 是否启用 3D 视差
	SFXMode               string `bson:"sfx_mode" json:"sfx_mode"`                                           // 音效模式
	BrollDensity          int    `bson:"broll_density" json:"broll_density"`                                 // 每场景分镜数
	SceneTransition       string `bson:"scene_transition_style" json:"scene_transition_style"`               // 转场方式
	TargetVideoFPS        int    `bson:"target_video_fps" json:"target_video_fps"`                           // 目标帧率
	TargetResolution      string `bson:"target_resolution" json:"target_resolution"`                         // 目标分辨率
	MaxSceneChars         int    `bson:"max_scene_chars" json:"max_scene_chars"`                             // 单场景字符预算
	HasVoiceReference     bool   `bson:"has_voice_reference" json:"has_voice_reference"`                     // 是否带参考音频
	HasCharacterReference bool   `bson:"has_character_reference" json:"has_character_reference"`             // 是否带角色参考图
	CustomStylePrompt     string `bson:"custom_style_prompt,omitempty" json:"custom_style_prompt,omitempty"` // 附加风格提示词
}

// RunStats 运行的产出统计
type RunStats struct {
	NumScenes     int     `bson:"num_scenes" json:"num_scenes"`         // 场景数
	TotalShots    int     `bson:"total_shots" json:"total_shots"`       // 分镜总数
	NumCharacters int     `bson:"num_characters" json:"num_characters"` // 识别出的角色数
	NumTTSChunks  int     `bson:"num_tts_chunks" json:"num_tts_chunks"` // TTS 分块数
	TotalWords    int     `bson:"total_words" json:"total_words"`       // 正文词数
	TotalSeconds  float64 `bson:"total_seconds" json:"total_seconds"`   // 预计解说总时长（秒）
}

// Run 一次小说分解运行（主表）
type Run struct {
	ID         string      `bson:"id" json:"id"`                                           // 运行ID（UUID）
	Title      string      `bson:"title,omitempty" json:"title,omitempty"`                 // 标题（可选）
	SourceName string      `bson:"source_name,omitempty" json:"source_name,omitempty"`     // 源文件名
	SourceKey  string      `bson:"source_key,omitempty" json:"source_key,omitempty"`       // 源文本在存储中的 key
	Encoding   string      `bson:"encoding,omitempty" json:"encoding,omitempty"`           // 源文本编码
	Status     RunStatus   `bson:"status" json:"status"`                                   // 状态
	Settings   RunSettings `bson:"settings" json:"settings"`                               // 参数快照
	Stats      RunStats    `bson:"stats,omitempty" json:"stats,omitempty"`                 // 产出统计
	ErrorMsg   string      `bson:"error_message,omitempty" json:"error_message,omitempty"` // 错误信息（失败时）
	CreatedAt  time.Time   `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time   `bson:"updated_at" json:"updated_at"`
	DeletedAt  *time.Time  `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
}

// Collection 返回集合名称
func (r *Run) Collection() string { return "runs" }

// EnsureIndexes 创建和维护索引
func (r *Run) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(r.Collection())
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetName("idx_id").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_status_created"),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_created"),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}
