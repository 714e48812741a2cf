package storytools

import (
	"crypto/md5"
	"encoding/hex"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// 角色名候选模式，匹配一到两个首字母大写的连续单词
var entityNamePattern = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?\b`)

// EntityTier 角色层级，按提及次数划分
type EntityTier string

const (
	EntityTierMain       EntityTier = "main"       // 主角，提及 20 次以上
	EntityTierSupporting EntityTier = "supporting" // 配角，提及 5 次以上
	EntityTierMinor      EntityTier = "minor"      // 次要角色，提及 2 次以上
	EntityTierBackground EntityTier = "background" // 背景角色
)

// RefsNeeded 返回该层级建议的参考图数量
func (t EntityTier) RefsNeeded() int {
	switch t {
	case EntityTierMain:
		return 3
	case EntityTierSupporting:
		return 2
	case EntityTierMinor:
		return 1
	default:
		return 0
	}
}

// TierForMentions 按提及次数划分角色层级
func TierForMentions(mentions int) EntityTier {
	switch {
	case mentions >= 20:
		return EntityTierMain
	case mentions >= 5:
		return EntityTierSupporting
	case mentions >= 2:
		return EntityTierMinor
	default:
		return EntityTierBackground
	}
}

// Entity 提取出的角色实体
type Entity struct {
	ID          string     `json:"id"`                    // 名字 MD5 的前 8 位十六进制
	Name        string     `json:"name"`                  // 角色名，保留原文大小写
	Mentions    int        `json:"mentions"`              // 提及次数
	Tier        EntityTier `json:"tier"`                  // 层级
	RefsNeeded  int        `json:"refs_needed"`           // 建议参考图数量
	Description string     `json:"description,omitempty"` // 调用方补充的外貌描述
}

// ExtraName 调用方指定的附加角色
type ExtraName struct {
	Name        string // 角色名
	Description string // 可选的外貌描述
}

// ParseExtraNames 解析附加角色清单，每行一个，形如 "Name" 或 "Name: description"
func ParseExtraNames(lines string) []ExtraName {
	var extras []ExtraName
	for _, line := range strings.Split(lines, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		name, desc, found := strings.Cut(line, ":")
		extra := ExtraName{Name: strings.TrimSpace(name)}
		if found {
			extra.Description = strings.TrimSpace(desc)
		}
		if extra.Name != "" {
			extras = append(extras, extra)
		}
	}
	return extras
}

// EntityExtractor 角色实体提取器
//
// 基于首字母大写的频次统计，经停用词表过滤后按提及次数分层。
// 启发式方法，同名地名或句首词偶有误判属预期行为。
type EntityExtractor struct {
	defaultMaxEntities int
}

// NewEntityExtractor 创建角色提取器，默认最多保留 20 个实体
func NewEntityExtractor() *EntityExtractor {
	return &EntityExtractor{defaultMaxEntities: 20}
}

// Extract 从文本中提取角色实体
//
// 候选词需满足: 至少 3 个字符、出现至少 2 次、小写形式不在停用词表中。
// 结果按提及次数降序排列，同次数保持首次出现顺序，最多 maxEntities 个。
// maxEntities 不为正时使用默认值。
func (ee *EntityExtractor) Extract(text string, maxEntities int) []Entity {
	return ee.ExtractWithExtras(text, maxEntities, nil)
}

// ExtractWithExtras 提取角色实体并合并调用方指定的附加角色
//
// 附加角色跳过频次过滤，按不区分大小写的全词匹配统计提及次数，
// 一次未出现也保留（计 0 次，归入 background 层级）。
// 与自动候选同名时仅补充描述，不重复记录。
func (ee *EntityExtractor) ExtractWithExtras(text string, maxEntities int, extras []ExtraName) []Entity {
	if maxEntities <= 0 {
		maxEntities = ee.defaultMaxEntities
	}

	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	for _, name := range entityNamePattern.FindAllString(text, -1) {
		if _, seen := counts[name]; !seen {
			firstSeen[name] = len(firstSeen)
		}
		counts[name]++
	}

	ordered := make([]string, len(firstSeen))
	for name, idx := range firstSeen {
		ordered[idx] = name
	}

	var entities []Entity
	for _, name := range ordered {
		if counts[name] < 2 {
			continue
		}
		if utf8.RuneCountInString(name) < 3 {
			continue
		}
		if _, stopped := stopWordSet[strings.ToLower(name)]; stopped {
			continue
		}
		entities = append(entities, Entity{Name: name, Mentions: counts[name]})
	}

	for _, extra := range extras {
		name := strings.TrimSpace(extra.Name)
		if name == "" {
			continue
		}
		if existing := findEntity(entities, name); existing != nil {
			if extra.Description != "" {
				existing.Description = extra.Description
			}
			continue
		}
		entities = append(entities, Entity{
			Name:        name,
			Mentions:    countWholeWord(text, name),
			Description: extra.Description,
		})
	}

	sort.SliceStable(entities, func(i, j int) bool {
		return entities[i].Mentions > entities[j].Mentions
	})
	if len(entities) > maxEntities {
		entities = entities[:maxEntities]
	}

	for i := range entities {
		entities[i].Tier = TierForMentions(entities[i].Mentions)
		entities[i].RefsNeeded = entities[i].Tier.RefsNeeded()
		entities[i].ID = entityID(entities[i].Name)
	}
	return entities
}

func findEntity(entities []Entity, name string) *Entity {
	for i := range entities {
		if entities[i].Name == name {
			return &entities[i]
		}
	}
	return nil
}

// countWholeWord 不区分大小写统计 name 的全词出现次数
func countWholeWord(text, name string) int {
	pattern, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(name) + `\b`)
	if err != nil {
		return 0
	}
	return len(pattern.FindAllString(text, -1))
}

// entityID 由角色名计算稳定标识
func entityID(name string) string {
	sum := md5.Sum([]byte(name))
	return hex.EncodeToString(sum[:])[:8]
}

// CharacterSlug 由角色名生成下划线风格的文件名安全标识，形如 char_elena_rossi
func CharacterSlug(name string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(name)))
	joined := strings.Join(fields, "_")
	var b strings.Builder
	for _, r := range joined {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return "char_" + b.String()
}
