package storytools

import "strings"

// 画面元素关键词表，按小写子串匹配，列表顺序即命中顺序
var (
	locationKeywords = []string{
		"forest", "city", "room", "house", "castle", "village", "street",
		"garden", "mountain", "cave", "ocean", "beach", "desert", "temple",
		"palace", "tower", "library", "kitchen", "bedroom", "hall",
		"hallway", "dungeon", "church", "school",
	}
	timeOfDayKeywords = []string{
		"dawn", "sunrise", "morning", "noon", "afternoon", "dusk",
		"sunset", "evening", "night", "midnight", "twilight",
	}
	weatherKeywords = []string{
		"rain", "snow", "storm", "sunny", "cloudy", "fog", "mist",
		"wind", "thunder", "lightning", "clear",
	}
	atmosphereKeywords = []string{
		"dark", "bright", "gloomy", "cheerful", "tense", "peaceful",
		"chaotic", "mysterious", "eerie", "warm", "cold", "romantic",
		"dramatic", "melancholic", "hopeful", "ominous", "serene",
	}
)

// VisualHints 从场景文本提取的画面元素提示
type VisualHints struct {
	Locations  []string `json:"locations"`    // 地点
	TimesOfDay []string `json:"times_of_day"` // 时段
	Weather    []string `json:"weather"`      // 天气
	Atmosphere []string `json:"atmosphere"`   // 氛围
}

// ExtractVisualHints 提取场景文本中命中的画面元素关键词
//
// 按关键词表顺序做小写子串匹配，每个关键词至多出现一次。
func ExtractVisualHints(text string) VisualHints {
	lower := strings.ToLower(text)
	return VisualHints{
		Locations:  matchKeywords(lower, locationKeywords),
		TimesOfDay: matchKeywords(lower, timeOfDayKeywords),
		Weather:    matchKeywords(lower, weatherKeywords),
		Atmosphere: matchKeywords(lower, atmosphereKeywords),
	}
}

// Location 返回首个地点提示，无则返回空串
func (vh VisualHints) Location() string { return firstHint(vh.Locations) }

// TimeOfDay 返回首个时段提示，无则返回空串
func (vh VisualHints) TimeOfDay() string { return firstHint(vh.TimesOfDay) }

// WeatherHint 返回首个天气提示，无则返回空串
func (vh VisualHints) WeatherHint() string { return firstHint(vh.Weather) }

// Mood 返回首个氛围提示，无则返回空串
func (vh VisualHints) Mood() string { return firstHint(vh.Atmosphere) }

func matchKeywords(lower string, keywords []string) []string {
	var hits []string
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			hits = append(hits, kw)
		}
	}
	return hits
}

func firstHint(hits []string) string {
	if len(hits) == 0 {
		return ""
	}
	return hits[0]
}
