package storytools

// 角色名提取的停用词表，覆盖常见虚词、叙事动词、称谓和日期词。
// 大写形式出现在句首的这些词不会被当作角色名。
var stopWords = []string{
	// 冠词、连词、介词
	"the", "a", "an", "and", "or", "but", "nor",
	"in", "on", "at", "to", "for", "of", "with", "by", "from", "as",
	// 系动词与助动词
	"is", "was", "are", "were", "been", "be",
	"have", "has", "had", "do", "does", "did",
	"will", "would", "could", "should", "may", "might", "must", "shall",
	"can", "need", "dare", "ought", "used",
	// 代词
	"he", "she", "it", "they", "we", "you", "i", "me",
	"him", "her", "us", "them", "his", "hers", "its",
	"their", "our", "your", "my", "mine", "yours", "ours",
	// 指示词与疑问词
	"this", "that", "these", "those", "then", "than",
	"when", "where", "what", "who", "whom", "whose", "which", "how", "why",
	// 限定词与程度副词
	"all", "each", "every", "both", "few", "more", "most", "other", "some", "such",
	"no", "not", "only", "own", "same", "so", "too", "very", "much", "just",
	"now", "here", "there", "also", "even", "back", "well", "still",
	"never", "always", "often", "once", "upon", "already",
	// 常见形容词与方位词
	"way", "long", "little", "good", "new", "first", "second", "last",
	"great", "old", "young", "right", "bad", "big", "high", "small",
	"large", "low", "short", "next", "early", "late", "left", "side",
	// 高频名词
	"time", "day", "night", "year", "years", "morning",
	"hand", "hands", "eye", "eyes", "face", "head",
	"man", "woman", "people", "thing", "things", "place", "world", "life",
	"room", "door", "house", "home", "city",
	"book", "page", "section", "scene", "act", "chapter", "part",
	"one", "two", "three", "four", "five", "six", "seven", "eight", "nine", "ten",
	// 叙事动词
	"said", "says", "asked", "told", "thought", "looked", "saw", "knew",
	"felt", "made", "came", "went", "got", "took", "gave", "found",
	"called", "seemed", "turned", "began", "replied", "answered",
	"keep", "let", "put", "set", "show", "try", "ask", "tell", "think",
	"call", "hear", "mean", "hold", "stand", "turn", "move", "live",
	"believe", "bring", "happen", "write", "sit", "wait", "end", "moment",
	// 叙事副词与不定代词
	"finally", "suddenly", "something", "anything", "everything", "nothing",
	"someone", "anyone", "everyone", "maybe", "perhaps", "almost",
	"really", "actually", "probably",
	// 称谓
	"mr", "mrs", "ms", "miss", "dr", "prof", "sir",
	"lady", "lord", "king", "queen", "prince", "princess",
	// 星期与月份
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
	"january", "february", "march", "april", "june", "july", "august",
	"september", "october", "november", "december",
}

var stopWordSet = buildStopWordSet()

func buildStopWordSet() map[string]struct{} {
	set := make(map[string]struct{}, len(stopWords))
	for _, word := range stopWords {
		set[word] = struct{}{}
	}
	return set
}
