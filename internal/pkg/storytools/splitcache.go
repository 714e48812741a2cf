package storytools

import (
	"fmt"
	"hash/fnv"
)

// SplitCache 场景切分结果的有界缓存
//
// 以文本前 100 字符与预算的指纹为键，容量满时淘汰最早写入的条目。
// 由调用方持有并通过 SceneSegmenter.SetCache 注入，单次运行内复用，
// 不做并发保护。
type SplitCache struct {
	capacity int
	keys     []uint64
	entries  map[uint64][]Scene
}

// NewSplitCache 创建切分缓存，capacity 不为正时默认 10
func NewSplitCache(capacity int) *SplitCache {
	if capacity <= 0 {
		capacity = 10
	}
	return &SplitCache{
		capacity: capacity,
		entries:  make(map[uint64][]Scene, capacity),
	}
}

// Get 查询缓存，返回的切分结果不应被修改
func (sc *SplitCache) Get(text string, maxChars int) ([]Scene, bool) {
	scenes, ok := sc.entries[splitCacheKey(text, maxChars)]
	return scenes, ok
}

// Put 写入缓存，容量已满时淘汰最早的条目
func (sc *SplitCache) Put(text string, maxChars int, scenes []Scene) {
	key := splitCacheKey(text, maxChars)
	if _, exists := sc.entries[key]; !exists {
		if len(sc.keys) >= sc.capacity {
			oldest := sc.keys[0]
			sc.keys = sc.keys[1:]
			delete(sc.entries, oldest)
		}
		sc.keys = append(sc.keys, key)
	}
	sc.entries[key] = scenes
}

// Len 返回当前缓存条目数
func (sc *SplitCache) Len() int {
	return len(sc.entries)
}

// splitCacheKey 由文本前 100 字符和预算计算指纹
func splitCacheKey(text string, maxChars int) uint64 {
	prefix := text
	count := 0
	for i := range text {
		if count == 100 {
			prefix = text[:i]
			break
		}
		count++
	}
	h := fnv.New64a()
	h.Write([]byte(prefix))
	fmt.Fprintf(h, ":%d", maxChars)
	return h.Sum64()
}
