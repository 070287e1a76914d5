package core

import (
	"sort"
	"strings"
)

// Vector 是按标签稀疏存储的权重向量（兴趣向量、TF-IDF 向量共用）。
// 缺失的 key 视为权重 0。
type Vector map[string]float64

// Get 返回标签权重，不存在为 0。
func (v Vector) Get(tag string) float64 {
	return v[tag]
}

// IsEmpty 判断向量是否没有任何维度。
func (v Vector) IsEmpty() bool {
	return len(v) == 0
}

// Terms 返回排序后的标签列表。
func (v Vector) Terms() []string {
	terms := make([]string, 0, len(v))
	for t := range v {
		terms = append(terms, t)
	}
	sort.Strings(terms)
	return terms
}

// NormalizeTag 统一标签形式：转小写。空串在调用方跳过。
func NormalizeTag(tag string) string {
	return strings.ToLower(tag)
}

// Vocabulary 是语料标签 ∪ 用户兴趣标签，给所有向量提供同一组维度。
// terms 有序，遍历时浮点累加顺序固定。
type Vocabulary struct {
	terms []string
	index map[string]struct{}
}

// NewVocabulary 由任意标签构造词表（自动小写、去重）。
func NewVocabulary(tags ...string) Vocabulary {
	voc := Vocabulary{index: make(map[string]struct{}, len(tags))}
	voc.Add(tags...)
	return voc
}

// Add 追加标签。
func (voc *Vocabulary) Add(tags ...string) {
	if voc.index == nil {
		voc.index = make(map[string]struct{}, len(tags))
	}
	changed := false
	for _, tag := range tags {
		t := NormalizeTag(tag)
		if t == "" {
			continue
		}
		if _, ok := voc.index[t]; ok {
			continue
		}
		voc.index[t] = struct{}{}
		voc.terms = append(voc.terms, t)
		changed = true
	}
	if changed {
		sort.Strings(voc.terms)
	}
}

// Contains 判断标签是否在词表内。
func (voc Vocabulary) Contains(tag string) bool {
	_, ok := voc.index[tag]
	return ok
}

// Terms 返回有序标签。
func (voc Vocabulary) Terms() []string {
	return voc.terms
}
