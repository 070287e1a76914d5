package rank

import (
	"math"
	"sort"

	"github.com/rushteam/tagrec/core"
	"github.com/rushteam/tagrec/tfidf"
)

// CosineSimilarity 计算 dot(a,b) / (‖a‖·‖b‖)，维度取自共享词表。
//
// 词表外的 key 不参与计算；vocab 为空时取两个向量 key 的并集。
// 任一向量为空或模长为 0 时返回 0。权重非负，结果收敛到 [0,1]。
func CosineSimilarity(a, b core.Vector, vocab core.Vocabulary) float64 {
	if a.IsEmpty() || b.IsEmpty() {
		return 0
	}

	terms := vocab.Terms()
	if len(terms) == 0 {
		terms = core.NewVocabulary(append(a.Terms(), b.Terms()...)...).Terms()
	}

	var dot, normA, normB float64
	for _, t := range terms {
		x, y := a.Get(t), b.Get(t)
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	switch {
	case sim < 0:
		return 0
	case sim > 1:
		return 1
	}
	return sim
}

// Scored 是一条打分结果。
type Scored struct {
	Item  *core.Item
	Score float64
}

// RankItems 为每个候选构建 TF-IDF 向量并与用户向量计算余弦相似度，
// 按分数降序稳定排序，同分保持候选原有顺序。不修改候选物品。
func RankItems(userVector core.Vector, candidates []*core.Item, idf core.Vector, vocab core.Vocabulary) []Scored {
	out := make([]Scored, 0, len(candidates))
	for _, it := range candidates {
		if it == nil {
			continue
		}
		vec := tfidf.Vectorize(it.Tags, idf)
		out = append(out, Scored{Item: it, Score: CosineSimilarity(userVector, vec, vocab)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}
