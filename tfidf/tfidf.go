// Package tfidf 计算标签的 TF / IDF 权重。
//
// 全部是纯函数，每次推荐请求对当前语料快照重新计算，不做缓存也不维护倒排索引。
// 标签统一转小写，空标签忽略。
package tfidf

import (
	"math"

	"github.com/rushteam/tagrec/core"
)

// ComputeIDF 计算 idf(tag) = ln(N / df(tag))。
//
// df 是出现过该标签的文档数（同一文档内重复出现只记一次）。
// 未出现的标签不在结果中；totalDocumentCount <= 0 时返回空向量。
func ComputeIDF(corpusTagLists [][]string, totalDocumentCount int) core.Vector {
	idf := make(core.Vector)
	if totalDocumentCount <= 0 {
		return idf
	}

	df := make(map[string]int)
	for _, tags := range corpusTagLists {
		seen := make(map[string]struct{}, len(tags))
		for _, tag := range tags {
			t := core.NormalizeTag(tag)
			if t == "" {
				continue
			}
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			df[t]++
		}
	}

	n := float64(totalDocumentCount)
	for t, count := range df {
		idf[t] = math.Log(n / float64(count))
	}
	return idf
}

// ComputeTF 统计单个物品标签的原始出现次数（不按列表长度归一化）。
func ComputeTF(itemTags []string) core.Vector {
	tf := make(core.Vector, len(itemTags))
	for _, tag := range itemTags {
		t := core.NormalizeTag(tag)
		if t == "" {
			continue
		}
		tf[t]++
	}
	return tf
}

// Vectorize 生成物品的 TF-IDF 向量：tf[tag] * idf[tag]，idf 缺失按 0 计。
func Vectorize(itemTags []string, idf core.Vector) core.Vector {
	tf := ComputeTF(itemTags)
	vec := make(core.Vector, len(tf))
	for t, f := range tf {
		vec[t] = f * idf.Get(t)
	}
	return vec
}

// CorpusTags 取出语料中每个物品的标签列表，顺序与语料一致。
func CorpusTags(items []*core.Item) [][]string {
	out := make([][]string, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		out = append(out, it.Tags)
	}
	return out
}

// IDFOf 以整个语料为文档集合计算 IDF，N 为语料物品数。
func IDFOf(items []*core.Item) core.Vector {
	docs := CorpusTags(items)
	return ComputeIDF(docs, len(docs))
}

// BuildVocabulary 构造共享词表：语料全部标签 ∪ 额外向量（通常是用户兴趣向量）的维度。
func BuildVocabulary(corpus []*core.Item, extra ...core.Vector) core.Vocabulary {
	voc := core.NewVocabulary()
	for _, it := range corpus {
		if it == nil {
			continue
		}
		voc.Add(it.Tags...)
	}
	for _, v := range extra {
		voc.Add(v.Terms()...)
	}
	return voc
}
