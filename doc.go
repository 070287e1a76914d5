// Package tagrec 是基于标签 TF-IDF 的内容推荐服务。
//
// 设计要点：
// - Pipeline-first: 推荐逻辑通过 Node 串联（Recall → Filter → Rank → ReRank）
// - Labels-first: recall_source / rank_model 等 labels 全链路透传，便于 explain 与观测
// - 冷启动: 兴趣向量为空时改走按创建时间倒序的冷启动 Pipeline
package tagrec

import "github.com/rushteam/tagrec/pipeline"

// 轻量 facade：便于直接 import "tagrec" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
)
