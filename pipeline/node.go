package pipeline

import (
	"context"

	"github.com/rushteam/tagrec/core"
)

// Kind 用于标记 Node 类型，方便按阶段打点。
type Kind string

const (
	KindRecall Kind = "recall" // 召回阶段：生成候选集
	KindFilter Kind = "filter" // 过滤阶段：剔除不符合约束的候选
	KindRank   Kind = "rank"   // 排序阶段：对候选打分并排序
	KindReRank Kind = "rerank" // 重排阶段：截断/多样性
)

// Node 是 Pipeline 的最小可扩展单元，统一采用“输入 items -> 输出 items”的形态。
// Node 不得修改 rctx.Corpus 中的共享物品，需要写 Score/Label 时先 Clone。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		rctx *core.RecommendContext,
		items []*core.Item,
	) ([]*core.Item, error)
}

// NodeBuilder 根据配置构建 Node。
type NodeBuilder func(cfg map[string]any) (Node, error)
