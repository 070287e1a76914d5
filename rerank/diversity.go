package rerank

import (
	"context"

	"github.com/rushteam/tagrec/core"
	"github.com/rushteam/tagrec/pipeline"
)

// Diversity 限制同一类别在结果中出现的次数，保持输入顺序，超出的物品直接丢弃。
// 类别来源优先级：
// - LabelKey 非空时取 label[LabelKey].Value
// - 否则取 item.Type
//
// 无类别的物品不受限制。
type Diversity struct {
	LabelKey   string
	MaxPerType int // <= 0 时取 1
}

func (n *Diversity) Name() string {
	return "rerank.diversity"
}

func (n *Diversity) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *Diversity) category(it *core.Item) string {
	if n.LabelKey != "" {
		if lbl, ok := it.Labels[n.LabelKey]; ok {
			return lbl.Value
		}
		return ""
	}
	return string(it.Type)
}

func (n *Diversity) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	limit := n.MaxPerType
	if limit <= 0 {
		limit = 1
	}

	seen := make(map[string]int, 8)
	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		cate := n.category(it)
		if cate == "" {
			out = append(out, it)
			continue
		}
		if seen[cate] >= limit {
			continue
		}
		seen[cate]++
		out = append(out, it)
	}
	return out, nil
}
