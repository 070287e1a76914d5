package rerank

import (
	"context"

	"github.com/rushteam/tagrec/core"
	"github.com/rushteam/tagrec/pipeline"
	"github.com/rushteam/tagrec/pkg/conv"
)

// DefaultTopN 是推荐结果的默认条数上限。
const DefaultTopN = 10

// ParamLimit 是请求级条数上限的 rctx.Params key，存在时覆盖 N。
const ParamLimit = "limit"

// TopNNode 是 Top-N 截断节点，放在排序之后限制返回数量。
//
//	pipeline := &pipeline.Pipeline{
//	    Nodes: []pipeline.Node{
//	        &rank.TFIDFNode{},
//	        &rerank.TopNNode{N: 10},
//	    },
//	}
type TopNNode struct {
	// N <= 0 时使用 DefaultTopN；rctx.Params[ParamLimit] 优先
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) limit(rctx *core.RecommendContext) int {
	if rctx != nil {
		if v, ok := conv.ToInt64(rctx.Params[ParamLimit]); ok && v > 0 {
			return int(v)
		}
	}
	if n.N <= 0 {
		return DefaultTopN
	}
	return n.N
}

func (n *TopNNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if limit := n.limit(rctx); len(items) > limit {
		return items[:limit], nil
	}
	return items, nil
}
