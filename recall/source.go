package recall

import (
	"context"

	"github.com/rushteam/tagrec/core"
)

// Source 表示一个可复用的召回源。
// 召回源产出的物品必须是请求内副本，后续节点可以直接写 Score / Label。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error)
}
