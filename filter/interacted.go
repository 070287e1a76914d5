package filter

import (
	"context"

	"github.com/rushteam/tagrec/core"
)

// InteractedFilter 过滤掉用户交互过的物品（任意交互类型，包括 dislike 等权重为 0 的类型）。
// 交互集合来自 rctx.Profile，画像为空时不过滤。
type InteractedFilter struct{}

func NewInteractedFilter() *InteractedFilter {
	return &InteractedFilter{}
}

func (f *InteractedFilter) Name() string {
	return "filter.interacted"
}

func (f *InteractedFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	if rctx == nil {
		return false, nil
	}
	return rctx.Profile.HasInteracted(item.ID), nil
}
