package filter

import (
	"context"

	"github.com/rushteam/tagrec/core"
)

// ScoreFilter 过滤掉 Score <= Min 的物品。
// 默认 Min 为 0：相似度为 0 的物品没有任何贡献，不算推荐结果。
type ScoreFilter struct {
	Min float64
}

func NewScoreFilter(min float64) *ScoreFilter {
	return &ScoreFilter{Min: min}
}

func (f *ScoreFilter) Name() string {
	return "filter.min_score"
}

func (f *ScoreFilter) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	return item.Score <= f.Min, nil
}
