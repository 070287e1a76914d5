package recall

import (
	"context"
	"sort"

	"github.com/rushteam/tagrec/core"
	"github.com/rushteam/tagrec/pipeline"
	"github.com/rushteam/tagrec/pkg/utils"
)

// SourceLatest 是 Latest 写入的 recall_source Label 值。
const SourceLatest = "latest"

// Latest 是最新内容召回源，冷启动时使用：
// - 按 CreatedAt 降序，同一时间按 ID 升序，结果确定
// - N <= 0 时输出全部，由后续 rerank.topn 截断（这样过滤掉已交互物品后仍能补满）
// - 写入 labels：recall_source=latest，cold_start=true（用户画像为空时）
type Latest struct {
	N int
}

func (r *Latest) Name() string        { return "recall.latest" }
func (r *Latest) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall
func (r *Latest) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口
func (r *Latest) Recall(
	_ context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if rctx == nil || len(rctx.Corpus) == 0 {
		return nil, nil
	}

	out := make([]*core.Item, 0, len(rctx.Corpus))
	for _, it := range rctx.Corpus {
		if it != nil {
			out = append(out, it)
		}
	}
	SortNewestFirst(out)
	if r.N > 0 && len(out) > r.N {
		out = out[:r.N]
	}

	coldStart := rctx.Profile.IsEmpty()
	for i, it := range out {
		cp := it.Clone()
		cp.PutLabel(utils.LabelRecallSource, utils.StringLabel(SourceLatest, "recall"))
		if coldStart {
			cp.PutLabel(utils.LabelColdStart, utils.StringLabel("true", "recall"))
		}
		out[i] = cp
	}
	return out, nil
}

// SortNewestFirst 按 CreatedAt 降序、ID 升序原地排序。
func SortNewestFirst(items []*core.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}
