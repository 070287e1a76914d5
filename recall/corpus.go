package recall

import (
	"context"

	"github.com/rushteam/tagrec/core"
	"github.com/rushteam/tagrec/pipeline"
	"github.com/rushteam/tagrec/pkg/utils"
)

// SourceCorpus 是 Corpus 写入的 recall_source Label 值。
const SourceCorpus = "corpus"

// Corpus 是全量召回源：按语料原有顺序输出 rctx.Corpus 中每个物品的副本。
// 个性化推荐对整个语料打分，因此召回阶段不做截断。
type Corpus struct{}

func (r *Corpus) Name() string        { return "recall.corpus" }
func (r *Corpus) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall
func (r *Corpus) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口
func (r *Corpus) Recall(
	_ context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if rctx == nil || len(rctx.Corpus) == 0 {
		return nil, nil
	}
	out := make([]*core.Item, 0, len(rctx.Corpus))
	for _, it := range rctx.Corpus {
		if it == nil {
			continue
		}
		cp := it.Clone()
		cp.PutLabel(utils.LabelRecallSource, utils.StringLabel(SourceCorpus, "recall"))
		out = append(out, cp)
	}
	return out, nil
}
