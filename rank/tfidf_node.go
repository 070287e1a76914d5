package rank

import (
	"context"

	"github.com/rushteam/tagrec/core"
	"github.com/rushteam/tagrec/pipeline"
	"github.com/rushteam/tagrec/pkg/utils"
	"github.com/rushteam/tagrec/tfidf"
)

// ModelTFIDFCosine 是 TFIDFNode 写入的 rank_model Label 值。
const ModelTFIDFCosine = "tfidf_cosine"

// TFIDFNode 用用户兴趣向量对候选打分：
//   - IDF 按 rctx.Corpus（完整语料快照）计算，而不是按过滤后的候选
//   - 词表 = 语料标签 ∪ 用户兴趣标签
//   - 更新 item.Score，写入 rank_model / rank_score Label，按分数降序稳定排序
//
// 候选物品必须是本次请求的副本（recall 节点负责 Clone）。
type TFIDFNode struct{}

func (n *TFIDFNode) Name() string        { return "rank.tfidf" }
func (n *TFIDFNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *TFIDFNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	var userVec core.Vector
	corpus := items
	if rctx != nil {
		if rctx.Profile != nil {
			userVec = rctx.Profile.Vector
		}
		if rctx.Corpus != nil {
			corpus = rctx.Corpus
		}
	}

	idf := tfidf.IDFOf(corpus)
	vocab := tfidf.BuildVocabulary(corpus, userVec)

	ranked := RankItems(userVec, items, idf, vocab)
	out := make([]*core.Item, 0, len(ranked))
	for _, s := range ranked {
		s.Item.Score = s.Score
		s.Item.PutLabel(utils.LabelRankModel, utils.StringLabel(ModelTFIDFCosine, "rank"))
		s.Item.PutLabel(utils.LabelRankScore, utils.FloatLabel(s.Score, "rank"))
		out = append(out, s.Item)
	}
	return out, nil
}
