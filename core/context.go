package core

import "github.com/rushteam/tagrec/pkg/utils"

// RecommendContext 承载单次请求的用户、画像与语料快照，贯穿整个 Pipeline 透传。
// 所有字段在请求开始时一次性取好，Node 只读。
type RecommendContext struct {
	UserID string
	Scene  string

	User    *User
	Profile *InterestProfile

	// Corpus 是请求开始时取到的完整语料快照（IDF 按它计算，而不是按过滤后的候选）
	Corpus []*Item

	// Labels 是用户级标签，例如 cold_start
	Labels map[string]utils.Label

	// Params 请求级参数
	Params map[string]any
}

// PutLabel 写入用户级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}
