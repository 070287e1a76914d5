package core

// InterestProfile 是单次请求内由交互历史折叠出的用户兴趣画像。
//
// 它不落库、不做在线更新，每次推荐从头构建：
//
//	维度          作用
//	Vector       标签 → 累积权重，相似度排序的用户侧向量
//	Interacted   交互过的物品集合，无论权重是否为 0，都从候选中剔除
type InterestProfile struct {
	UserID string

	// Vector 未归一化，余弦相似度自身会消掉模长
	Vector Vector

	Interacted map[string]struct{}
}

// NewInterestProfile 创建一个空画像。
func NewInterestProfile(userID string) *InterestProfile {
	return &InterestProfile{
		UserID:     userID,
		Vector:     make(Vector),
		Interacted: make(map[string]struct{}),
	}
}

// IsEmpty 为 true 即冷启动：没有任何正权重交互。
func (p *InterestProfile) IsEmpty() bool {
	return p == nil || len(p.Vector) == 0
}

// HasInteracted 判断物品是否已被交互过。
func (p *InterestProfile) HasInteracted(itemID string) bool {
	if p == nil || p.Interacted == nil {
		return false
	}
	_, ok := p.Interacted[itemID]
	return ok
}
