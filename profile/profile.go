// Package profile 把用户的交互历史折叠成兴趣向量。
package profile

import "github.com/rushteam/tagrec/core"

// BuildInterestVector 按交互历史累积兴趣向量，并收集交互过的物品集合。
//
//   - 所有条目引用的物品都计入交互集合，与类型、权重、是否可解析无关
//   - 引用物品无法解析（已删除或没有标签）的条目不参与兴趣向量
//   - 每条正权重交互给物品的每个标签加 weight(type)，重复交互叠加，不做归一化
func BuildInterestVector(history []core.HistoryEntry) (core.Vector, map[string]struct{}) {
	vec := make(core.Vector)
	interacted := make(map[string]struct{})

	for _, h := range history {
		if id := h.Interaction.ItemID; id != "" {
			interacted[id] = struct{}{}
		}
		if !h.Resolved || len(h.ItemTags) == 0 {
			continue
		}

		w := h.Interaction.Type.Weight()
		if w <= 0 {
			continue
		}
		for _, tag := range h.ItemTags {
			t := core.NormalizeTag(tag)
			if t == "" {
				continue
			}
			vec[t] += w
		}
	}
	return vec, interacted
}

// Build 构造 InterestProfile；Vector 为空即冷启动。
func Build(userID string, history []core.HistoryEntry) *core.InterestProfile {
	vec, interacted := BuildInterestVector(history)
	return &core.InterestProfile{
		UserID:     userID,
		Vector:     vec,
		Interacted: interacted,
	}
}

// FromUser 是 Build 的便捷形式，user 为 nil 时返回空画像。
func FromUser(user *core.User) *core.InterestProfile {
	if user == nil {
		return core.NewInterestProfile("")
	}
	return Build(user.ID, user.History)
}
