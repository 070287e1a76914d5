package core

import "time"

// User 是推荐请求的主体。History 只在 Catalog.FetchUserWithHistory 中填充，不落库。
type User struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`

	History []HistoryEntry `json:"history,omitempty" bson:"-"`
}

// HistoryEntry 是与物品标签 join 之后的一条交互。
// Resolved 为 false 表示引用的物品已不存在。
type HistoryEntry struct {
	Interaction Interaction `json:"interaction"`
	ItemTags    []string    `json:"item_tags,omitempty"`
	Resolved    bool        `json:"resolved"`
}
