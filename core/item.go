package core

import (
	"time"

	"github.com/rushteam/tagrec/pkg/utils"
)

// ItemType 是内容物品的展示类型，打分不使用。
type ItemType string

const (
	ItemTypeVideo   ItemType = "video"
	ItemTypeArticle ItemType = "article"
	ItemTypeAnswer  ItemType = "answer"
)

// Item 是推荐链路中的统一承载结构：内容字段 + 标签 + 分数 + 解释标签。
//
// Title / Content / Type 只用于展示，打分只看 Tags（大小写不敏感、顺序无关）。
// Score 与 Labels 由 Pipeline 写入，属于单次请求；跨请求共享的快照必须先 Clone。
type Item struct {
	ID        string    `json:"id" bson:"_id"`
	Title     string    `json:"title" bson:"title"`
	Content   string    `json:"content" bson:"content"`
	Type      ItemType  `json:"type" bson:"type"`
	Tags      []string  `json:"tags" bson:"tags"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`

	Score  float64                `json:"score,omitempty" bson:"-"`
	Meta   map[string]any         `json:"-" bson:"-"`
	Labels map[string]utils.Label `json:"labels,omitempty" bson:"-"`
}

func NewItem(id string) *Item {
	return &Item{
		ID:     id,
		Meta:   make(map[string]any),
		Labels: make(map[string]utils.Label),
	}
}

// Clone 返回一份可独立修改的副本（Tags 深拷贝，Score / Labels 清空）。
func (it *Item) Clone() *Item {
	if it == nil {
		return nil
	}
	cp := *it
	if it.Tags != nil {
		cp.Tags = append([]string(nil), it.Tags...)
	}
	cp.Score = 0
	cp.Meta = make(map[string]any)
	cp.Labels = make(map[string]utils.Label)
	return &cp
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}
