package core

import (
	"fmt"
	"sort"
	"time"
)

// InteractionType 是用户交互类型的封闭枚举。
type InteractionType string

const (
	InteractionView             InteractionType = "view"
	InteractionLike             InteractionType = "like"
	InteractionDislike          InteractionType = "dislike"
	InteractionBookmark         InteractionType = "bookmark"
	InteractionComplete         InteractionType = "complete"
	InteractionRating           InteractionType = "rating"
	InteractionSearchQueryMatch InteractionType = "search_query_match"
)

// 可选字段
const (
	FieldDuration    = "duration"
	FieldRating      = "rating"
	FieldSearchQuery = "search_query"
)

// interactionSpec 描述一种交互类型：画像权重 + 允许携带的可选字段。
type interactionSpec struct {
	weight  float64
	allowed map[string]bool
}

// interactionTable 是交互类型的唯一分派表，权重与可选字段校验都只查这里。
// 权重为 0 的类型不进入兴趣画像，但其物品仍计为“已交互”。
var interactionTable = map[InteractionType]interactionSpec{
	InteractionView:             {weight: 1, allowed: map[string]bool{FieldDuration: true}},
	InteractionLike:             {weight: 2},
	InteractionDislike:          {weight: 0},
	InteractionBookmark:         {weight: 1.5},
	InteractionComplete:         {weight: 3},
	InteractionRating:           {weight: 0.5, allowed: map[string]bool{FieldRating: true}},
	InteractionSearchQueryMatch: {weight: 0, allowed: map[string]bool{FieldSearchQuery: true}},
}

// InteractionTypes 返回全部合法类型（排序后）。
func InteractionTypes() []InteractionType {
	out := make([]InteractionType, 0, len(interactionTable))
	for t := range interactionTable {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ParseInteractionType 解析交互类型，不在枚举内返回 INVALID_INPUT。
func ParseInteractionType(s string) (InteractionType, error) {
	t := InteractionType(s)
	if !t.Valid() {
		return "", InvalidInput(ModuleRecommend, fmt.Sprintf("invalid interaction type %q", s))
	}
	return t, nil
}

// Valid 判断类型是否在枚举内。
func (t InteractionType) Valid() bool {
	_, ok := interactionTable[t]
	return ok
}

// Weight 返回画像权重；未知类型为 0。
func (t InteractionType) Weight() float64 {
	return interactionTable[t].weight
}

// Allows 判断该类型是否接受某个可选字段。
func (t InteractionType) Allows(field string) bool {
	return interactionTable[t].allowed[field]
}

// InteractionOptions 是记录交互时可携带的可选字段。
type InteractionOptions struct {
	Duration    *float64
	Rating      *float64
	SearchQuery string
}

// Fields 返回已设置的可选字段名。
func (o InteractionOptions) Fields() []string {
	var fields []string
	if o.Duration != nil {
		fields = append(fields, FieldDuration)
	}
	if o.Rating != nil {
		fields = append(fields, FieldRating)
	}
	if o.SearchQuery != "" {
		fields = append(fields, FieldSearchQuery)
	}
	return fields
}

// CheckOptions 校验可选字段是否与类型匹配（只查分派表，数值范围由调用方校验）。
func (t InteractionType) CheckOptions(opts InteractionOptions) error {
	if !t.Valid() {
		return InvalidInput(ModuleRecommend, fmt.Sprintf("invalid interaction type %q", string(t)))
	}
	for _, f := range opts.Fields() {
		if !t.Allows(f) {
			return InvalidInput(ModuleRecommend, fmt.Sprintf("field %q is not accepted for interaction type %q", f, string(t)))
		}
	}
	return nil
}

// Interaction 是一条只追加的交互记录。
type Interaction struct {
	ID          string          `json:"id" bson:"id"`
	UserID      string          `json:"user_id" bson:"user_id"`
	ItemID      string          `json:"item_id" bson:"item_id"`
	Type        InteractionType `json:"interaction_type" bson:"interaction_type"`
	Timestamp   time.Time       `json:"timestamp" bson:"timestamp"`
	Duration    *float64        `json:"duration,omitempty" bson:"duration,omitempty"`
	Rating      *float64        `json:"rating,omitempty" bson:"rating,omitempty"`
	SearchQuery string          `json:"search_query,omitempty" bson:"search_query,omitempty"`
}
