package utils

import "strconv"

// Label 是物品上的解释信息：谁产出、产出了什么。
// 推荐结果里的 recall_source / rank_model / cold_start 等都以 Label 形式透传给调用方。
type Label struct {
	Value  string `json:"value"`
	Source string `json:"source"` // recall / rank / filter / rerank
}

// 常用 Label key
const (
	LabelRecallSource = "recall_source"
	LabelRankModel    = "rank_model"
	LabelRankScore    = "rank_score"
	LabelColdStart    = "cold_start"
)

// StringLabel 构造字符串 Label。
func StringLabel(value, source string) Label {
	return Label{Value: value, Source: source}
}

// FloatLabel 构造数值 Label，保留 6 位小数。
func FloatLabel(value float64, source string) Label {
	return Label{Value: strconv.FormatFloat(value, 'f', 6, 64), Source: source}
}

// MergeLabel 合并同名 Label：Value 以 '|' 累积，Source 以 ',' 累积，空值不参与。
func MergeLabel(existing Label, incoming Label) Label {
	if existing.Value == "" {
		return incoming
	}
	if incoming.Value == "" {
		return existing
	}

	merged := Label{Value: existing.Value + "|" + incoming.Value}
	switch {
	case existing.Source == "":
		merged.Source = incoming.Source
	case incoming.Source == "" || incoming.Source == existing.Source:
		merged.Source = existing.Source
	default:
		merged.Source = existing.Source + "," + incoming.Source
	}
	return merged
}
