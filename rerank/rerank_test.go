package rerank

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"github.com/rushteam/tagrec/core"
	"github.com/rushteam/tagrec/pkg/utils"
)

func ids(items []*core.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestTopNNode(t *testing.T) {
	items := make([]*core.Item, 15)
	for i := range items {
		items[i] = &core.Item{ID: fmt.Sprint(i)}
	}

	tests := []struct {
		name string
		n    int
		in   []*core.Item
		want int
	}{
		{"default ten", 0, items, 10},
		{"explicit", 3, items, 3},
		{"fewer than n", 20, items, 15},
		{"empty", 5, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := &TopNNode{N: tt.n}
			got, err := node.Process(context.Background(), nil, tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != tt.want {
				t.Errorf("len = %d, want %d", len(got), tt.want)
			}
			if len(got) > 0 && got[0].ID != "0" {
				t.Errorf("order changed, first = %s", got[0].ID)
			}
		})
	}
}

func TestDiversity(t *testing.T) {
	items := []*core.Item{
		{ID: "1", Type: core.ItemTypeVideo},
		{ID: "2", Type: core.ItemTypeVideo},
		{ID: "3", Type: core.ItemTypeArticle},
		{ID: "4", Type: core.ItemTypeVideo},
		{ID: "5"},
		{ID: "6", Type: core.ItemTypeArticle},
	}

	tests := []struct {
		name string
		node *Diversity
		want []string
	}{
		{"one per type", &Diversity{}, []string{"1", "3", "5"}},
		{"two per type", &Diversity{MaxPerType: 2}, []string{"1", "2", "3", "5", "6"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.node.Process(context.Background(), nil, items)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(ids(got), tt.want) {
				t.Errorf("got %v, want %v", ids(got), tt.want)
			}
		})
	}
}

func TestDiversityLabelKey(t *testing.T) {
	a := &core.Item{ID: "a"}
	a.PutLabel(utils.LabelRecallSource, utils.StringLabel("latest", "recall"))
	b := &core.Item{ID: "b"}
	b.PutLabel(utils.LabelRecallSource, utils.StringLabel("latest", "recall"))
	c := &core.Item{ID: "c"}

	node := &Diversity{LabelKey: utils.LabelRecallSource}
	got, _ := node.Process(context.Background(), nil, []*core.Item{a, b, c})
	if want := []string{"a", "c"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("got %v, want %v", ids(got), want)
	}
}

func TestTopNNodeParamLimit(t *testing.T) {
	items := make([]*core.Item, 30)
	for i := range items {
		items[i] = &core.Item{ID: fmt.Sprint(i)}
	}
	node := &TopNNode{N: 10}
	rctx := &core.RecommendContext{Params: map[string]any{ParamLimit: 25}}
	got, _ := node.Process(context.Background(), rctx, items)
	if len(got) != 25 {
		t.Errorf("len = %d, want 25", len(got))
	}
}
