package rank

import (
	"context"
	"math"
	"testing"

	"github.com/rushteam/tagrec/core"
	"github.com/rushteam/tagrec/pkg/utils"
	"github.com/rushteam/tagrec/tfidf"
)

const eps = 1e-9

func TestCosineSimilarity(t *testing.T) {
	vocab := core.NewVocabulary("a", "b", "c")

	tests := []struct {
		name string
		a, b core.Vector
		want float64
	}{
		{"identical", core.Vector{"a": 1, "b": 2}, core.Vector{"a": 1, "b": 2}, 1},
		{"scaled", core.Vector{"a": 1, "b": 2}, core.Vector{"a": 3, "b": 6}, 1},
		{"orthogonal", core.Vector{"a": 1}, core.Vector{"b": 1}, 0},
		{"empty a", core.Vector{}, core.Vector{"a": 1}, 0},
		{"empty b", core.Vector{"a": 1}, nil, 0},
		{"zero magnitude", core.Vector{"a": 0}, core.Vector{"a": 1}, 0},
		{"partial", core.Vector{"a": 1, "b": 1}, core.Vector{"a": 1}, 1 / math.Sqrt(2)},
		{"outside vocabulary ignored", core.Vector{"a": 1, "z": 100}, core.Vector{"a": 2}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b, vocab)
			if math.Abs(got-tt.want) > eps {
				t.Errorf("CosineSimilarity() = %v, want %v", got, tt.want)
			}
			if rev := CosineSimilarity(tt.b, tt.a, vocab); rev != got {
				t.Errorf("not symmetric: %v vs %v", got, rev)
			}
			if got < 0 || got > 1 {
				t.Errorf("CosineSimilarity() = %v out of [0,1]", got)
			}
		})
	}
}

func TestCosineSimilaritySelfIsOne(t *testing.T) {
	vectors := []core.Vector{
		{"x": 0.1},
		{"x": 1e-3, "y": 7, "z": 0.333},
		{"sql": math.Log(1.5), "web": math.Log(3)},
	}
	for _, v := range vectors {
		if got := CosineSimilarity(v, v, core.Vocabulary{}); math.Abs(got-1) > eps {
			t.Errorf("CosineSimilarity(v, v) = %v, want 1", got)
		}
	}
}

func scenarioCorpus() []*core.Item {
	return []*core.Item{
		{ID: "1", Tags: []string{"sql", "database"}},
		{ID: "2", Tags: []string{"sql", "web"}},
		{ID: "3", Tags: []string{"web", "css"}},
	}
}

func TestRankItems(t *testing.T) {
	corpus := scenarioCorpus()
	user := core.Vector{"sql": 2, "database": 2}
	idf := tfidf.IDFOf(corpus)
	vocab := tfidf.BuildVocabulary(corpus, user)

	ranked := RankItems(user, corpus[1:], idf, vocab)
	if len(ranked) != 2 {
		t.Fatalf("RankItems() len = %d", len(ranked))
	}
	if ranked[0].Item.ID != "2" {
		t.Errorf("first = %s, want 2", ranked[0].Item.ID)
	}
	if ranked[0].Score <= 0 {
		t.Errorf("item 2 score = %v, want > 0", ranked[0].Score)
	}
	if ranked[1].Item.ID != "3" || ranked[1].Score != 0 {
		t.Errorf("second = %s (%v), want 3 with score 0", ranked[1].Item.ID, ranked[1].Score)
	}
	if corpus[1].Score != 0 {
		t.Error("RankItems must not mutate candidates")
	}
}

func TestRankItemsStableTies(t *testing.T) {
	items := []*core.Item{
		{ID: "c", Tags: []string{"go"}},
		{ID: "a", Tags: []string{"go"}},
		{ID: "b", Tags: []string{"go"}},
		{ID: "x", Tags: []string{"rust"}},
	}
	user := core.Vector{"go": 1}
	idf := core.Vector{"go": 1, "rust": 1}
	vocab := core.NewVocabulary("go", "rust")

	ranked := RankItems(user, items, idf, vocab)
	want := []string{"c", "a", "b", "x"}
	for i, id := range want {
		if ranked[i].Item.ID != id {
			t.Errorf("ranked[%d] = %s, want %s", i, ranked[i].Item.ID, id)
		}
	}
}

func TestTFIDFNode(t *testing.T) {
	corpus := scenarioCorpus()
	rctx := &core.RecommendContext{
		UserID:  "u1",
		Profile: &core.InterestProfile{UserID: "u1", Vector: core.Vector{"sql": 2, "database": 2}},
		Corpus:  corpus,
	}
	// 输入是过滤后的候选副本，IDF 仍按完整语料计算
	candidates := []*core.Item{corpus[2].Clone(), corpus[1].Clone()}

	out, err := (&TFIDFNode{}).Process(context.Background(), rctx, candidates)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if out[0].ID != "2" || out[1].ID != "3" {
		t.Fatalf("order = [%s %s], want [2 3]", out[0].ID, out[1].ID)
	}

	idf := tfidf.IDFOf(corpus)
	vocab := tfidf.BuildVocabulary(corpus, rctx.Profile.Vector)
	want := CosineSimilarity(rctx.Profile.Vector, tfidf.Vectorize(corpus[1].Tags, idf), vocab)
	if math.Abs(out[0].Score-want) > eps {
		t.Errorf("score = %v, want %v", out[0].Score, want)
	}
	if lbl := out[0].Labels[utils.LabelRankModel]; lbl.Value != ModelTFIDFCosine {
		t.Errorf("rank_model label = %+v", lbl)
	}
	if corpus[1].Score != 0 || len(corpus[1].Labels) != 0 {
		t.Error("shared corpus items must not be mutated")
	}
}

func TestTFIDFNodeEmpty(t *testing.T) {
	out, err := (&TFIDFNode{}).Process(context.Background(), &core.RecommendContext{}, nil)
	if err != nil || len(out) != 0 {
		t.Errorf("Process(empty) = %v, %v", out, err)
	}
}
