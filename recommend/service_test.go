package recommend

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/rushteam/tagrec/core"
	"github.com/rushteam/tagrec/pipeline"
	"github.com/rushteam/tagrec/rank"
	"github.com/rushteam/tagrec/recall"
	"github.com/rushteam/tagrec/store"
)

var baseTime = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

type fixture struct {
	catalog *store.KVCatalog
	svc     *Service
	reg     *prometheus.Registry
}

func newFixture(t *testing.T, items []*core.Item, opts ...Option) *fixture {
	t.Helper()
	ctx := context.Background()
	ms := store.NewMemoryStore()
	t.Cleanup(func() { _ = ms.Close() })
	cat := store.NewKVCatalog(ms, "t")
	for _, it := range items {
		if err := cat.PutItem(ctx, it); err != nil {
			t.Fatal(err)
		}
	}
	if err := cat.PutUser(ctx, &core.User{ID: "u1", Name: "alice"}); err != nil {
		t.Fatal(err)
	}

	reg := prometheus.NewRegistry()
	seq := 0
	opts = append([]Option{
		WithMetrics(NewMetrics(reg)),
		WithClock(func() time.Time { return baseTime }),
		WithIDGenerator(func() string { seq++; return fmt.Sprintf("i%d", seq) }),
	}, opts...)
	svc, err := New(cat, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return &fixture{catalog: cat, svc: svc, reg: reg}
}

func (f *fixture) record(t *testing.T, itemID string, typ core.InteractionType) {
	t.Helper()
	if _, err := f.svc.Record(context.Background(), RecordRequest{UserID: "u1", ItemID: itemID, Type: string(typ)}); err != nil {
		t.Fatalf("Record(%s, %s) error = %v", itemID, typ, err)
	}
}

func itemIDs(items []*core.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func scenarioCorpus() []*core.Item {
	return []*core.Item{
		{ID: "1", Title: "SQL basics", Tags: []string{"sql", "database"}, CreatedAt: baseTime},
		{ID: "2", Title: "SQL on the web", Tags: []string{"sql", "web"}, CreatedAt: baseTime.Add(time.Hour)},
		{ID: "3", Title: "CSS tricks", Tags: []string{"web", "css"}, CreatedAt: baseTime.Add(2 * time.Hour)},
	}
}

func TestRecommendSharedTagScenario(t *testing.T) {
	f := newFixture(t, scenarioCorpus())
	f.record(t, "1", core.InteractionLike)

	res, err := f.svc.Recommend(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if res.ColdStart || res.Message != MessagePersonalized {
		t.Errorf("result = %+v, want personalized", res)
	}
	// 物品 3 与 {sql, database} 没有共同标签，得分 0 被剔除；物品 1 已交互
	if got := itemIDs(res.Items); len(got) != 1 || got[0] != "2" {
		t.Fatalf("items = %v, want [2]", got)
	}
	if res.Items[0].Score <= 0 || res.Items[0].Score > 1 {
		t.Errorf("score = %v, want (0,1]", res.Items[0].Score)
	}
	if lbl, ok := res.Items[0].Labels["rank_model"]; !ok || lbl.Value != rank.ModelTFIDFCosine {
		t.Errorf("rank_model label = %+v", res.Items[0].Labels)
	}

	view, err := f.svc.Profile(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if view.Interests["sql"] != 2 || view.Interests["database"] != 2 || len(view.Interests) != 2 {
		t.Errorf("interests = %v, want {sql:2 database:2}", view.Interests)
	}
	if len(view.Interacted) != 1 || view.Interacted[0] != "1" {
		t.Errorf("interacted = %v", view.Interacted)
	}
}

func manyItems(n int) []*core.Item {
	items := make([]*core.Item, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, &core.Item{
			ID:        fmt.Sprintf("item-%02d", i),
			Tags:      []string{fmt.Sprintf("t%d", i%4), "common"},
			CreatedAt: baseTime.Add(time.Duration(i) * time.Minute),
		})
	}
	return items
}

func TestRecommendColdStartNewest(t *testing.T) {
	f := newFixture(t, manyItems(15))

	res, err := f.svc.Recommend(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if !res.ColdStart || res.Message != MessageColdStart {
		t.Errorf("result = %+v, want cold start", res)
	}
	got := itemIDs(res.Items)
	if len(got) != 10 {
		t.Fatalf("len = %d, want 10", len(got))
	}
	for i, id := range got {
		if want := fmt.Sprintf("item-%02d", 14-i); id != want {
			t.Errorf("items[%d] = %s, want %s", i, id, want)
		}
	}
	if lbl, ok := res.Items[0].Labels["recall_source"]; !ok || lbl.Value != recall.SourceLatest {
		t.Errorf("recall_source label = %+v", res.Items[0].Labels)
	}
	if got := testutil.ToFloat64(f.svc.metrics.Requests.WithLabelValues(OutcomeColdStart)); got != 1 {
		t.Errorf("cold start counter = %v", got)
	}
}

func TestRecommendZeroWeightHistoryIsColdStart(t *testing.T) {
	f := newFixture(t, manyItems(12))
	f.record(t, "item-11", core.InteractionDislike)
	if _, err := f.svc.Record(context.Background(), RecordRequest{
		UserID: "u1", ItemID: "item-10", Type: string(core.InteractionSearchQueryMatch), SearchQuery: "go",
	}); err != nil {
		t.Fatal(err)
	}

	res, err := f.svc.Recommend(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if !res.ColdStart {
		t.Fatal("dislike / search only history must be cold start")
	}
	got := itemIDs(res.Items)
	if len(got) != 10 || got[0] != "item-09" {
		t.Errorf("items = %v, want newest ten excluding interacted", got)
	}
	for _, id := range got {
		if id == "item-11" || id == "item-10" {
			t.Errorf("interacted item %s returned", id)
		}
	}
}

func TestRecommendProperties(t *testing.T) {
	f := newFixture(t, manyItems(40))
	f.record(t, "item-00", core.InteractionComplete)
	f.record(t, "item-05", core.InteractionView)
	f.record(t, "item-06", core.InteractionBookmark)

	res, err := f.svc.Recommend(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if res.ColdStart {
		t.Fatal("want personalized")
	}
	if len(res.Items) == 0 || len(res.Items) > 10 {
		t.Fatalf("len = %d, want 1..10", len(res.Items))
	}
	for i, it := range res.Items {
		switch it.ID {
		case "item-00", "item-05", "item-06":
			t.Errorf("interacted item %s returned", it.ID)
		}
		if it.Score <= 0 {
			t.Errorf("items[%d] score = %v, want > 0", i, it.Score)
		}
		if i > 0 && it.Score > res.Items[i-1].Score {
			t.Errorf("scores not sorted at %d: %v > %v", i, it.Score, res.Items[i-1].Score)
		}
	}

	again, _ := f.svc.Recommend(context.Background(), "u1")
	if fmt.Sprint(itemIDs(again.Items)) != fmt.Sprint(itemIDs(res.Items)) {
		t.Error("recommendations must be deterministic")
	}
}

func TestRecommendWithLimit(t *testing.T) {
	f := newFixture(t, manyItems(30), WithLimit(3))
	res, err := f.svc.Recommend(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Items) != 3 {
		t.Errorf("len = %d, want 3", len(res.Items))
	}
}

func TestRecommendLimitCapped(t *testing.T) {
	f := newFixture(t, manyItems(30), WithLimit(25))
	res, err := f.svc.Recommend(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Items) != 10 {
		t.Errorf("len = %d, want 10", len(res.Items))
	}
}

func TestRecommendColdStartExcludesUntaggedInteracted(t *testing.T) {
	f := newFixture(t, []*core.Item{
		{ID: "a", Tags: []string{"go"}, CreatedAt: baseTime},
		{ID: "untagged", Tags: []string{}, CreatedAt: baseTime.Add(time.Hour)},
	})
	f.record(t, "untagged", core.InteractionLike)

	res, err := f.svc.Recommend(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if !res.ColdStart {
		t.Fatal("like on an untagged item must stay cold start")
	}
	if got := itemIDs(res.Items); len(got) != 1 || got[0] != "a" {
		t.Errorf("items = %v, want [a]", got)
	}

	view, err := f.svc.Profile(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(view.Interacted) != 1 || view.Interacted[0] != "untagged" {
		t.Errorf("interacted = %v, want [untagged]", view.Interacted)
	}
}

// nilUserCatalog 返回 (nil, nil)，模拟不规范的 Catalog 实现。
type nilUserCatalog struct{ countingCatalog }

func (nilUserCatalog) FetchUserWithHistory(context.Context, string) (*core.User, error) {
	return nil, nil
}

func TestRecommendNilUser(t *testing.T) {
	svc, err := New(&nilUserCatalog{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Recommend(context.Background(), "u1"); !core.IsNotFound(err) {
		t.Errorf("Recommend() error = %v, want NOT_FOUND", err)
	}
	if _, err := svc.Profile(context.Background(), "u1"); !core.IsNotFound(err) {
		t.Errorf("Profile() error = %v, want NOT_FOUND", err)
	}
}

func TestRecommendEmptyCorpus(t *testing.T) {
	f := newFixture(t, nil)
	res, err := f.svc.Recommend(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if !res.ColdStart || res.Items == nil || len(res.Items) != 0 {
		t.Errorf("result = %+v, want empty cold start", res)
	}
}

func TestRecommendErrors(t *testing.T) {
	f := newFixture(t, scenarioCorpus())

	if _, err := f.svc.Recommend(context.Background(), ""); !core.IsInvalidInput(err) {
		t.Errorf("empty user error = %v", err)
	}
	if _, err := f.svc.Recommend(context.Background(), "ghost"); !core.IsNotFound(err) {
		t.Errorf("missing user error = %v", err)
	}
	if got := testutil.ToFloat64(f.svc.metrics.Requests.WithLabelValues(OutcomeError)); got != 2 {
		t.Errorf("error counter = %v, want 2", got)
	}

	boom := core.Unavailable(core.ModuleCatalog, "down", errors.New("dial"))
	svc, err := New(&countingCatalog{err: boom})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Recommend(context.Background(), "u1"); !errors.Is(err, boom) {
		t.Errorf("store failure error = %v, want propagated", err)
	}
}

type failingNode struct{ err error }

func (n failingNode) Name() string        { return "rank.fail" }
func (n failingNode) Kind() pipeline.Kind { return pipeline.KindRank }
func (n failingNode) Process(context.Context, *core.RecommendContext, []*core.Item) ([]*core.Item, error) {
	return nil, n.err
}

func TestRecommendPipelineError(t *testing.T) {
	boom := errors.New("rank failed")
	p := &pipeline.Pipeline{Name: "broken", Nodes: []pipeline.Node{&recall.Corpus{}, failingNode{err: boom}}}
	f := newFixture(t, scenarioCorpus(), WithPersonalizedPipeline(p))
	f.record(t, "1", core.InteractionLike)

	if _, err := f.svc.Recommend(context.Background(), "u1"); !errors.Is(err, boom) {
		t.Errorf("error = %v, want pipeline error", err)
	}
}
