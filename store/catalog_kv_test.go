package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rushteam/tagrec/core"
)

func newTestCatalog(t *testing.T) *KVCatalog {
	t.Helper()
	s := NewMemoryStore()
	t.Cleanup(func() { _ = s.Close() })
	return NewKVCatalog(s, "test")
}

func putItems(t *testing.T, c *KVCatalog, items ...*core.Item) {
	t.Helper()
	for _, it := range items {
		if err := c.PutItem(context.Background(), it); err != nil {
			t.Fatalf("PutItem(%s) error = %v", it.ID, err)
		}
	}
}

func TestKVCatalogFetchAllItemsOrder(t *testing.T) {
	c := newTestCatalog(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	putItems(t, c,
		&core.Item{ID: "c", Tags: []string{"x"}, CreatedAt: base.Add(2 * time.Hour)},
		&core.Item{ID: "b", Tags: []string{"y"}, CreatedAt: base},
		&core.Item{ID: "a", Tags: []string{"z"}, CreatedAt: base},
	)

	items, err := c.FetchAllItems(context.Background())
	if err != nil {
		t.Fatalf("FetchAllItems() error = %v", err)
	}
	want := []string{"a", "b", "c"}
	if len(items) != len(want) {
		t.Fatalf("len = %d, want %d", len(items), len(want))
	}
	for i, id := range want {
		if items[i].ID != id {
			t.Errorf("items[%d] = %s, want %s", i, items[i].ID, id)
		}
	}
	if !items[2].CreatedAt.Equal(base.Add(2 * time.Hour)) {
		t.Errorf("CreatedAt round trip = %v", items[2].CreatedAt)
	}
}

func TestKVCatalogHistory(t *testing.T) {
	ctx := context.Background()
	c := newTestCatalog(t)
	putItems(t, c,
		&core.Item{ID: "1", Tags: []string{"sql", "database"}},
		&core.Item{ID: "2", Tags: []string{"web"}},
	)
	if err := c.PutUser(ctx, &core.User{ID: "u1", Name: "alice"}); err != nil {
		t.Fatal(err)
	}

	for _, in := range []*core.Interaction{
		{ID: "i1", UserID: "u1", ItemID: "1", Type: core.InteractionLike},
		{ID: "i2", UserID: "u1", ItemID: "2", Type: core.InteractionView},
		{ID: "i3", UserID: "u1", ItemID: "1", Type: core.InteractionView},
	} {
		if _, err := c.AppendInteraction(ctx, in); err != nil {
			t.Fatalf("AppendInteraction(%s) error = %v", in.ID, err)
		}
	}

	user, err := c.FetchUserWithHistory(ctx, "u1")
	if err != nil {
		t.Fatalf("FetchUserWithHistory() error = %v", err)
	}
	if user.Name != "alice" || len(user.History) != 3 {
		t.Fatalf("user = %+v", user)
	}
	first := user.History[0]
	if first.Interaction.ID != "i1" || !first.Resolved || len(first.ItemTags) != 2 {
		t.Errorf("history[0] = %+v", first)
	}
	if user.History[2].Interaction.ID != "i3" {
		t.Errorf("history must keep append order, got %+v", user.History)
	}
}

func TestKVCatalogNotFound(t *testing.T) {
	ctx := context.Background()
	c := newTestCatalog(t)
	putItems(t, c, &core.Item{ID: "1", Tags: []string{"a"}})
	_ = c.PutUser(ctx, &core.User{ID: "u1"})

	tests := []struct {
		name string
		fn   func() error
	}{
		{"fetch missing user", func() error {
			_, err := c.FetchUserWithHistory(ctx, "ghost")
			return err
		}},
		{"append for missing user", func() error {
			_, err := c.AppendInteraction(ctx, &core.Interaction{UserID: "ghost", ItemID: "1", Type: core.InteractionView})
			return err
		}},
		{"append for missing item", func() error {
			_, err := c.AppendInteraction(ctx, &core.Interaction{UserID: "u1", ItemID: "404", Type: core.InteractionView})
			return err
		}},
		{"get missing item", func() error {
			_, err := c.GetItem(ctx, "404")
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(); !core.IsNotFound(err) {
				t.Errorf("error = %v, want NOT_FOUND", err)
			}
		})
	}

	user, _ := c.FetchUserWithHistory(ctx, "u1")
	if len(user.History) != 0 {
		t.Errorf("rejected appends must not write, history = %+v", user.History)
	}
}

// 物品被删除后历史仍引用它，条目应标记为未解析。
func TestKVCatalogUnresolvedHistory(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()
	c := NewKVCatalog(s, "")
	putItems(t, c, &core.Item{ID: "1", Tags: []string{"a"}})
	_ = c.PutUser(ctx, &core.User{ID: "u1"})
	if _, err := c.AppendInteraction(ctx, &core.Interaction{UserID: "u1", ItemID: "1", Type: core.InteractionLike}); err != nil {
		t.Fatal(err)
	}
	_ = s.Delete(ctx, c.itemsKey())

	user, err := c.FetchUserWithHistory(ctx, "u1")
	if err != nil {
		t.Fatalf("FetchUserWithHistory() error = %v", err)
	}
	if len(user.History) != 1 || user.History[0].Resolved {
		t.Errorf("history = %+v, want one unresolved entry", user.History)
	}
}

func TestKVCatalogInvalidInput(t *testing.T) {
	c := newTestCatalog(t)
	if err := c.PutItem(context.Background(), &core.Item{}); !core.IsInvalidInput(err) {
		t.Errorf("PutItem(no id) error = %v", err)
	}
	if err := c.PutUser(context.Background(), nil); !core.IsInvalidInput(err) {
		t.Errorf("PutUser(nil) error = %v", err)
	}
}

type failingKV struct {
	*MemoryStore
	err error
}

func (f *failingKV) HGetAll(context.Context, string) (map[string][]byte, error) { return nil, f.err }

func TestKVCatalogUnavailable(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	boom := errors.New("connection refused")
	c := NewKVCatalog(&failingKV{MemoryStore: s, err: boom}, "")

	_, err := c.FetchAllItems(context.Background())
	if !core.IsUnavailable(err) || !errors.Is(err, boom) {
		t.Errorf("FetchAllItems() error = %v, want UNAVAILABLE wrapping cause", err)
	}
}
