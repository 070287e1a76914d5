package filter

import (
	"context"

	"github.com/rushteam/tagrec/core"
)

// Filter 是过滤器的抽象接口，用于判断一个 Item 是否应该被过滤掉。
// 返回 true 表示应该过滤（移除），false 表示保留。
type Filter interface {
	// Name 返回过滤器名称
	Name() string

	// ShouldFilter 判断 item 是否应该被过滤
	ShouldFilter(ctx context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error)
}

// Binder 由需要按请求预取数据的过滤器实现（例如从 Store 读取名单）。
// FilterNode 在处理前调用一次 Bind，用返回的请求级 Filter 逐个判断物品，
// 过滤器本身保持无状态，可被并发请求共享。
type Binder interface {
	Bind(ctx context.Context, rctx *core.RecommendContext) (Filter, error)
}

// idSet 是按物品 ID 过滤的请求级过滤器。
type idSet struct {
	name string
	ids  map[string]struct{}
}

func newIDSet(name string, ids ...[]string) *idSet {
	s := &idSet{name: name, ids: make(map[string]struct{})}
	for _, list := range ids {
		for _, id := range list {
			s.ids[id] = struct{}{}
		}
	}
	return s
}

func (s *idSet) Name() string { return s.name }

func (s *idSet) ShouldFilter(_ context.Context, _ *core.RecommendContext, item *core.Item) (bool, error) {
	_, ok := s.ids[item.ID]
	return ok, nil
}
