package filter

import (
	"context"
	"fmt"

	"github.com/rushteam/tagrec/core"
	"github.com/rushteam/tagrec/pipeline"
	"github.com/rushteam/tagrec/pkg/logging"
)

// FilterNode 是过滤 Node，可以组合多个过滤器进行过滤。
// 如果任何一个过滤器返回 true，该物品就会被过滤掉；任何过滤器出错，整个 Node 返回错误。
type FilterNode struct {
	Filters []Filter
}

func (n *FilterNode) Name() string {
	return "filter.node"
}

func (n *FilterNode) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (n *FilterNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(n.Filters) == 0 || len(items) == 0 {
		return items, nil
	}

	filters := make([]Filter, 0, len(n.Filters))
	for _, f := range n.Filters {
		if b, ok := f.(Binder); ok {
			bound, err := b.Bind(ctx, rctx)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", f.Name(), err)
			}
			f = bound
		}
		filters = append(filters, f)
	}

	out := make([]*core.Item, 0, len(items))
	removed := make(map[string]int, len(filters))
	for _, item := range items {
		if item == nil {
			continue
		}
		drop := false
		for _, f := range filters {
			ok, err := f.ShouldFilter(ctx, rctx, item)
			if err != nil {
				return nil, fmt.Errorf("%s: item %s: %w", f.Name(), item.ID, err)
			}
			if ok {
				drop = true
				removed[f.Name()]++
				break
			}
		}
		if !drop {
			out = append(out, item)
		}
	}

	if len(removed) > 0 {
		ev := logging.Ctx(ctx).Debug()
		for name, cnt := range removed {
			ev = ev.Int(name, cnt)
		}
		ev.Int("kept", len(out)).Msg("filter done")
	}
	return out, nil
}
