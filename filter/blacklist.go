package filter

import (
	"context"

	"github.com/rushteam/tagrec/core"
)

// BlacklistFilter 是黑名单过滤器，过滤掉黑名单中的物品（例如下架内容）。
// 名单 = ItemIDs ∪ Store 中 Key 对应的 JSON 数组，每个请求只读一次 Store。
type BlacklistFilter struct {
	// ItemIDs 是内存中的黑名单物品 ID 列表
	ItemIDs []string

	// Store 用于从存储中读取黑名单（可选）
	Store BlacklistStore

	// Key 是 Store 中的黑名单 key（可选）
	Key string
}

// BlacklistStore 是黑名单存储接口。
type BlacklistStore interface {
	// GetBlacklist 获取黑名单物品 ID 列表，key 不存在时返回空列表
	GetBlacklist(ctx context.Context, key string) ([]string, error)
}

// NewBlacklistFilter 创建一个黑名单过滤器。
func NewBlacklistFilter(itemIDs []string, storeAdapter *StoreAdapter, key string) *BlacklistFilter {
	f := &BlacklistFilter{ItemIDs: itemIDs, Key: key}
	if storeAdapter != nil {
		f.Store = storeAdapter
	}
	return f
}

func (f *BlacklistFilter) Name() string {
	return "filter.blacklist"
}

// Bind 读取本次请求的完整黑名单。
func (f *BlacklistFilter) Bind(ctx context.Context, _ *core.RecommendContext) (Filter, error) {
	var stored []string
	if f.Store != nil && f.Key != "" {
		ids, err := f.Store.GetBlacklist(ctx, f.Key)
		if err != nil {
			return nil, err
		}
		stored = ids
	}
	return newIDSet(f.Name(), f.ItemIDs, stored), nil
}

// ShouldFilter 只检查内存名单；经 FilterNode 调用时会先 Bind 合并 Store 名单。
func (f *BlacklistFilter) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	for _, id := range f.ItemIDs {
		if item.ID == id {
			return true, nil
		}
	}
	return false, nil
}
