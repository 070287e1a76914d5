package filter

import (
	"context"

	"github.com/rushteam/tagrec/core"
)

// UserBlockFilter 是用户屏蔽过滤器，过滤掉用户主动屏蔽的物品。
// Store 中的 key 为 {KeyPrefix}:{UserID}，值为 JSON 物品 ID 数组。
type UserBlockFilter struct {
	// Store 用于从存储中读取用户屏蔽列表
	Store UserBlockStore

	// KeyPrefix 是 Store 中的 key 前缀，默认 user:block
	KeyPrefix string
}

// UserBlockStore 是用户屏蔽存储接口。
type UserBlockStore interface {
	// GetUserBlocks 获取用户屏蔽的物品 ID 列表，key 不存在时返回空列表
	GetUserBlocks(ctx context.Context, userID string, keyPrefix string) ([]string, error)
}

// NewUserBlockFilter 创建一个用户屏蔽过滤器。
func NewUserBlockFilter(storeAdapter *StoreAdapter, keyPrefix string) *UserBlockFilter {
	f := &UserBlockFilter{KeyPrefix: keyPrefix}
	if storeAdapter != nil {
		f.Store = storeAdapter
	}
	return f
}

func (f *UserBlockFilter) Name() string {
	return "filter.user_block"
}

func (f *UserBlockFilter) keyPrefix() string {
	if f.KeyPrefix == "" {
		return "user:block"
	}
	return f.KeyPrefix
}

// Bind 读取当前用户的屏蔽列表。
func (f *UserBlockFilter) Bind(ctx context.Context, rctx *core.RecommendContext) (Filter, error) {
	if f.Store == nil || rctx == nil || rctx.UserID == "" {
		return newIDSet(f.Name()), nil
	}
	ids, err := f.Store.GetUserBlocks(ctx, rctx.UserID, f.keyPrefix())
	if err != nil {
		return nil, err
	}
	return newIDSet(f.Name(), ids), nil
}

// ShouldFilter 直接调用时每次读取 Store；经 FilterNode 调用时走 Bind，只读一次。
func (f *UserBlockFilter) ShouldFilter(
	ctx context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	bound, err := f.Bind(ctx, rctx)
	if err != nil {
		return false, err
	}
	return bound.ShouldFilter(ctx, rctx, item)
}
