package core

import "context"

// Catalog 是推荐核心依赖的外部存储：两个读操作 + 一个写操作。
//
// 实现：
//   - store.KVCatalog（基于 KeyValueStore，Memory / Redis）
//   - store.MongoCatalog
//   - store.BreakerCatalog（熔断包装，失败立即返回，不重试）
//
// 失败约定：用户/物品不存在返回 NOT_FOUND；后端故障返回 UNAVAILABLE。
type Catalog interface {
	// FetchUserWithHistory 获取用户及其交互历史，历史条目已与物品标签 join
	FetchUserWithHistory(ctx context.Context, userID string) (*User, error)

	// FetchAllItems 获取完整语料，顺序固定：创建时间升序，再按 ID
	FetchAllItems(ctx context.Context) ([]*Item, error)

	// AppendInteraction 追加一条交互；用户或物品不存在返回 NOT_FOUND
	AppendInteraction(ctx context.Context, in *Interaction) (*Interaction, error)
}

// CatalogAdmin 是外层（HTTP / CLI）维护目录用的写接口，推荐核心不使用。
type CatalogAdmin interface {
	PutItem(ctx context.Context, item *Item) error
	GetItem(ctx context.Context, itemID string) (*Item, error)
	ListItems(ctx context.Context) ([]*Item, error)
	PutUser(ctx context.Context, user *User) error
}
