// Package store 提供 core.KeyValueStore 与 core.Catalog 的实现。
//
// 接口定义在 core 包，本包只包含实现：
//
//	var kv core.KeyValueStore = store.NewMemoryStore()
//	var catalog core.Catalog = store.NewKVCatalog(kv, "tagrec")
//	catalog = store.NewBreakerCatalog(catalog, store.BreakerConfig{})
package store

import "github.com/rushteam/tagrec/core"

// ErrNotFound 与 core.ErrStoreNotFound 相同，方便调用方 errors.Is 判断。
var ErrNotFound = core.ErrStoreNotFound
