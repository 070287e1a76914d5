package store

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/goccy/go-json"

	"github.com/rushteam/tagrec/core"
)

// KVCatalog 基于任意 core.KeyValueStore（Memory / Redis）实现 core.Catalog 与 core.CatalogAdmin。
//
// Key 布局：
//
//	{prefix}:items                     Hash，field = 物品 ID，value = 物品 JSON
//	{prefix}:items:created             ZSet，member = 物品 ID，score = 创建时间（毫秒）
//	{prefix}:user:{id}                 用户 JSON
//	{prefix}:user:{id}:interactions    List，只追加的交互 JSON
type KVCatalog struct {
	kv     core.KeyValueStore
	prefix string
}

var (
	_ core.Catalog      = (*KVCatalog)(nil)
	_ core.CatalogAdmin = (*KVCatalog)(nil)
)

// NewKVCatalog 创建目录，prefix 为空时使用 tagrec。
func NewKVCatalog(kv core.KeyValueStore, prefix string) *KVCatalog {
	if prefix == "" {
		prefix = "tagrec"
	}
	return &KVCatalog{kv: kv, prefix: prefix}
}

func (c *KVCatalog) itemsKey() string            { return c.prefix + ":items" }
func (c *KVCatalog) createdKey() string          { return c.prefix + ":items:created" }
func (c *KVCatalog) userKey(id string) string    { return c.prefix + ":user:" + id }
func (c *KVCatalog) historyKey(id string) string { return c.prefix + ":user:" + id + ":interactions" }

// storeErr 把非 DomainError 的底层错误统一为 UNAVAILABLE。
func storeErr(op string, err error) error {
	if err == nil || core.IsDomainError(err) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return core.Unavailable(core.ModuleCatalog, op, err)
}

// FetchUserWithHistory 读取用户与全部交互，并按物品 ID join 标签。
// 物品已不存在的条目 Resolved=false。
func (c *KVCatalog) FetchUserWithHistory(ctx context.Context, userID string) (*core.User, error) {
	raw, err := c.kv.Get(ctx, c.userKey(userID))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, core.NotFound(core.ModuleCatalog, fmt.Sprintf("user %q not found", userID))
		}
		return nil, storeErr("get user", err)
	}
	var user core.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInternalError, "decode user "+userID+": "+err.Error())
	}

	rows, err := c.kv.LRange(ctx, c.historyKey(userID), 0, -1)
	if err != nil {
		return nil, storeErr("read history", err)
	}

	tagsByItem := make(map[string][]string)
	resolved := make(map[string]bool)
	user.History = make([]core.HistoryEntry, 0, len(rows))
	for _, row := range rows {
		var in core.Interaction
		if err := json.Unmarshal(row, &in); err != nil {
			return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInternalError, "decode interaction: "+err.Error())
		}
		if _, seen := resolved[in.ItemID]; !seen {
			item, err := c.GetItem(ctx, in.ItemID)
			switch {
			case err == nil:
				resolved[in.ItemID] = true
				tagsByItem[in.ItemID] = item.Tags
			case core.IsNotFound(err):
				resolved[in.ItemID] = false
			default:
				return nil, err
			}
		}
		user.History = append(user.History, core.HistoryEntry{
			Interaction: in,
			ItemTags:    tagsByItem[in.ItemID],
			Resolved:    resolved[in.ItemID],
		})
	}
	return &user, nil
}

// FetchAllItems 返回全部物品：创建时间升序，同一时间按 ID 升序。
func (c *KVCatalog) FetchAllItems(ctx context.Context) ([]*core.Item, error) {
	order, err := c.kv.ZRange(ctx, c.createdKey(), 0, -1)
	if err != nil {
		return nil, storeErr("read item order", err)
	}
	raw, err := c.kv.HGetAll(ctx, c.itemsKey())
	if err != nil {
		return nil, storeErr("read items", err)
	}

	items := make([]*core.Item, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	decode := func(id string) error {
		data, ok := raw[id]
		if !ok {
			return nil
		}
		if _, dup := seen[id]; dup {
			return nil
		}
		seen[id] = struct{}{}
		var it core.Item
		if err := json.Unmarshal(data, &it); err != nil {
			return core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInternalError, "decode item "+id+": "+err.Error())
		}
		items = append(items, &it)
		return nil
	}

	// ZRange 为降序，倒序遍历得到升序
	for i := len(order) - 1; i >= 0; i-- {
		if err := decode(order[i]); err != nil {
			return nil, err
		}
	}
	for id := range raw {
		if err := decode(id); err != nil {
			return nil, err
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return items, nil
}

// AppendInteraction 追加一条交互；用户或物品不存在返回 NOT_FOUND。
func (c *KVCatalog) AppendInteraction(ctx context.Context, in *core.Interaction) (*core.Interaction, error) {
	if _, err := c.kv.Get(ctx, c.userKey(in.UserID)); err != nil {
		if core.IsStoreNotFound(err) {
			return nil, core.NotFound(core.ModuleCatalog, fmt.Sprintf("user %q not found", in.UserID))
		}
		return nil, storeErr("get user", err)
	}
	if _, err := c.GetItem(ctx, in.ItemID); err != nil {
		return nil, err
	}

	data, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	if _, err := c.kv.RPush(ctx, c.historyKey(in.UserID), data); err != nil {
		return nil, storeErr("append interaction", err)
	}
	out := *in
	return &out, nil
}

// PutItem 写入或覆盖物品。
func (c *KVCatalog) PutItem(ctx context.Context, item *core.Item) error {
	if item == nil || item.ID == "" {
		return core.InvalidInput(core.ModuleCatalog, "item id is required")
	}
	stored := item.Clone()
	stored.Meta = nil
	stored.Labels = nil
	data, err := json.Marshal(stored)
	if err != nil {
		return err
	}
	if err := c.kv.HSet(ctx, c.itemsKey(), item.ID, data); err != nil {
		return storeErr("put item", err)
	}
	if err := c.kv.ZAdd(ctx, c.createdKey(), float64(item.CreatedAt.UnixMilli()), item.ID); err != nil {
		return storeErr("index item", err)
	}
	return nil
}

// GetItem 读取单个物品。
func (c *KVCatalog) GetItem(ctx context.Context, itemID string) (*core.Item, error) {
	data, err := c.kv.HGet(ctx, c.itemsKey(), itemID)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, core.NotFound(core.ModuleCatalog, fmt.Sprintf("item %q not found", itemID))
		}
		return nil, storeErr("get item", err)
	}
	var it core.Item
	if err := json.Unmarshal(data, &it); err != nil {
		return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInternalError, "decode item "+itemID+": "+err.Error())
	}
	return &it, nil
}

// ListItems 与 FetchAllItems 相同。
func (c *KVCatalog) ListItems(ctx context.Context) ([]*core.Item, error) {
	return c.FetchAllItems(ctx)
}

// PutUser 写入或覆盖用户（不含历史）。
func (c *KVCatalog) PutUser(ctx context.Context, user *core.User) error {
	if user == nil || user.ID == "" {
		return core.InvalidInput(core.ModuleCatalog, "user id is required")
	}
	cp := *user
	cp.History = nil
	data, err := json.Marshal(&cp)
	if err != nil {
		return err
	}
	return storeErr("put user", c.kv.Set(ctx, c.userKey(user.ID), data))
}
