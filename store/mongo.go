package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/rushteam/tagrec/core"
)

// 集合名称
const (
	CollectionItems = "items"
	CollectionUsers = "users"
)

// MongoConfig 连接参数。
type MongoConfig struct {
	URI            string        `koanf:"uri"`
	Database       string        `koanf:"database"`
	ConnectTimeout time.Duration `koanf:"connect_timeout"`
}

// MongoCatalog 是 MongoDB 实现的 core.Catalog / core.CatalogAdmin。
//
//	items  { _id, title, content, type, tags, created_at, updated_at }
//	users  { _id, name, created_at, interaction_history: [Interaction] }
//
// 交互历史内嵌在用户文档中，用 $push 追加；历史条目的标签用 $in 批量解析。
type MongoCatalog struct {
	client *mongo.Client
	items  *mongo.Collection
	users  *mongo.Collection
}

var (
	_ core.Catalog      = (*MongoCatalog)(nil)
	_ core.CatalogAdmin = (*MongoCatalog)(nil)
)

// userDoc 是 users 集合的文档结构。
type userDoc struct {
	ID                 string             `bson:"_id"`
	Name               string             `bson:"name"`
	CreatedAt          time.Time          `bson:"created_at"`
	InteractionHistory []core.Interaction `bson:"interaction_history"`
}

// NewMongoCatalog 连接并 Ping，失败返回 UNAVAILABLE。
func NewMongoCatalog(ctx context.Context, cfg MongoConfig) (*MongoCatalog, error) {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, core.Unavailable(core.ModuleCatalog, "mongo connect", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, core.Unavailable(core.ModuleCatalog, "mongo ping", err)
	}
	return NewMongoCatalogFromDatabase(client.Database(cfg.Database)), nil
}

// NewMongoCatalogFromDatabase 复用已有连接。
func NewMongoCatalogFromDatabase(db *mongo.Database) *MongoCatalog {
	return &MongoCatalog{
		client: db.Client(),
		items:  db.Collection(CollectionItems),
		users:  db.Collection(CollectionUsers),
	}
}

// EnsureIndexes 创建 FetchAllItems 排序所需的索引。
func (c *MongoCatalog) EnsureIndexes(ctx context.Context) error {
	_, err := c.items.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}},
		Options: options.Index().SetName("idx_created_at_id"),
	})
	return mongoErr("create index", err)
}

// Close 断开连接。
func (c *MongoCatalog) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

func mongoErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return core.Unavailable(core.ModuleCatalog, "mongo "+op, err)
}

func (c *MongoCatalog) FetchUserWithHistory(ctx context.Context, userID string) (*core.User, error) {
	var doc userDoc
	err := c.users.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, core.NotFound(core.ModuleCatalog, fmt.Sprintf("user %q not found", userID))
		}
		return nil, mongoErr("find user", err)
	}

	ids := make([]string, 0, len(doc.InteractionHistory))
	seen := make(map[string]struct{}, len(doc.InteractionHistory))
	for _, in := range doc.InteractionHistory {
		if _, ok := seen[in.ItemID]; ok {
			continue
		}
		seen[in.ItemID] = struct{}{}
		ids = append(ids, in.ItemID)
	}

	tagsByItem := make(map[string][]string, len(ids))
	if len(ids) > 0 {
		cur, err := c.items.Find(ctx,
			bson.M{"_id": bson.M{"$in": ids}},
			options.Find().SetProjection(bson.M{"tags": 1}),
		)
		if err != nil {
			return nil, mongoErr("resolve history items", err)
		}
		var rows []struct {
			ID   string   `bson:"_id"`
			Tags []string `bson:"tags"`
		}
		if err := cur.All(ctx, &rows); err != nil {
			return nil, mongoErr("decode history items", err)
		}
		for _, r := range rows {
			tagsByItem[r.ID] = r.Tags
		}
	}

	user := &core.User{
		ID:        doc.ID,
		Name:      doc.Name,
		CreatedAt: doc.CreatedAt,
		History:   make([]core.HistoryEntry, 0, len(doc.InteractionHistory)),
	}
	for _, in := range doc.InteractionHistory {
		tags, ok := tagsByItem[in.ItemID]
		user.History = append(user.History, core.HistoryEntry{
			Interaction: in,
			ItemTags:    tags,
			Resolved:    ok,
		})
	}
	return user, nil
}

func (c *MongoCatalog) FetchAllItems(ctx context.Context) ([]*core.Item, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := c.items.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, mongoErr("find items", err)
	}
	var items []*core.Item
	if err := cur.All(ctx, &items); err != nil {
		return nil, mongoErr("decode items", err)
	}
	if items == nil {
		items = []*core.Item{}
	}
	return items, nil
}

func (c *MongoCatalog) AppendInteraction(ctx context.Context, in *core.Interaction) (*core.Interaction, error) {
	n, err := c.items.CountDocuments(ctx, bson.M{"_id": in.ItemID}, options.Count().SetLimit(1))
	if err != nil {
		return nil, mongoErr("count item", err)
	}
	if n == 0 {
		return nil, core.NotFound(core.ModuleCatalog, fmt.Sprintf("item %q not found", in.ItemID))
	}

	res, err := c.users.UpdateOne(ctx,
		bson.M{"_id": in.UserID},
		bson.M{"$push": bson.M{"interaction_history": in}},
	)
	if err != nil {
		return nil, mongoErr("push interaction", err)
	}
	if res.MatchedCount == 0 {
		return nil, core.NotFound(core.ModuleCatalog, fmt.Sprintf("user %q not found", in.UserID))
	}
	out := *in
	return &out, nil
}

func (c *MongoCatalog) PutItem(ctx context.Context, item *core.Item) error {
	if item == nil || item.ID == "" {
		return core.InvalidInput(core.ModuleCatalog, "item id is required")
	}
	_, err := c.items.ReplaceOne(ctx, bson.M{"_id": item.ID}, item, options.Replace().SetUpsert(true))
	return mongoErr("put item", err)
}

func (c *MongoCatalog) GetItem(ctx context.Context, itemID string) (*core.Item, error) {
	var it core.Item
	err := c.items.FindOne(ctx, bson.M{"_id": itemID}).Decode(&it)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, core.NotFound(core.ModuleCatalog, fmt.Sprintf("item %q not found", itemID))
		}
		return nil, mongoErr("find item", err)
	}
	return &it, nil
}

func (c *MongoCatalog) ListItems(ctx context.Context) ([]*core.Item, error) {
	return c.FetchAllItems(ctx)
}

// PutUser 只更新基本字段，已有的交互历史保留。
func (c *MongoCatalog) PutUser(ctx context.Context, user *core.User) error {
	if user == nil || user.ID == "" {
		return core.InvalidInput(core.ModuleCatalog, "user id is required")
	}
	_, err := c.users.UpdateOne(ctx,
		bson.M{"_id": user.ID},
		bson.M{
			"$set":         bson.M{"name": user.Name, "created_at": user.CreatedAt},
			"$setOnInsert": bson.M{"interaction_history": bson.A{}},
		},
		options.Update().SetUpsert(true),
	)
	return mongoErr("put user", err)
}
