package store

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rushteam/tagrec/core"
)

// 集成测试需要真实服务：
//
//	TAGREC_TEST_REDIS_ADDR=localhost:6379
//	TAGREC_TEST_MONGO_URI=mongodb://localhost:27017

func catalogRoundTrip(t *testing.T, admin core.CatalogAdmin, cat core.Catalog) {
	t.Helper()
	ctx := context.Background()
	suffix := uuid.NewString()
	itemID := "item-" + suffix
	userID := "user-" + suffix

	if err := admin.PutItem(ctx, &core.Item{ID: itemID, Title: "t", Tags: []string{"Go", "db"}, CreatedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("PutItem() error = %v", err)
	}
	if err := admin.PutUser(ctx, &core.User{ID: userID, Name: "it"}); err != nil {
		t.Fatalf("PutUser() error = %v", err)
	}
	in := &core.Interaction{ID: uuid.NewString(), UserID: userID, ItemID: itemID, Type: core.InteractionLike, Timestamp: time.Now().UTC()}
	if _, err := cat.AppendInteraction(ctx, in); err != nil {
		t.Fatalf("AppendInteraction() error = %v", err)
	}

	user, err := cat.FetchUserWithHistory(ctx, userID)
	if err != nil {
		t.Fatalf("FetchUserWithHistory() error = %v", err)
	}
	if len(user.History) != 1 || !user.History[0].Resolved || len(user.History[0].ItemTags) != 2 {
		t.Errorf("history = %+v", user.History)
	}
	if _, err := cat.FetchUserWithHistory(ctx, "missing-"+suffix); !core.IsNotFound(err) {
		t.Errorf("missing user error = %v", err)
	}
}

func TestRedisCatalogIntegration(t *testing.T) {
	addr := os.Getenv("TAGREC_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TAGREC_TEST_REDIS_ADDR not set")
	}
	rs, err := NewRedisStore(context.Background(), RedisConfig{Addr: addr, DialTimeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("NewRedisStore() error = %v", err)
	}
	defer rs.Close()

	c := NewKVCatalog(rs, fmt.Sprintf("tagrec-test-%d", time.Now().UnixNano()))
	catalogRoundTrip(t, c, c)
}

func TestMongoCatalogIntegration(t *testing.T) {
	uri := os.Getenv("TAGREC_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TAGREC_TEST_MONGO_URI not set")
	}
	ctx := context.Background()
	c, err := NewMongoCatalog(ctx, MongoConfig{URI: uri, Database: "tagrec_test"})
	if err != nil {
		t.Fatalf("NewMongoCatalog() error = %v", err)
	}
	defer c.Close(ctx)
	if err := c.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes() error = %v", err)
	}
	catalogRoundTrip(t, c, NewBreakerCatalog(c, BreakerConfig{}))
}

func TestNewRedisStoreUnavailable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := NewRedisStore(ctx, RedisConfig{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond})
	if err == nil {
		t.Skip("something is listening on 127.0.0.1:1")
	}
	if !core.IsUnavailable(err) {
		t.Errorf("error = %v, want UNAVAILABLE", err)
	}
}
