package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/tagrec/core"
	"github.com/rushteam/tagrec/recommend"
)

// seedDoc 是种子文件格式：
//
//	items:
//	  - {id: "1", title: SQL basics, content: ..., type: article, tags: [sql, database], created_at: 2024-01-01T00:00:00Z}
//	users:
//	  - {id: u1, name: alice}
//	interactions:
//	  - {user_id: u1, item_id: "1", interaction_type: like}
type seedDoc struct {
	Items []struct {
		ID        string    `yaml:"id"`
		Title     string    `yaml:"title"`
		Content   string    `yaml:"content"`
		Type      string    `yaml:"type"`
		Tags      []string  `yaml:"tags"`
		CreatedAt time.Time `yaml:"created_at"`
	} `yaml:"items"`
	Users []struct {
		ID   string `yaml:"id"`
		Name string `yaml:"name"`
	} `yaml:"users"`
	Interactions []struct {
		UserID      string   `yaml:"user_id"`
		ItemID      string   `yaml:"item_id"`
		Type        string   `yaml:"interaction_type"`
		Duration    *float64 `yaml:"duration"`
		Rating      *float64 `yaml:"rating"`
		SearchQuery string   `yaml:"search_query"`
	} `yaml:"interactions"`
}

type seedStats struct {
	Items        int `json:"items"`
	Users        int `json:"users"`
	Interactions int `json:"interactions"`
}

func parseSeed(data []byte) (*seedDoc, error) {
	var doc seedDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	return &doc, nil
}

// seedFile 写入物品和用户，交互经 Service.Record 校验后追加。
func seedFile(ctx context.Context, b *backend, path string) (*seedStats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	doc, err := parseSeed(data)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	stats := &seedStats{}
	for i, it := range doc.Items {
		item := &core.Item{
			ID:        it.ID,
			Title:     it.Title,
			Content:   it.Content,
			Type:      core.ItemType(it.Type),
			Tags:      it.Tags,
			CreatedAt: it.CreatedAt,
			UpdatedAt: now,
		}
		if item.CreatedAt.IsZero() {
			// 保持文件顺序即创建顺序
			item.CreatedAt = now.Add(time.Duration(i) * time.Millisecond)
		}
		if err := b.admin.PutItem(ctx, item); err != nil {
			return stats, fmt.Errorf("seed item %q: %w", it.ID, err)
		}
		stats.Items++
	}
	for _, u := range doc.Users {
		if err := b.admin.PutUser(ctx, &core.User{ID: u.ID, Name: u.Name, CreatedAt: now}); err != nil {
			return stats, fmt.Errorf("seed user %q: %w", u.ID, err)
		}
		stats.Users++
	}
	for i, in := range doc.Interactions {
		_, err := b.svc.Record(ctx, recommend.RecordRequest{
			UserID:      in.UserID,
			ItemID:      in.ItemID,
			Type:        in.Type,
			Duration:    in.Duration,
			Rating:      in.Rating,
			SearchQuery: in.SearchQuery,
		})
		if err != nil {
			return stats, fmt.Errorf("seed interaction #%d: %w", i, err)
		}
		stats.Interactions++
	}
	return stats, nil
}
