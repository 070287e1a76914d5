package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rushteam/tagrec/config"
)

const seedYAML = `
items:
  - {id: "1", title: SQL basics, content: intro, type: article, tags: [sql, database], created_at: 2024-01-01T00:00:00Z}
  - {id: "2", title: SQL on the web, content: web, type: video, tags: [sql, web], created_at: 2024-01-02T00:00:00Z}
  - {id: "3", title: CSS tricks, content: css, type: answer, tags: [web, css], created_at: 2024-01-03T00:00:00Z}
users:
  - {id: u1, name: alice}
interactions:
  - {user_id: u1, item_id: "1", interaction_type: like}
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func memoryBackend(t *testing.T) *backend {
	t.Helper()
	s := config.Defaults()
	b, err := openBackend(context.Background(), s, prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("openBackend() error = %v", err)
	}
	t.Cleanup(func() { _ = b.close(context.Background()) })
	return b
}

func TestParseSeed(t *testing.T) {
	doc, err := parseSeed([]byte(seedYAML))
	if err != nil {
		t.Fatalf("parseSeed() error = %v", err)
	}
	if len(doc.Items) != 3 || len(doc.Users) != 1 || len(doc.Interactions) != 1 {
		t.Fatalf("doc = %+v", doc)
	}
	if doc.Items[1].Tags[1] != "web" || doc.Items[2].CreatedAt.Day() != 3 {
		t.Errorf("item = %+v", doc.Items[1])
	}

	if _, err := parseSeed([]byte("items: [")); err == nil {
		t.Error("want parse error")
	}
}

func TestSeedAndRecommend(t *testing.T) {
	b := memoryBackend(t)
	ctx := context.Background()

	stats, err := seedFile(ctx, b, writeFile(t, "seed.yaml", seedYAML))
	if err != nil {
		t.Fatalf("seedFile() error = %v", err)
	}
	if *stats != (seedStats{Items: 3, Users: 1, Interactions: 1}) {
		t.Errorf("stats = %+v", stats)
	}

	res, err := b.svc.Recommend(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if res.ColdStart || len(res.Items) != 1 || res.Items[0].ID != "2" {
		t.Errorf("result = %+v", res)
	}
}

func TestSeedRejectsInvalidInteraction(t *testing.T) {
	b := memoryBackend(t)
	bad := seedYAML + `  - {user_id: u1, item_id: "2", interaction_type: rating, rating: 9}
`
	stats, err := seedFile(context.Background(), b, writeFile(t, "seed.yaml", bad))
	if err == nil || !strings.Contains(err.Error(), "seed interaction #1") {
		t.Fatalf("seedFile() error = %v", err)
	}
	if stats.Interactions != 1 {
		t.Errorf("interactions = %d, want 1", stats.Interactions)
	}
}

func TestOptionalFloat(t *testing.T) {
	if v, err := optionalFloat("rating", ""); v != nil || err != nil {
		t.Errorf("empty = %v, %v", v, err)
	}
	if v, err := optionalFloat("rating", "4.5"); err != nil || *v != 4.5 {
		t.Errorf("4.5 = %v, %v", v, err)
	}
	if _, err := optionalFloat("rating", "x"); err == nil || !strings.Contains(err.Error(), "--rating") {
		t.Errorf("bad = %v", err)
	}
}

func TestRecommendCommand(t *testing.T) {
	cfg := writeFile(t, "tagrec.yaml", "store:\n  driver: memory\n")
	root := rootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"--config", cfg, "recommend", "ghost"})

	err := root.Execute()
	if err == nil || !strings.Contains(err.Error(), "ghost") {
		t.Errorf("Execute() error = %v, want not found", err)
	}
}
