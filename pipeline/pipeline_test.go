package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rushteam/tagrec/core"
)

type funcNode struct {
	name string
	fn   func(items []*core.Item) ([]*core.Item, error)
}

func (n *funcNode) Name() string { return n.name }
func (n *funcNode) Kind() Kind   { return KindFilter }
func (n *funcNode) Process(_ context.Context, _ *core.RecommendContext, items []*core.Item) ([]*core.Item, error) {
	return n.fn(items)
}

func appendNode(id string) Node {
	return &funcNode{name: "append." + id, fn: func(items []*core.Item) ([]*core.Item, error) {
		return append(items, core.NewItem(id)), nil
	}}
}

func TestPipelineRun(t *testing.T) {
	p := &Pipeline{Name: "test", Nodes: []Node{appendNode("1"), appendNode("2")}}
	out, err := p.Run(context.Background(), &core.RecommendContext{}, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(out) != 2 || out[0].ID != "1" || out[1].ID != "2" {
		t.Errorf("Run() = %v", out)
	}
}

func TestPipelineRunStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	called := false
	p := &Pipeline{Name: "test", Nodes: []Node{
		&funcNode{name: "fail", fn: func([]*core.Item) ([]*core.Item, error) { return nil, boom }},
		&funcNode{name: "after", fn: func(items []*core.Item) ([]*core.Item, error) {
			called = true
			return items, nil
		}},
	}}
	_, err := p.Run(context.Background(), &core.RecommendContext{}, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("Run() error = %v, want wrapping %v", err, boom)
	}
	if called {
		t.Error("nodes after a failing node must not run")
	}
}

func TestPipelineRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := &Pipeline{Nodes: []Node{appendNode("1")}}
	if _, err := p.Run(ctx, &core.RecommendContext{}, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

const testYAML = `
pipeline:
  name: demo
  nodes:
    - type: test.append
      config:
        id: "a"
    - type: test.append
      config:
        id: "b"
`

func newTestFactory() *NodeFactory {
	f := NewNodeFactory()
	f.Register("test.append", func(cfg map[string]any) (Node, error) {
		id, _ := cfg["id"].(string)
		return appendNode(id), nil
	})
	return f
}

func TestConfigBuildPipeline(t *testing.T) {
	cfg, err := ParseYAML([]byte(testYAML))
	if err != nil {
		t.Fatalf("ParseYAML() error = %v", err)
	}
	p, err := cfg.BuildPipeline(newTestFactory())
	if err != nil {
		t.Fatalf("BuildPipeline() error = %v", err)
	}
	if p.Name != "demo" || len(p.Nodes) != 2 {
		t.Fatalf("pipeline = %+v", p)
	}
	out, err := p.Run(context.Background(), &core.RecommendContext{}, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(out) != 2 || out[0].ID != "a" || out[1].ID != "b" {
		t.Errorf("Run() = %v", out)
	}
}

func TestConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown type", "pipeline:\n  name: x\n  nodes:\n    - type: nope\n"},
		{"no nodes", "pipeline:\n  name: x\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseYAML([]byte(tt.yaml))
			if err != nil {
				t.Fatalf("ParseYAML() error = %v", err)
			}
			if _, err := cfg.BuildPipeline(newTestFactory()); err == nil {
				t.Error("BuildPipeline() expected error")
			}
		})
	}
}

func TestLoadFromFileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.json")
	data := `{"pipeline":{"name":"j","nodes":[{"type":"test.append","config":{"id":"x"}}]}}`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
	if cfg.Pipeline.Name != "j" || len(cfg.Pipeline.Nodes) != 1 || cfg.Pipeline.Nodes[0].Config["id"] != "x" {
		t.Errorf("cfg = %+v", cfg)
	}
}
