package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/tagrec/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("item", cel.DynType),
			cel.Variable("label", cel.DynType),
			cel.Variable("rctx", cel.DynType),
		)
	})
	return celEnv, celEnvErr
}

// Program 是编译好的 CEL 表达式，可被多个 goroutine 并发 Eval。
//
// 可用变量：
//   - item.id / item.type / item.title / item.tags / item.score / item.created_at（unix 秒）
//   - label.<key>：物品 Label 的 Value，例如 label.recall_source == "latest"
//   - rctx.user_id / rctx.scene / rctx.params / rctx.cold_start
//
// 示例：
//   - `item.type == "answer"`
//   - `"deprecated" in item.tags`
//   - `item.score < 0.05 && label.recall_source == "corpus"`
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 编译表达式，表达式必须返回 bool。
func Compile(expr string) (*Program, error) {
	if expr == "" {
		return nil, fmt.Errorf("dsl: empty expression")
	}
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("dsl: init env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("dsl: compile %q: %w", expr, issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("dsl: program %q: %w", expr, err)
	}
	return &Program{expr: expr, prg: prg}, nil
}

// String 返回原始表达式。
func (p *Program) String() string {
	return p.expr
}

// Eval 对单个物品求值。
func (p *Program) Eval(item *core.Item, rctx *core.RecommendContext) (bool, error) {
	out, _, err := p.prg.Eval(buildInput(item, rctx))
	if err != nil {
		return false, fmt.Errorf("dsl: eval %q: %w", p.expr, err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("dsl: expression %q must return bool, got %T", p.expr, out.Value())
	}
	return result, nil
}

// Evaluate 编译并执行一次表达式；高频场景请使用 Compile + Program.Eval。
func Evaluate(expr string, item *core.Item, rctx *core.RecommendContext) (bool, error) {
	p, err := Compile(expr)
	if err != nil {
		return false, err
	}
	return p.Eval(item, rctx)
}

func buildInput(item *core.Item, rctx *core.RecommendContext) map[string]any {
	labels := make(map[string]any, len(item.Labels))
	for k, v := range item.Labels {
		labels[k] = v.Value
	}

	tags := make([]string, 0, len(item.Tags))
	for _, t := range item.Tags {
		tags = append(tags, core.NormalizeTag(t))
	}

	itemMap := map[string]any{
		"id":         item.ID,
		"type":       string(item.Type),
		"title":      item.Title,
		"tags":       tags,
		"score":      item.Score,
		"created_at": item.CreatedAt.Unix(),
	}

	rctxMap := map[string]any{
		"user_id":    "",
		"scene":      "",
		"params":     map[string]any{},
		"cold_start": false,
	}
	if rctx != nil {
		rctxMap["user_id"] = rctx.UserID
		rctxMap["scene"] = rctx.Scene
		if rctx.Params != nil {
			rctxMap["params"] = rctx.Params
		}
		rctxMap["cold_start"] = rctx.Profile.IsEmpty()
	}

	return map[string]any{
		"item":  itemMap,
		"label": labels,
		"rctx":  rctxMap,
	}
}
