// Package builders 在 init 中向 config 注册内置 Node 的构建逻辑。
package builders

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rushteam/tagrec/config"
	"github.com/rushteam/tagrec/core"
	"github.com/rushteam/tagrec/filter"
	"github.com/rushteam/tagrec/pipeline"
	"github.com/rushteam/tagrec/pkg/conv"
	"github.com/rushteam/tagrec/rank"
	"github.com/rushteam/tagrec/recall"
	"github.com/rushteam/tagrec/rerank"
)

func init() {
	config.Register("recall.corpus", BuildCorpusNode)
	config.Register("recall.latest", BuildLatestNode)
	config.Register("recall.fanout", BuildFanoutNode)
	config.Register("rank.tfidf", BuildTFIDFNode)
	config.Register("filter", BuildFilterNode)
	config.Register("rerank.topn", BuildTopNNode)
	config.Register("rerank.diversity", BuildDiversityNode)
}

var listStore atomic.Pointer[filter.StoreAdapter]

// SetListStore 设置 blacklist / user_block 过滤器读取名单的 Store，需在构建 Pipeline 之前调用。
// 未设置时这两种过滤器只使用配置中的静态名单。
func SetListStore(s core.Store) {
	if s == nil {
		listStore.Store(nil)
		return
	}
	listStore.Store(filter.NewStoreAdapter(s))
}

func BuildCorpusNode(_ map[string]any) (pipeline.Node, error) {
	return &recall.Corpus{}, nil
}

func BuildLatestNode(cfg map[string]any) (pipeline.Node, error) {
	return &recall.Latest{N: int(conv.ConfigGetInt64(cfg, "n", 0))}, nil
}

func BuildFanoutNode(cfg map[string]any) (pipeline.Node, error) {
	sourcesConfig, ok := cfg["sources"].([]any)
	if !ok || len(sourcesConfig) == 0 {
		return nil, fmt.Errorf("sources not found or invalid")
	}
	sources := make([]recall.Source, 0, len(sourcesConfig))
	for _, sc := range sourcesConfig {
		sourceMap, ok := sc.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("invalid source config: %v", sc)
		}
		switch sourceType := conv.ConfigGet(sourceMap, "type", ""); sourceType {
		case "corpus":
			sources = append(sources, &recall.Corpus{})
		case "latest":
			sources = append(sources, &recall.Latest{N: int(conv.ConfigGetInt64(sourceMap, "n", 0))})
		default:
			return nil, fmt.Errorf("unknown source type: %s", sourceType)
		}
	}
	fanout := &recall.Fanout{
		Sources: sources,
		Dedup:   conv.ConfigGet(cfg, "dedup", true),
	}
	if ms := conv.ConfigGetInt64(cfg, "timeout_ms", 0); ms > 0 {
		fanout.Timeout = time.Duration(ms) * time.Millisecond
	}
	if n := conv.ConfigGetInt64(cfg, "max_concurrent", 0); n > 0 {
		fanout.MaxConcurrent = int(n)
	}
	return fanout, nil
}

func BuildTFIDFNode(_ map[string]any) (pipeline.Node, error) {
	return &rank.TFIDFNode{}, nil
}

func BuildTopNNode(cfg map[string]any) (pipeline.Node, error) {
	n := conv.ConfigGetInt64(cfg, "n", rerank.DefaultTopN)
	if n < 0 {
		return nil, fmt.Errorf("n must be >= 0, got %d", n)
	}
	return &rerank.TopNNode{N: int(n)}, nil
}

func BuildDiversityNode(cfg map[string]any) (pipeline.Node, error) {
	return &rerank.Diversity{
		LabelKey:   conv.ConfigGet(cfg, "label_key", ""),
		MaxPerType: int(conv.ConfigGetInt64(cfg, "max_per_type", 1)),
	}, nil
}

func BuildFilterNode(cfg map[string]any) (pipeline.Node, error) {
	filtersConfig, ok := cfg["filters"].([]any)
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}
	adapter := listStore.Load()
	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterMap, ok := fc.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("invalid filter config: %v", fc)
		}
		switch filterType := conv.ConfigGet(filterMap, "type", ""); filterType {
		case "interacted":
			filters = append(filters, filter.NewInteractedFilter())
		case "min_score":
			filters = append(filters, filter.NewScoreFilter(conv.ConfigGetFloat64(filterMap, "min", 0)))
		case "blacklist":
			ids := conv.SliceAnyToString(filterMap["item_ids"])
			key := conv.ConfigGet(filterMap, "key", "")
			filters = append(filters, filter.NewBlacklistFilter(ids, adapter, key))
		case "user_block":
			keyPrefix := conv.ConfigGet(filterMap, "key_prefix", "")
			filters = append(filters, filter.NewUserBlockFilter(adapter, keyPrefix))
		case "expr":
			f, err := filter.NewExprFilter(conv.ConfigGet(filterMap, "expr", ""))
			if err != nil {
				return nil, fmt.Errorf("expr filter: %w", err)
			}
			filters = append(filters, f)
		default:
			return nil, fmt.Errorf("unknown filter type: %s", filterType)
		}
	}
	return &filter.FilterNode{Filters: filters}, nil
}
