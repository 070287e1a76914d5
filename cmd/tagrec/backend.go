package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rushteam/tagrec/config"
	"github.com/rushteam/tagrec/config/builders"
	"github.com/rushteam/tagrec/core"
	"github.com/rushteam/tagrec/pkg/logging"
	"github.com/rushteam/tagrec/recommend"
	"github.com/rushteam/tagrec/store"
)

// backend 是按配置打开的存储及其上的推荐服务。
type backend struct {
	catalog core.Catalog // 熔断包装后的目录，推荐核心使用
	admin   core.CatalogAdmin
	svc     *recommend.Service
	close   func(context.Context) error
}

func openBackend(ctx context.Context, s *config.Settings, reg prometheus.Registerer) (*backend, error) {
	var (
		raw    interface {
			core.Catalog
			core.CatalogAdmin
		}
		lists  core.Store
		closer func(context.Context) error
	)

	switch s.Store.Driver {
	case config.DriverMemory:
		ms := store.NewMemoryStore()
		raw, lists = store.NewKVCatalog(ms, s.Store.Prefix), ms
		closer = func(context.Context) error { return ms.Close() }
	case config.DriverRedis:
		rs, err := store.NewRedisStore(ctx, s.Store.Redis)
		if err != nil {
			return nil, err
		}
		raw, lists = store.NewKVCatalog(rs, s.Store.Prefix), rs
		closer = func(context.Context) error { return rs.Close() }
	case config.DriverMongo:
		mc, err := store.NewMongoCatalog(ctx, s.Store.Mongo)
		if err != nil {
			return nil, err
		}
		if err := mc.EnsureIndexes(ctx); err != nil {
			_ = mc.Close(ctx)
			return nil, err
		}
		raw = mc
		closer = mc.Close
	default:
		return nil, fmt.Errorf("unknown store driver %q", s.Store.Driver)
	}

	// blacklist / user_block 过滤器的名单与目录共用同一个 KV 存储
	if lists != nil {
		builders.SetListStore(lists)
	}

	breakerCfg := s.Store.Breaker
	breakerCfg.Registerer = reg
	catalog := store.NewBreakerCatalog(raw, breakerCfg)

	opts := []recommend.Option{
		recommend.WithLimit(s.Recommend.Limit),
		recommend.WithMetrics(recommend.NewMetrics(reg)),
	}
	if path := s.Recommend.PipelinePath; path != "" {
		p, err := config.LoadPipeline(config.PipelinePersonalized, path)
		if err != nil {
			_ = closer(ctx)
			return nil, err
		}
		opts = append(opts, recommend.WithPersonalizedPipeline(p))
	}
	if path := s.Recommend.ColdStartPipelinePath; path != "" {
		p, err := config.LoadPipeline(config.PipelineColdStart, path)
		if err != nil {
			_ = closer(ctx)
			return nil, err
		}
		opts = append(opts, recommend.WithColdStartPipeline(p))
	}

	svc, err := recommend.New(catalog, opts...)
	if err != nil {
		_ = closer(ctx)
		return nil, err
	}

	logging.Info().Str("driver", s.Store.Driver).Msg("store opened")
	return &backend{catalog: catalog, admin: raw, svc: svc, close: closer}, nil
}
