package recommend

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rushteam/tagrec/pipeline"
	"github.com/rushteam/tagrec/rerank"
)

// Option 配置 Service。
type Option func(*Service)

// WithLimit 设置最多返回的物品数，<= 0 时忽略，上限 rerank.DefaultTopN。
func WithLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.limit = min(n, rerank.DefaultTopN)
		}
	}
}

// WithPersonalizedPipeline 替换个性化 Pipeline。
func WithPersonalizedPipeline(p *pipeline.Pipeline) Option {
	return func(s *Service) { s.personalized = p }
}

// WithColdStartPipeline 替换冷启动 Pipeline。
func WithColdStartPipeline(p *pipeline.Pipeline) Option {
	return func(s *Service) { s.coldStart = p }
}

// WithMetrics 设置指标，默认不采集。
func WithMetrics(m *Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock 设置时间源，交互记录的时间戳由它给出。
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator 设置交互 ID 生成器，默认 uuid v4。
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) { s.newID = gen }
}

// WithLogger 设置日志，默认使用 ctx 上的 logger。
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.logger = &l }
}

func defaultID() string { return uuid.NewString() }
