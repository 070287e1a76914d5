package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/rushteam/tagrec/core"
	"github.com/rushteam/tagrec/pkg/logging"
)

// BreakerConfig 熔断参数。
type BreakerConfig struct {
	Name         string        `koanf:"name"`
	MaxRequests  uint32        `koanf:"max_requests"`  // 半开状态允许的并发请求数
	Interval     time.Duration `koanf:"interval"`      // 关闭状态下计数清零周期
	Timeout      time.Duration `koanf:"timeout"`       // 打开后多久进入半开
	MinRequests  uint32        `koanf:"min_requests"`  // 统计窗口内至少多少请求才判断
	FailureRatio float64       `koanf:"failure_ratio" validate:"gte=0,lte=1"`

	// Registerer 为空时不注册指标
	Registerer prometheus.Registerer `koanf:"-"`
}

func (c *BreakerConfig) withDefaults() {
	if c.Name == "" {
		c.Name = "catalog"
	}
	if c.MaxRequests == 0 {
		c.MaxRequests = 3
	}
	if c.Interval <= 0 {
		c.Interval = time.Minute
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.MinRequests == 0 {
		c.MinRequests = 10
	}
	if c.FailureRatio <= 0 {
		c.FailureRatio = 0.6
	}
}

type breakerMetrics struct {
	state    *prometheus.GaugeVec
	requests *prometheus.CounterVec
}

func newBreakerMetrics(reg prometheus.Registerer) *breakerMetrics {
	if reg == nil {
		return nil
	}
	f := promauto.With(reg)
	return &breakerMetrics{
		state: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "tagrec_catalog_breaker_state",
			Help: "Catalog circuit breaker state (0=closed, 1=half-open, 2=open)",
		}, []string{"name"}),
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tagrec_catalog_breaker_requests_total",
			Help: "Catalog calls through the circuit breaker by result",
		}, []string{"name", "result"}),
	}
}

// BreakerCatalog 用熔断器包装 core.Catalog：
//   - 存储连续失败时快速失败，打开状态直接返回 UNAVAILABLE
//   - NOT_FOUND / INVALID_INPUT 属于业务结果，不计入失败
//   - 不做任何重试
type BreakerCatalog struct {
	next    core.Catalog
	cb      *gobreaker.CircuitBreaker[any]
	name    string
	metrics *breakerMetrics
}

var _ core.Catalog = (*BreakerCatalog)(nil)

func NewBreakerCatalog(next core.Catalog, cfg BreakerConfig) *BreakerCatalog {
	cfg.withDefaults()
	b := &BreakerCatalog{
		next:    next,
		name:    cfg.Name,
		metrics: newBreakerMetrics(cfg.Registerer),
	}
	if b.metrics != nil {
		b.metrics.state.WithLabelValues(cfg.Name).Set(0)
	}

	b.cb = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= cfg.FailureRatio
		},
		IsSuccessful: func(err error) bool {
			return err == nil || core.IsNotFound(err) || core.IsInvalidInput(err) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("catalog circuit breaker state changed")
			if b.metrics != nil {
				b.metrics.state.WithLabelValues(name).Set(stateValue(to))
			}
		},
	})
	return b
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// State 返回当前熔断状态。
func (b *BreakerCatalog) State() gobreaker.State {
	return b.cb.State()
}

func (b *BreakerCatalog) observe(result string) {
	if b.metrics != nil {
		b.metrics.requests.WithLabelValues(b.name, result).Inc()
	}
}

func (b *BreakerCatalog) execute(op string, fn func() (any, error)) (any, error) {
	res, err := b.cb.Execute(fn)
	if err == nil {
		b.observe("success")
		return res, nil
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		b.observe("rejected")
		return nil, core.Unavailable(core.ModuleCatalog, fmt.Sprintf("%s: circuit %s", op, b.cb.State()), err)
	}
	b.observe("failure")
	return nil, err
}

func cast[T any](res any, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	v, ok := res.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", res)
	}
	return v, nil
}

func (b *BreakerCatalog) FetchUserWithHistory(ctx context.Context, userID string) (*core.User, error) {
	return cast[*core.User](b.execute("fetch user", func() (any, error) {
		return b.next.FetchUserWithHistory(ctx, userID)
	}))
}

func (b *BreakerCatalog) FetchAllItems(ctx context.Context) ([]*core.Item, error) {
	return cast[[]*core.Item](b.execute("fetch items", func() (any, error) {
		return b.next.FetchAllItems(ctx)
	}))
}

func (b *BreakerCatalog) AppendInteraction(ctx context.Context, in *core.Interaction) (*core.Interaction, error) {
	return cast[*core.Interaction](b.execute("append interaction", func() (any, error) {
		return b.next.AppendInteraction(ctx, in)
	}))
}
