// Package api 用 chi 暴露推荐、交互上报与目录维护的 HTTP 接口。
//
//	GET  /recommendations/{userID}
//	POST /users
//	GET  /users/{userID}
//	POST /users/{userID}/interactions
//	GET  /items
//	POST /items
//	GET  /items/{itemID}
//	GET  /healthz
//	GET  /metrics
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rushteam/tagrec/core"
	"github.com/rushteam/tagrec/pkg/logging"
	"github.com/rushteam/tagrec/recommend"
)

// RequestIDHeader 是请求 ID 的 HTTP 头。
const RequestIDHeader = "X-Request-ID"

// Server 持有 HTTP 层依赖。
type Server struct {
	svc      *recommend.Service
	admin    core.CatalogAdmin
	gatherer prometheus.Gatherer
	now      func() time.Time
}

// Option 配置 Server。
type Option func(*Server)

// WithGatherer 设置 /metrics 暴露的指标源，默认 prometheus.DefaultGatherer。
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// WithClock 设置创建物品 / 用户时使用的时间源。
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

func NewServer(svc *recommend.Service, admin core.CatalogAdmin, opts ...Option) *Server {
	s := &Server{
		svc:      svc,
		admin:    admin,
		gatherer: prometheus.DefaultGatherer,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler 返回完整路由。
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(accessLog)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Get("/recommendations/{userID}", s.handleRecommend)

	r.Route("/users", func(r chi.Router) {
		r.Post("/", s.handleCreateUser)
		r.Get("/{userID}", s.handleGetUser)
		r.Post("/{userID}/interactions", s.handleRecord)
	})

	r.Route("/items", func(r chi.Router) {
		r.Get("/", s.handleListItems)
		r.Post("/", s.handleCreateItem)
		r.Get("/{itemID}", s.handleGetItem)
	})
	return r
}

// requestID 透传或生成请求 ID，并放入 context 供日志使用。
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = logging.NewRequestID()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(logging.ContextWithRequestID(r.Context(), id)))
	})
}

func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logging.Ctx(r.Context()).Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("took", time.Since(start)).
			Msg("http request")
	})
}
