// Package recommend 编排一次推荐：取数据 -> 构建兴趣画像 -> 选择 Pipeline -> 输出结果。
//
//	svc, err := recommend.New(catalog, recommend.WithMetrics(recommend.NewMetrics(reg)))
//	res, err := svc.Recommend(ctx, "user-1")
//
// 画像为空（没有任何正权重交互）走冷启动 Pipeline，返回最新物品；
// 否则走个性化 Pipeline：全量召回 -> 去掉已交互 -> TF-IDF 余弦打分 -> 去掉 0 分 -> Top N。
package recommend

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rushteam/tagrec/config"
	_ "github.com/rushteam/tagrec/config/builders"
	"github.com/rushteam/tagrec/core"
	"github.com/rushteam/tagrec/pipeline"
	"github.com/rushteam/tagrec/pkg/logging"
	"github.com/rushteam/tagrec/pkg/utils"
	"github.com/rushteam/tagrec/profile"
	"github.com/rushteam/tagrec/rerank"
)

// 返回给调用方的提示语
const (
	MessagePersonalized = "Recommendations generated successfully using TF-IDF."
	MessageColdStart    = "No specific recommendations yet. Here are some popular/new items."
)

// Result 是一次推荐的输出，Items 按相关度（冷启动时按新旧）排好序。
type Result struct {
	UserID    string       `json:"user_id"`
	ColdStart bool         `json:"cold_start"`
	Message   string       `json:"message"`
	Items     []*core.Item `json:"recommendations"`
}

// Service 是推荐编排服务，无请求间状态，可并发使用。
type Service struct {
	catalog core.Catalog

	personalized *pipeline.Pipeline
	coldStart    *pipeline.Pipeline
	limit        int

	metrics *Metrics
	now     func() time.Time
	newID   func() string
	logger  *zerolog.Logger
}

// New 创建 Service，未指定的 Pipeline 使用内置配置。
func New(catalog core.Catalog, opts ...Option) (*Service, error) {
	s := &Service{
		catalog: catalog,
		limit:   rerank.DefaultTopN,
		now:     time.Now,
		newID:   defaultID,
	}
	for _, opt := range opts {
		opt(s)
	}

	var err error
	if s.personalized == nil {
		if s.personalized, err = config.LoadPipeline(config.PipelinePersonalized, ""); err != nil {
			return nil, err
		}
	}
	if s.coldStart == nil {
		if s.coldStart, err = config.LoadPipeline(config.PipelineColdStart, ""); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Service) log(ctx context.Context) *zerolog.Logger {
	if s.logger != nil {
		l := s.logger.With().Str("request_id", logging.RequestIDFromContext(ctx)).Logger()
		return &l
	}
	return logging.Ctx(ctx)
}

// fetch 并发获取用户历史与完整语料，任一失败即整体失败。
func (s *Service) fetch(ctx context.Context, userID string) (*core.User, []*core.Item, error) {
	var (
		user  *core.User
		items []*core.Item
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		user, err = s.catalog.FetchUserWithHistory(egCtx, userID)
		return err
	})
	eg.Go(func() error {
		var err error
		items, err = s.catalog.FetchAllItems(egCtx)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}
	return user, items, nil
}

// Recommend 为用户生成推荐。
//
// 错误：userID 为空返回 INVALID_INPUT；用户不存在返回 NOT_FOUND；存储故障原样返回。
// 推荐结果为空不是错误。
func (s *Service) Recommend(ctx context.Context, userID string) (res *Result, err error) {
	start := time.Now()
	defer func() {
		outcome := OutcomeError
		if err == nil {
			outcome = OutcomePersonalized
			if res.ColdStart {
				outcome = OutcomeColdStart
			}
		}
		s.observe(outcome, time.Since(start), res)
	}()

	if userID == "" {
		return nil, core.InvalidInput(core.ModuleRecommend, "user id is required")
	}

	user, items, err := s.fetch(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, core.NotFound(core.ModuleRecommend, "user "+userID+" not found")
	}

	prof := profile.FromUser(user)
	rctx := &core.RecommendContext{
		UserID:  userID,
		Scene:   "feed",
		User:    user,
		Profile: prof,
		Corpus:  items,
		Params:  map[string]any{rerank.ParamLimit: s.limit},
	}

	p, coldStart := s.personalized, prof.IsEmpty()
	if coldStart {
		p = s.coldStart
		rctx.PutLabel(utils.LabelColdStart, utils.StringLabel("true", "recommend"))
	}

	out, err := p.Run(ctx, rctx, nil)
	if err != nil {
		return nil, err
	}
	if len(out) > s.limit {
		out = out[:s.limit]
	}
	if out == nil {
		out = []*core.Item{}
	}

	res = &Result{UserID: userID, ColdStart: coldStart, Items: out, Message: MessagePersonalized}
	if coldStart {
		res.Message = MessageColdStart
	}

	s.log(ctx).Info().
		Str("user_id", userID).
		Bool("cold_start", coldStart).
		Int("corpus", len(items)).
		Int("history", len(user.History)).
		Int("returned", len(out)).
		Dur("took", time.Since(start)).
		Msg("recommend done")
	return res, nil
}

func (s *Service) observe(outcome string, took time.Duration, res *Result) {
	if s.metrics == nil {
		return
	}
	s.metrics.Requests.WithLabelValues(outcome).Inc()
	s.metrics.Latency.WithLabelValues(outcome).Observe(took.Seconds())
	if res != nil {
		s.metrics.ResultSize.Observe(float64(len(res.Items)))
	}
}

// ProfileView 是用户画像的解释视图。
type ProfileView struct {
	User       *core.User  `json:"user"`
	ColdStart  bool        `json:"cold_start"`
	Interests  core.Vector `json:"interests"`
	Interacted []string    `json:"interacted_item_ids"`
}

// Profile 返回用户、解析后的交互历史以及由它构建的兴趣画像。
func (s *Service) Profile(ctx context.Context, userID string) (*ProfileView, error) {
	if userID == "" {
		return nil, core.InvalidInput(core.ModuleRecommend, "user id is required")
	}
	user, err := s.catalog.FetchUserWithHistory(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, core.NotFound(core.ModuleRecommend, "user "+userID+" not found")
	}
	prof := profile.FromUser(user)
	interacted := make([]string, 0, len(prof.Interacted))
	for id := range prof.Interacted {
		interacted = append(interacted, id)
	}
	sort.Strings(interacted)
	return &ProfileView{
		User:       user,
		ColdStart:  prof.IsEmpty(),
		Interests:  prof.Vector,
		Interacted: interacted,
	}, nil
}
