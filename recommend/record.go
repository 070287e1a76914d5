package recommend

import (
	"context"

	"github.com/rushteam/tagrec/core"
	"github.com/rushteam/tagrec/pkg/validate"
)

// RecordRequest 是一次交互上报。
type RecordRequest struct {
	UserID      string   `json:"user_id" validate:"required"`
	ItemID      string   `json:"item_id" validate:"required"`
	Type        string   `json:"interaction_type" validate:"required"`
	Duration    *float64 `json:"duration,omitempty" validate:"omitempty,gte=0"`
	Rating      *float64 `json:"rating,omitempty" validate:"omitempty,gte=1,lte=5"`
	SearchQuery string   `json:"search_query,omitempty" validate:"omitempty,max=512"`
}

func (r RecordRequest) options() core.InteractionOptions {
	return core.InteractionOptions{
		Duration:    r.Duration,
		Rating:      r.Rating,
		SearchQuery: r.SearchQuery,
	}
}

// Validate 校验字段与交互类型，全部在写存储之前完成。
func (r RecordRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return core.InvalidInput(core.ModuleRecommend, err.Error())
	}
	t, err := core.ParseInteractionType(r.Type)
	if err != nil {
		return err
	}
	return t.CheckOptions(r.options())
}

// Record 校验并追加一条交互，ID 与时间戳由服务端生成。
// 校验失败返回 INVALID_INPUT 且不触达存储；用户或物品不存在返回 NOT_FOUND。
func (s *Service) Record(ctx context.Context, req RecordRequest) (*core.Interaction, error) {
	if err := req.Validate(); err != nil {
		if s.metrics != nil {
			s.metrics.RejectedInteractions.Inc()
		}
		return nil, err
	}

	in := &core.Interaction{
		ID:          s.newID(),
		UserID:      req.UserID,
		ItemID:      req.ItemID,
		Type:        core.InteractionType(req.Type),
		Timestamp:   s.now().UTC(),
		Duration:    req.Duration,
		Rating:      req.Rating,
		SearchQuery: req.SearchQuery,
	}
	saved, err := s.catalog.AppendInteraction(ctx, in)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.Interactions.WithLabelValues(string(saved.Type)).Inc()
	}
	s.log(ctx).Debug().
		Str("user_id", saved.UserID).
		Str("item_id", saved.ItemID).
		Str("type", string(saved.Type)).
		Msg("interaction recorded")
	return saved, nil
}
