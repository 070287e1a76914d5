package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rushteam/tagrec/core"
	"github.com/rushteam/tagrec/pkg/validate"
	"github.com/rushteam/tagrec/recommend"
)

// CreateItemRequest 是创建物品的请求体，ID 为空时由服务端生成。
type CreateItemRequest struct {
	ID      string   `json:"id,omitempty" validate:"omitempty,max=128"`
	Title   string   `json:"title" validate:"required"`
	Content string   `json:"content" validate:"required"`
	Type    string   `json:"type" validate:"required,oneof=video article answer"`
	Tags    []string `json:"tags" validate:"dive,required"`
}

// CreateUserRequest 是创建用户的请求体。
type CreateUserRequest struct {
	ID   string `json:"id,omitempty" validate:"omitempty,max=128"`
	Name string `json:"name" validate:"required"`
}

// RecordInteractionRequest 是上报交互的请求体，user_id 取自路径。
type RecordInteractionRequest struct {
	ItemID      string   `json:"item_id"`
	Type        string   `json:"interaction_type"`
	Duration    *float64 `json:"duration,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	SearchQuery string   `json:"search_query,omitempty"`
}

func invalid(err error) error {
	return core.InvalidInput(core.ModuleCatalog, err.Error())
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.Recommend(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, res)
}

func (s *Server) handleRecord(w http.ResponseWriter, r *http.Request) {
	var body RecordInteractionRequest
	if err := decodeBody(w, r, &body); err != nil {
		respondError(w, r, err)
		return
	}
	in, err := s.svc.Record(r.Context(), recommend.RecordRequest{
		UserID:      chi.URLParam(r, "userID"),
		ItemID:      body.ItemID,
		Type:        body.Type,
		Duration:    body.Duration,
		Rating:      body.Rating,
		SearchQuery: body.SearchQuery,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, in)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var body CreateUserRequest
	if err := decodeBody(w, r, &body); err != nil {
		respondError(w, r, err)
		return
	}
	if err := validate.Struct(body); err != nil {
		respondError(w, r, invalid(err))
		return
	}
	user := &core.User{ID: body.ID, Name: body.Name, CreatedAt: s.now().UTC()}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if err := s.admin.PutUser(r.Context(), user); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, user)
}

// handleGetUser 返回用户、交互历史与兴趣画像。
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	view, err := s.svc.Profile(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, view)
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.admin.ListItems(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var body CreateItemRequest
	if err := decodeBody(w, r, &body); err != nil {
		respondError(w, r, err)
		return
	}
	if err := validate.Struct(body); err != nil {
		respondError(w, r, invalid(err))
		return
	}
	now := s.now().UTC()
	item := &core.Item{
		ID:        body.ID,
		Title:     body.Title,
		Content:   body.Content,
		Type:      core.ItemType(body.Type),
		Tags:      body.Tags,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.Tags == nil {
		item.Tags = []string{}
	}
	if err := s.admin.PutItem(r.Context(), item); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, item)
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	item, err := s.admin.GetItem(r.Context(), chi.URLParam(r, "itemID"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, item)
}
