package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/agentflow/agentflow-api/internal/apperror"
	"github.com/agentflow/agentflow-api/internal/cache"
	"github.com/agentflow/agentflow-api/internal/entity"
	"github.com/agentflow/agentflow-api/internal/usecase"
)

// BlogHandler serves the public blog endpoints through the blog cache; every
// read is a GetOrSet against the repository.
type BlogHandler struct {
	Repo     entity.BlogRepositoryInterface
	Cache    *cache.Service
	APICache *cache.Service
	Resp     *Responder
}

func NewBlogHandler(repo entity.BlogRepositoryInterface, blogCache, apiCache *cache.Service, resp *Responder) *BlogHandler {
	return &BlogHandler{Repo: repo, Cache: blogCache, APICache: apiCache, Resp: resp}
}

func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.cachedList(r.Context())
	if err != nil {
		h.Resp.Error(w, err)
		return
	}
	h.Resp.JSON(w, http.StatusOK, posts)
}

func (h *BlogHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	v, err := h.Cache.GetOrSet(r.Context(), "post:"+slug, 0, func(ctx context.Context) (any, error) {
		return h.Repo.FindBySlug(ctx, slug)
	})
	if err != nil {
		h.Resp.Error(w, err)
		return
	}

	post, _ := v.(*entity.BlogPost)
	if post == nil {
		h.Resp.Error(w, apperror.NotFound("post not found"))
		return
	}
	h.Resp.JSON(w, http.StatusOK, post)
}

func (h *BlogHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")

	v, err := h.Cache.GetOrSet(r.Context(), "category:"+category, 0, func(ctx context.Context) (any, error) {
		return h.Repo.ListByCategory(ctx, category)
	})
	if err != nil {
		h.Resp.Error(w, err)
		return
	}
	h.Resp.JSON(w, http.StatusOK, v)
}

// Search ranks the cached post list in memory; the query must contain at
// least one term of three or more characters.
func (h *BlogHandler) Search(w http.ResponseWriter, r *http.Request) {
	terms := usecase.SearchTerms(r.URL.Query().Get("query"))
	if len(terms) == 0 {
		h.Resp.Error(w, apperror.BadRequest("search query must contain a term of at least 3 characters"))
		return
	}

	// Search results live in the short-TTL api cache; the underlying post
	// list comes from the blog cache either way.
	key := "search:" + strings.Join(terms, " ")
	v, err := h.APICache.GetOrSet(r.Context(), key, 0, func(ctx context.Context) (any, error) {
		posts, err := h.cachedList(ctx)
		if err != nil {
			return nil, err
		}
		return usecase.SearchPosts(posts, terms), nil
	})
	if err != nil {
		h.Resp.Error(w, err)
		return
	}

	h.Resp.JSON(w, http.StatusOK, v)
}

func (h *BlogHandler) cachedList(ctx context.Context) ([]*entity.BlogPost, error) {
	v, err := h.Cache.GetOrSet(ctx, "posts:all", 0, func(ctx context.Context) (any, error) {
		return h.Repo.List(ctx)
	})
	if err != nil {
		return nil, err
	}
	posts, _ := v.([]*entity.BlogPost)
	return posts, nil
}
