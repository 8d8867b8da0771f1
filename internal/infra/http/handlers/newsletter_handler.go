package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/agentflow/agentflow-api/internal/apperror"
	"github.com/agentflow/agentflow-api/internal/entity"
	"github.com/agentflow/agentflow-api/internal/infra/http/middleware"
	"github.com/agentflow/agentflow-api/internal/logger"
	"github.com/agentflow/agentflow-api/internal/usecase"
)

type NewsletterHandler struct {
	Repo  entity.NewsletterRepositoryInterface
	Email usecase.EmailService
	Resp  *Responder
	log   *logger.Logger
}

func NewNewsletterHandler(repo entity.NewsletterRepositoryInterface, email usecase.EmailService, resp *Responder, log *logger.Logger) *NewsletterHandler {
	return &NewsletterHandler{Repo: repo, Email: email, Resp: resp, log: log.Child("http:newsletter", nil)}
}

func (h *NewsletterHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var input usecase.SubscribeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.Resp.Error(w, apperror.BadRequest("invalid JSON body"))
		return
	}

	if errs := usecase.ValidateSubscribeInput(input); len(errs) > 0 {
		h.Resp.Error(w, usecase.ValidationAppError(errs))
		return
	}

	sub := &entity.Subscriber{
		Email: usecase.ValidateEmail(input.Email),
		Name:  usecase.SanitizeString(strings.TrimSpace(input.Name)),
	}
	if err := h.Repo.Upsert(r.Context(), sub); err != nil {
		h.Resp.Error(w, err)
		return
	}

	if h.Email != nil {
		if err := h.Email.SendNewsletterWelcome(sub.Email, sub.Name); err != nil {
			h.log.Warn("welcome email failed", map[string]any{"email": sub.Email, "error": err.Error()})
		}
	}

	middleware.RecordNewsletterSignup()
	h.Resp.JSON(w, http.StatusCreated, sub)
}
