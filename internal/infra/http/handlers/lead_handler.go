package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/agentflow/agentflow-api/internal/apperror"
	"github.com/agentflow/agentflow-api/internal/infra/http/middleware"
	"github.com/agentflow/agentflow-api/internal/usecase"
)

type LeadHandler struct {
	CreateLead *usecase.CreateLeadUseCase
	Resp       *Responder
}

func NewLeadHandler(createLead *usecase.CreateLeadUseCase, resp *Responder) *LeadHandler {
	return &LeadHandler{CreateLead: createLead, Resp: resp}
}

func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateLeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.Resp.Error(w, apperror.BadRequest("invalid JSON body"))
		return
	}

	lead, err := h.CreateLead.Execute(r.Context(), input)
	if err != nil {
		h.Resp.Error(w, err)
		return
	}

	middleware.RecordLeadCaptured(lead.Source)
	h.Resp.JSON(w, http.StatusCreated, lead)
}
