package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/agentflow/agentflow-api/internal/apperror"
	"github.com/agentflow/agentflow-api/internal/entity"
	"github.com/agentflow/agentflow-api/internal/usecase"
)

type NeedHandler struct {
	NeedRepo       entity.NeedRepositoryInterface
	AssessmentRepo entity.AssessmentRepositoryInterface
	Resp           *Responder
}

func NewNeedHandler(needRepo entity.NeedRepositoryInterface, assessmentRepo entity.AssessmentRepositoryInterface, resp *Responder) *NeedHandler {
	return &NeedHandler{NeedRepo: needRepo, AssessmentRepo: assessmentRepo, Resp: resp}
}

// Create rejects needs pointing at unknown assessments before touching the
// needs table; the FK would catch it anyway, but a 404 beats a wrapped
// constraint violation.
func (h *NeedHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateNeedInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.Resp.Error(w, apperror.BadRequest("invalid JSON body"))
		return
	}

	if errs := usecase.ValidateCreateNeedInput(input); len(errs) > 0 {
		h.Resp.Error(w, usecase.ValidationAppError(errs))
		return
	}

	assessment, err := h.AssessmentRepo.FindByID(r.Context(), input.AssessmentID)
	if err != nil {
		h.Resp.Error(w, err)
		return
	}
	if assessment == nil {
		h.Resp.Error(w, apperror.NotFound("assessment not found"))
		return
	}

	need := &entity.BusinessNeed{
		AssessmentID: assessment.ID,
		Category:     usecase.SanitizeString(strings.TrimSpace(input.Category)),
		Description:  usecase.SanitizeString(strings.TrimSpace(input.Description)),
		Priority:     input.Priority,
	}
	if err := h.NeedRepo.Create(r.Context(), need); err != nil {
		h.Resp.Error(w, err)
		return
	}

	h.Resp.JSON(w, http.StatusCreated, need)
}
