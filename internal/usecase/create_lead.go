package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/agentflow/agentflow-api/internal/entity"
	"github.com/agentflow/agentflow-api/internal/logger"
)

// CreateLeadUseCase persists a captured lead, derives its initial business
// assessment from the declared challenges, and notifies the sales inbox.
type CreateLeadUseCase struct {
	LeadRepo       entity.LeadRepositoryInterface
	AssessmentRepo entity.AssessmentRepositoryInterface
	Email          EmailService
	NotifyAddress  string
	log            *logger.Logger
}

func NewCreateLeadUseCase(
	leadRepo entity.LeadRepositoryInterface,
	assessmentRepo entity.AssessmentRepositoryInterface,
	email EmailService,
	notifyAddress string,
	log *logger.Logger,
) *CreateLeadUseCase {
	return &CreateLeadUseCase{
		LeadRepo:       leadRepo,
		AssessmentRepo: assessmentRepo,
		Email:          email,
		NotifyAddress:  notifyAddress,
		log:            log.Child("usecase:create_lead", nil),
	}
}

func (uc *CreateLeadUseCase) Execute(ctx context.Context, input CreateLeadInput) (*entity.Lead, error) {
	if errs := ValidateCreateLeadInput(input); len(errs) > 0 {
		return nil, ValidationAppError(errs)
	}

	lead := &entity.Lead{
		Name:          SanitizeString(strings.TrimSpace(input.Name)),
		Email:         ValidateEmail(input.Email),
		Phone:         ValidatePhone(input.Phone),
		Company:       SanitizeString(strings.TrimSpace(input.Company)),
		BusinessField: SanitizeString(strings.TrimSpace(input.BusinessField)),
		CompanySize:   strings.TrimSpace(input.CompanySize),
		Challenges:    input.Challenges,
		Message:       SanitizeString(strings.TrimSpace(input.Message)),
		Source:        input.Source,
	}

	if err := uc.LeadRepo.Create(ctx, lead); err != nil {
		return nil, err
	}

	assessment := deriveAssessment(lead)
	if err := uc.AssessmentRepo.Create(ctx, assessment); err != nil {
		// The lead itself is in; losing the derived assessment is not worth
		// failing the capture.
		uc.log.Error("derived assessment not persisted", err, map[string]any{"lead_id": lead.ID})
	}

	if uc.Email != nil && uc.NotifyAddress != "" {
		if err := uc.Email.SendLeadNotification(uc.NotifyAddress, lead); err != nil {
			uc.log.Warn("lead notification email failed", map[string]any{
				"lead_id": lead.ID,
				"error":   err.Error(),
			})
		}
	}

	uc.log.Info("lead captured", map[string]any{
		"lead_id": lead.ID,
		"source":  lead.Source,
		"score":   assessment.AutomationScore,
	})
	return lead, nil
}

// challenge keywords that signal high automation potential
var highValueChallenges = []string{
	"manual", "repetitive", "data entry", "customer support", "follow-up",
	"scheduling", "invoicing", "reporting",
}

// deriveAssessment scores automation potential from the challenges the lead
// declared: a base for showing up, a step per challenge, a bonus for
// challenges automation is known to solve well.
func deriveAssessment(lead *entity.Lead) *entity.BusinessAssessment {
	score := 20
	for _, challenge := range lead.Challenges {
		score += 10
		lower := strings.ToLower(challenge)
		for _, kw := range highValueChallenges {
			if strings.Contains(lower, kw) {
				score += 5
				break
			}
		}
	}
	if score > 100 {
		score = 100
	}

	summary := "No challenges declared"
	if len(lead.Challenges) > 0 {
		summary = fmt.Sprintf("%d challenge(s) declared: %s", len(lead.Challenges), strings.Join(lead.Challenges, "; "))
	}

	return &entity.BusinessAssessment{
		LeadID:          lead.ID,
		BusinessField:   lead.BusinessField,
		CompanySize:     lead.CompanySize,
		AutomationScore: score,
		Summary:         summary,
	}
}
