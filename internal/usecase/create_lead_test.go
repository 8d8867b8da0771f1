package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/agentflow/agentflow-api/internal/apperror"
	"github.com/agentflow/agentflow-api/internal/entity"
	"github.com/agentflow/agentflow-api/internal/logger"
)

func testLog() *logger.Logger {
	return logger.New("test", "warn", false)
}

func TestCreateLeadSuccess(t *testing.T) {
	leadRepo := new(MockLeadRepository)
	assessmentRepo := new(MockAssessmentRepository)
	email := new(MockEmailService)

	leadRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	assessmentRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	email.On("SendLeadNotification", "sales@agentflow.co.il", mock.Anything).Return(nil)

	uc := NewCreateLeadUseCase(leadRepo, assessmentRepo, email, "sales@agentflow.co.il", testLog())

	lead, err := uc.Execute(context.Background(), CreateLeadInput{
		Name:       "Dana Levi",
		Email:      "Dana@Example.COM",
		Phone:      "050-123-4567",
		Challenges: []string{"manual data entry", "slow customer support"},
	})

	assert.NoError(t, err)
	assert.Equal(t, "dana@example.com", lead.Email, "email is normalized")
	assert.Equal(t, "0501234567", lead.Phone, "phone is digits only")

	leadRepo.AssertExpectations(t)
	assessmentRepo.AssertExpectations(t)
	email.AssertExpectations(t)
}

func TestCreateLeadValidationFailure(t *testing.T) {
	uc := NewCreateLeadUseCase(new(MockLeadRepository), new(MockAssessmentRepository), nil, "", testLog())

	_, err := uc.Execute(context.Background(), CreateLeadInput{Email: "nope"})

	var appErr *apperror.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, 400, appErr.StatusCode)
}

func TestCreateLeadRepositoryFailurePropagates(t *testing.T) {
	leadRepo := new(MockLeadRepository)
	dbErr := apperror.Database("database operation failed")
	leadRepo.On("Create", mock.Anything, mock.Anything).Return(dbErr)

	uc := NewCreateLeadUseCase(leadRepo, new(MockAssessmentRepository), nil, "", testLog())

	_, err := uc.Execute(context.Background(), CreateLeadInput{Name: "Dana", Email: "dana@example.com"})
	assert.Equal(t, dbErr, err)
}

func TestCreateLeadSurvivesAssessmentFailure(t *testing.T) {
	leadRepo := new(MockLeadRepository)
	assessmentRepo := new(MockAssessmentRepository)

	leadRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	assessmentRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("insert failed"))

	uc := NewCreateLeadUseCase(leadRepo, assessmentRepo, nil, "", testLog())

	lead, err := uc.Execute(context.Background(), CreateLeadInput{Name: "Dana", Email: "dana@example.com"})
	assert.NoError(t, err, "a lost derived assessment must not fail the capture")
	assert.NotNil(t, lead)
}

func TestDeriveAssessmentScoring(t *testing.T) {
	none := deriveAssessment(&entity.Lead{})
	assert.Equal(t, 20, none.AutomationScore)
	assert.Equal(t, "No challenges declared", none.Summary)

	plain := deriveAssessment(&entity.Lead{Challenges: []string{"growth"}})
	assert.Equal(t, 30, plain.AutomationScore)

	highValue := deriveAssessment(&entity.Lead{Challenges: []string{"manual data entry"}})
	assert.Equal(t, 35, highValue.AutomationScore, "known-automatable challenges score a bonus")

	many := make([]string, 20)
	for i := range many {
		many[i] = "repetitive work"
	}
	capped := deriveAssessment(&entity.Lead{Challenges: many})
	assert.Equal(t, 100, capped.AutomationScore)
}
