package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/agentflow/agentflow-api/internal/ai"
	"github.com/agentflow/agentflow-api/internal/entity"
)

type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

type MockAssessmentRepository struct {
	mock.Mock
}

func (m *MockAssessmentRepository) Create(ctx context.Context, a *entity.BusinessAssessment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAssessmentRepository) FindByID(ctx context.Context, id string) (*entity.BusinessAssessment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.BusinessAssessment), args.Error(1)
}

func (m *MockAssessmentRepository) UpdateStatus(ctx context.Context, id, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendNewsletterWelcome(to, name string) error {
	args := m.Called(to, name)
	return args.Error(0)
}

func (m *MockEmailService) SendLeadNotification(to string, lead *entity.Lead) error {
	args := m.Called(to, lead)
	return args.Error(0)
}

type MockWhatsappRepository struct {
	mock.Mock
}

func (m *MockWhatsappRepository) SaveMessage(ctx context.Context, msg *entity.WhatsappMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockWhatsappRepository) FindActiveSessionByPhone(ctx context.Context, phone string) (*entity.WhatsappSession, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.WhatsappSession), args.Error(1)
}

func (m *MockWhatsappRepository) CreateSession(ctx context.Context, s *entity.WhatsappSession) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockWhatsappRepository) CloseSession(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockWhatsappRepository) FindTemplateByName(ctx context.Context, name, language string) (*entity.WhatsappTemplate, error) {
	args := m.Called(ctx, name, language)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.WhatsappTemplate), args.Error(1)
}

type MockMessageSender struct {
	mock.Mock
}

func (m *MockMessageSender) SendText(ctx context.Context, to, body string) (string, error) {
	args := m.Called(ctx, to, body)
	return args.String(0), args.Error(1)
}

func (m *MockMessageSender) SendTemplate(ctx context.Context, to, templateName, language string, params []string) (string, error) {
	args := m.Called(ctx, to, templateName, language, params)
	return args.String(0), args.Error(1)
}

type MockAnalyzer struct {
	mock.Mock
}

func (m *MockAnalyzer) Analyze(ctx context.Context, text string) (ai.Analysis, error) {
	args := m.Called(ctx, text)
	return args.Get(0).(ai.Analysis), args.Error(1)
}
