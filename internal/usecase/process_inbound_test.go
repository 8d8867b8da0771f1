package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/agentflow/agentflow-api/internal/ai"
	"github.com/agentflow/agentflow-api/internal/cache"
	"github.com/agentflow/agentflow-api/internal/entity"
	"github.com/agentflow/agentflow-api/internal/infra/queue"
)

func inboundTask() queue.InboundTask {
	return queue.InboundTask{
		ProviderID: "wamid.123",
		From:       "972501234567",
		Body:       "how much does a chatbot cost?",
		ReceivedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

func TestProcessInboundDropsWithoutSession(t *testing.T) {
	repo := new(MockWhatsappRepository)
	sender := new(MockMessageSender)

	repo.On("FindActiveSessionByPhone", mock.Anything, "972501234567").Return(nil, nil)
	repo.On("SaveMessage", mock.Anything, mock.MatchedBy(func(m *entity.WhatsappMessage) bool {
		return m.Direction == entity.DirectionInbound && m.SessionID == ""
	})).Return(nil)

	uc := NewProcessInboundUseCase(repo, ai.NewKeywordAnalyzer(), sender, nil, testLog())

	err := uc.ProcessInbound(context.Background(), inboundTask())
	assert.NoError(t, err, "dropping is not a failure, the delivery must be acked")

	repo.AssertExpectations(t)
	sender.AssertNotCalled(t, "SendText", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessInboundRepliesInDetectedLanguage(t *testing.T) {
	repo := new(MockWhatsappRepository)
	sender := new(MockMessageSender)
	session := &entity.WhatsappSession{ID: "sess-1", Phone: "972501234567", Status: entity.SessionActive}

	repo.On("FindActiveSessionByPhone", mock.Anything, "972501234567").Return(session, nil)
	repo.On("SaveMessage", mock.Anything, mock.Anything).Return(nil)
	sender.On("SendText", mock.Anything, "972501234567", mock.Anything).Return("wamid.out", nil)

	uc := NewProcessInboundUseCase(repo, ai.NewKeywordAnalyzer(), sender, nil, testLog())

	task := inboundTask()
	task.Body = "כמה עולה השירות?"
	err := uc.ProcessInbound(context.Background(), task)
	assert.NoError(t, err)

	sentBody := sender.Calls[0].Arguments.String(2)
	assert.Equal(t, ai.Reply(ai.Analysis{Intent: ai.IntentPricing, Language: "he"}), sentBody)

	outbound := repo.Calls[2].Arguments.Get(1).(*entity.WhatsappMessage)
	assert.Equal(t, entity.DirectionOutbound, outbound.Direction)
	assert.Equal(t, "sess-1", outbound.SessionID)
	assert.Equal(t, ai.IntentPricing, outbound.Intent)
	assert.Equal(t, "wamid.out", outbound.ProviderID)
}

func TestProcessInboundPrefersDatabaseTemplate(t *testing.T) {
	repo := new(MockWhatsappRepository)
	sender := new(MockMessageSender)
	session := &entity.WhatsappSession{ID: "sess-1", Phone: "972501234567", Status: entity.SessionActive}
	tmpl := &entity.WhatsappTemplate{Name: "auto_reply_pricing", Language: "en", Body: "Custom pricing copy"}

	repo.On("FindActiveSessionByPhone", mock.Anything, mock.Anything).Return(session, nil)
	repo.On("SaveMessage", mock.Anything, mock.Anything).Return(nil)
	repo.On("FindTemplateByName", mock.Anything, "auto_reply_pricing", "en").Return(tmpl, nil).Once()
	sender.On("SendText", mock.Anything, mock.Anything, "Custom pricing copy").Return("wamid.out", nil)

	templates := cache.New("templates", time.Hour, testLog(), false)
	uc := NewProcessInboundUseCase(repo, ai.NewKeywordAnalyzer(), sender, templates, testLog())

	err := uc.ProcessInbound(context.Background(), inboundTask())
	assert.NoError(t, err)

	// second message with the same intent is served from cache
	err = uc.ProcessInbound(context.Background(), inboundTask())
	assert.NoError(t, err)

	repo.AssertExpectations(t)
}

func TestProcessInboundFallsBackWhenNoTemplate(t *testing.T) {
	repo := new(MockWhatsappRepository)
	sender := new(MockMessageSender)
	session := &entity.WhatsappSession{ID: "sess-1", Phone: "972501234567", Status: entity.SessionActive}

	repo.On("FindActiveSessionByPhone", mock.Anything, mock.Anything).Return(session, nil)
	repo.On("SaveMessage", mock.Anything, mock.Anything).Return(nil)
	repo.On("FindTemplateByName", mock.Anything, "auto_reply_pricing", "en").Return(nil, nil)
	sender.On("SendText", mock.Anything, mock.Anything, mock.Anything).Return("wamid.out", nil)

	templates := cache.New("templates", time.Hour, testLog(), false)
	uc := NewProcessInboundUseCase(repo, ai.NewKeywordAnalyzer(), sender, templates, testLog())

	err := uc.ProcessInbound(context.Background(), inboundTask())
	assert.NoError(t, err)

	sentBody := sender.Calls[0].Arguments.String(2)
	assert.Equal(t, ai.Reply(ai.Analysis{Intent: ai.IntentPricing, Language: "en"}), sentBody)
}

func TestProcessInboundPersistsMessageBeforeSessionLookup(t *testing.T) {
	repo := new(MockWhatsappRepository)
	sender := new(MockMessageSender)

	repo.On("SaveMessage", mock.Anything, mock.MatchedBy(func(m *entity.WhatsappMessage) bool {
		return m.Direction == entity.DirectionInbound
	})).Return(nil).Once()
	repo.On("FindActiveSessionByPhone", mock.Anything, "972501234567").Return(nil, assert.AnError)

	uc := NewProcessInboundUseCase(repo, ai.NewKeywordAnalyzer(), sender, nil, testLog())

	err := uc.ProcessInbound(context.Background(), inboundTask())
	assert.ErrorIs(t, err, assert.AnError)

	repo.AssertExpectations(t)
	sender.AssertNotCalled(t, "SendText", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessInboundSendFailureBubbles(t *testing.T) {
	repo := new(MockWhatsappRepository)
	sender := new(MockMessageSender)
	session := &entity.WhatsappSession{ID: "sess-1", Phone: "972501234567", Status: entity.SessionActive}

	repo.On("FindActiveSessionByPhone", mock.Anything, mock.Anything).Return(session, nil)
	repo.On("SaveMessage", mock.Anything, mock.Anything).Return(nil)
	sender.On("SendText", mock.Anything, mock.Anything, mock.Anything).Return("", assert.AnError)

	uc := NewProcessInboundUseCase(repo, ai.NewKeywordAnalyzer(), sender, nil, testLog())

	err := uc.ProcessInbound(context.Background(), inboundTask())
	assert.ErrorIs(t, err, assert.AnError)
}
